/*
 * yaml.go, part of mkmkit.
 *
 * Copyright 2026 The mkmkit authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package mkm

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//Numeric vectors are written in flow style, one vector per line, so documents stay
//readable and diff cleanly.

//FloatList is a list of numbers written as a YAML flow sequence.
type FloatList []float64

//Lattice contains the three lattice vectors, as rows, in Angstrom.
type Lattice [3][3]float64

//Coordinates contains fractional coordinates, one row per atom.
type Coordinates [][3]float64

//PBC are the periodic boundary flags along each lattice vector.
type PBC [3]bool

func floatNode(v float64) *yaml.Node {
	var s string
	switch {
	case math.IsNaN(v):
		s = ".nan"
	case math.IsInf(v, 1):
		s = ".inf"
	case math.IsInf(v, -1):
		s = "-.inf"
	default:
		s = strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: s}
}

func flowFloats(v []float64) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, f := range v {
		n.Content = append(n.Content, floatNode(f))
	}
	return n
}

//MarshalYAML writes the list in flow style.
func (F FloatList) MarshalYAML() (any, error) {
	return flowFloats(F), nil
}

//MarshalYAML writes each lattice vector in flow style.
func (L Lattice) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range L {
		n.Content = append(n.Content, flowFloats(row[:]))
	}
	return n, nil
}

//MarshalYAML writes each coordinate row in flow style.
func (C Coordinates) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range C {
		n.Content = append(n.Content, flowFloats(row[:]))
	}
	return n, nil
}

//UnmarshalYAML reads coordinate rows. Besides the [x, y, z] form, it accepts
//the "Symbol x y z" strings of older documents, discarding the symbol.
func (C *Coordinates) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: coordinates_direct must be a sequence", value.Line)
	}
	ret := make(Coordinates, 0, len(value.Content))
	for _, row := range value.Content {
		var c [3]float64
		switch row.Kind {
		case yaml.SequenceNode:
			if err := row.Decode(&c); err != nil {
				return err
			}
		case yaml.ScalarNode:
			fields := strings.Fields(row.Value)
			if len(fields) < 3 {
				return fmt.Errorf("line %d: can't read coordinates from %q", row.Line, row.Value)
			}
			fields = fields[len(fields)-3:]
			for i, f := range fields {
				var err error
				if c[i], err = strconv.ParseFloat(f, 64); err != nil {
					return fmt.Errorf("line %d: can't read coordinates from %q: %w", row.Line, row.Value, err)
				}
			}
		default:
			return fmt.Errorf("line %d: unexpected coordinate row", row.Line)
		}
		ret = append(ret, c)
	}
	*C = ret
	return nil
}

//MarshalYAML writes the flags in flow style.
func (P PBC) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, b := range P {
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)})
	}
	return n, nil
}

//MarshalYAML writes the settings as a mapping, keeping their order.
func (S Settings) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, v := range S {
		var val *yaml.Node
		switch t := v.Value.(type) {
		case float64:
			val = floatNode(t)
		case int:
			val = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(t)}
		case string:
			val = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: t}
		default:
			return nil, fmt.Errorf("setting %s has unsupported type %T", v.Key, v.Value)
		}
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Key}, val)
	}
	return n, nil
}

//UnmarshalYAML reads a settings mapping, keeping the order of the keys. Integer and float values
//keep their types, everything else is read as a string.
func (S *Settings) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: incar must be a mapping", value.Line)
	}
	ret := make(Settings, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: setting %s must be a scalar", val.Line, key.Value)
		}
		s := Setting{Key: key.Value, Value: val.Value}
		switch val.ShortTag() {
		case "!!int":
			var n int
			if err := val.Decode(&n); err == nil {
				s.Value = n
			}
		case "!!float":
			var f float64
			if err := val.Decode(&f); err == nil {
				s.Value = f
			}
		}
		ret = append(ret, s)
	}
	*S = ret
	return nil
}

//EncodeState writes the YAML document for the state to w.
func EncodeState(w io.Writer, state *State) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(state); err != nil {
		return docError("", "EncodeState", err)
	}
	if err := enc.Close(); err != nil {
		return docError("", "EncodeState", err)
	}
	return nil
}

//DecodeState reads a state document from r. Unknown keys are ignored.
func DecodeState(r io.Reader) (*State, error) {
	state := new(State)
	if err := yaml.NewDecoder(r).Decode(state); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty document")
		}
		return nil, docError("", "DecodeState", err)
	}
	if err := state.check(); err != nil {
		return nil, docError("", "DecodeState", err)
	}
	return state, nil
}

//check verifies the consistency of a decoded state.
func (S *State) check() error {
	if S.Structure.NAtoms != 0 && len(S.Structure.Direct) != 0 && len(S.Structure.Direct) != S.Structure.NAtoms {
		return fmt.Errorf("n_atoms is %d but there are %d coordinates", S.Structure.NAtoms, len(S.Structure.Direct))
	}
	if S.Calculation.Type == Frequency && S.Vibrations == nil {
		return errors.New("frequency calculation without a vibrations block")
	}
	if S.Vibrations != nil {
		for _, v := range S.Vibrations.Imaginary {
			if v > 0 {
				return fmt.Errorf("positive value %g in imaginary_cm-1", v)
			}
		}
	}
	return nil
}

//ReadState reads the state document in the file fname, which can be compressed.
func ReadState(fname string) (*State, error) {
	f, err := Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	state, err := DecodeState(f)
	if err != nil {
		var e *DocumentError
		if errors.As(err, &e) {
			e.filename = fname
			e.Decorate("ReadState")
		}
		return nil, err
	}
	return state, nil
}

//WriteState writes the state document to the file fname, atomically. The document
//is compressed if fname ends in .gz or .zst.
func WriteState(fname string, state *State) error {
	err := WriteFile(fname, func(w io.Writer) error {
		return EncodeState(w, state)
	})
	var e *DocumentError
	if errors.As(err, &e) {
		e.filename = fname
		e.Decorate("WriteState")
	}
	return err
}

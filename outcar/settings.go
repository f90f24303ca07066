/*
 * settings.go, part of mkmkit.
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

package outcar

import (
	"strconv"
	"strings"

	mkm "github.com/rmera/mkmkit"
)

// Kind is the type a setting value is cast to.
type Kind int

const (
	StringKind Kind = iota
	FloatKind
	IntKind
)

// SettingKey is an INCAR parameter to be extracted, and the type of its value.
type SettingKey struct {
	Name string
	Kind Kind
}

// DefaultKeys are the physics-relevant INCAR parameters recorded in state documents.
var DefaultKeys = []SettingKey{
	{"ENCUT", FloatKind},
	{"PREC", StringKind},
	{"EDIFF", FloatKind},
	{"EDIFFG", FloatKind},
	{"ISMEAR", IntKind},
	{"SIGMA", FloatKind},
	{"ISPIN", IntKind},
	{"IBRION", IntKind},
	{"POTIM", FloatKind},
	{"NFREE", IntKind},
	{"ISIF", IntKind},
	{"NSW", IntKind},
	{"LREAL", StringKind},
	{"LASPH", StringKind},
	{"GGA", StringKind},
	{"METAGGA", StringKind},
	{"IVDW", IntKind},
	{"ALGO", StringKind},
}

// KeysFor returns the setting keys for the given parameter names. Names in DefaultKeys keep their
// type, other names are read as strings. Names are case-insensitive.
func KeysFor(names []string) []SettingKey {
	ret := make([]SettingKey, 0, len(names))
	for _, name := range names {
		name = strings.ToUpper(strings.TrimSpace(name))
		key := SettingKey{name, StringKind}
		for _, v := range DefaultKeys {
			if v.Name == name {
				key = v
				break
			}
		}
		ret = append(ret, key)
	}
	return ret
}

// cast converts the raw value to the kind. If the conversion fails, the raw string is kept.
func (K Kind) cast(raw string) any {
	switch K {
	case FloatKind:
		if f, err := parseFloat(raw); err == nil {
			return f
		}
	case IntKind:
		if i, err := strconv.Atoi(raw); err == nil {
			return i
		}
	}
	return raw
}

// Settings extracts the INCAR parameters in keys from the log. Lines are split on ';' and
// each "KEY = value" segment is matched on the exact key. The first occurrence of each key
// wins. The result follows the order of keys, and keys not found in the log are omitted.
func (L *Log) Settings(keys []SettingKey) mkm.Settings {
	found := make(map[string]any, len(keys))
	kinds := make(map[string]Kind, len(keys))
	for _, k := range keys {
		kinds[k.Name] = k.Kind
	}
	for _, line := range L.Lines {
		if len(found) == len(keys) {
			break
		}
		if !strings.Contains(line, "=") {
			continue
		}
		for _, segment := range strings.Split(line, ";") {
			key, value, ok := strings.Cut(segment, "=")
			if !ok {
				continue
			}
			key = strings.TrimSpace(key)
			kind, wanted := kinds[key]
			if !wanted {
				continue
			}
			if _, done := found[key]; done {
				continue
			}
			fields := strings.Fields(value)
			if len(fields) == 0 {
				continue
			}
			found[key] = kind.cast(strings.TrimSuffix(fields[0], ";"))
		}
	}
	ret := make(mkm.Settings, 0, len(found))
	for _, k := range keys {
		if v, ok := found[k.Name]; ok {
			ret = append(ret, mkm.Setting{Key: k.Name, Value: v})
		}
	}
	return ret
}

// Potcar returns the pseudopotential identifiers, the text after "POTCAR:", unique and in order.
func (L *Log) Potcar() []string {
	var ret []string
	seen := make(map[string]bool)
	for _, line := range L.Lines {
		_, id, ok := strings.Cut(line, "POTCAR:")
		if !ok {
			continue
		}
		id = strings.Join(strings.Fields(id), " ")
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ret = append(ret, id)
	}
	return ret
}

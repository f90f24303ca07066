/*
 * log.go, part of mkmkit.
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
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	mkm "github.com/rmera/mkmkit"
)

// Lines in OUTCARs can be very long, for instance the rows of a large Hessian.
const maxLineLength = 4 * 1024 * 1024

// Log contains the lines of one OUTCAR, and the ranges of lines that belong to
// each run. A run starts at a vasp banner line, so a restart appended to the file
// forms a second run.
type Log struct {
	Name  string
	Lines []string
	Runs  []Run
}

// Run is a range of lines [Start, End) in a Log.
type Run struct {
	Start int
	End   int
}

// Read reads an OUTCAR from r. name is only used in error messages.
func Read(r io.Reader, name string) (*Log, error) {
	L := &Log{Name: name}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineLength)
	for scanner.Scan() {
		L.Lines = append(L.Lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	L.Runs = splitRuns(L.Lines)
	return L, nil
}

// ReadFile reads the OUTCAR in the file fname, which can be compressed with gzip, zstd or bzip2.
func ReadFile(fname string) (*Log, error) {
	f, err := mkm.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, fname)
}

func isBanner(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "vasp.")
}

// splitRuns returns the runs in the lines. If there is no banner, all the lines form one run.
func splitRuns(lines []string) []Run {
	var runs []Run
	start := 0
	for i, line := range lines {
		if isBanner(line) && i > start {
			runs = append(runs, Run{start, i})
			start = i
		} else if isBanner(line) {
			start = i
		}
	}
	return append(runs, Run{start, len(lines)})
}

// Version returns the code version from the first banner, or an empty string.
func (L *Log) Version() string {
	for _, line := range L.Lines {
		if isBanner(line) {
			return strings.Fields(line)[0]
		}
	}
	return ""
}

// find returns the index of the first line at or after from, and before to, that contains marker, or -1.
func (L *Log) find(marker string, from, to int) int {
	for i := from; i < to && i < len(L.Lines); i++ {
		if strings.Contains(L.Lines[i], marker) {
			return i
		}
	}
	return -1
}

// findLast returns the index of the last line before to that contains marker, or -1.
func (L *Log) findLast(marker string, to int) int {
	if to > len(L.Lines) {
		to = len(L.Lines)
	}
	for i := to - 1; i >= 0; i-- {
		if strings.Contains(L.Lines[i], marker) {
			return i
		}
	}
	return -1
}

// Fixed-width Fortran output can run numbers together ("-1.234-5.678"), so numbers are
// extracted with a pattern instead of by splitting on white space.
var floatPattern = regexp.MustCompile(`[-+]?(?:\d+\.\d*|\.\d+|\d+)(?:[eEdD][-+]?\d+)?`)

// floats returns all the numbers in s.
func floats(s string) ([]float64, error) {
	found := floatPattern.FindAllString(s, -1)
	ret := make([]float64, 0, len(found))
	for _, v := range found {
		f, err := parseFloat(v)
		if err != nil {
			return nil, err
		}
		ret = append(ret, f)
	}
	return ret, nil
}

// parseFloat parses a number, accepting the Fortran D exponent.
func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.NewReplacer("D", "E", "d", "e").Replace(s), 64)
}

// valueAfter returns the first field after the last occurrence of sep in line.
func valueAfter(line, sep string) (string, bool) {
	i := strings.LastIndex(line, sep)
	if i < 0 {
		return "", false
	}
	fields := strings.Fields(line[i+len(sep):])
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}

/*
 * compress.go, part of mkmkit.
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
	"bufio"
	"compress/bzip2"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

//Compression formats, deduced from the file extension.
const (
	Plain = ""
	Gzip  = "gz"
	Zstd  = "zst"
	Bzip2 = "bz2"
)

//CompressionFormat returns the compression format of the file name, deduced from its extension.
//Unknown extensions are taken as plain files.
func CompressionFormat(fname string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(fname), ".")) {
	case "gz", "gzip":
		return Gzip
	case "zst", "zstd":
		return Zstd
	case "bz2":
		return Bzip2
	default:
		return Plain
	}
}

//TrimCompression returns fname without the compression extension, if any.
func TrimCompression(fname string) string {
	if CompressionFormat(fname) == Plain {
		return fname
	}
	return strings.TrimSuffix(fname, filepath.Ext(fname))
}

//closers closes a chain of readers or writers, from the outermost one.
type closers []io.Closer

func (c closers) Close() error {
	var first error
	for _, v := range c {
		if err := v.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type readCloser struct {
	io.Reader
	closers
}

//Open opens the file fname and returns a reader that will read data from it, either 'as is'
//or decompressing first, depending on the file extension (.gz, .zst, .bz2 or anything else
//for a non-compressed file). The caller must close the returned reader.
//Errors from os.Open are returned unchanged.
func Open(fname string) (io.ReadCloser, error) {
	fhandle, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	reader := bufio.NewReader(fhandle)
	switch CompressionFormat(fname) {
	case Gzip:
		gz, err := gzip.NewReader(reader)
		if err != nil {
			fhandle.Close()
			return nil, fmt.Errorf("opening gzip stream %s: %w", fname, err)
		}
		return &readCloser{gz, closers{gz, fhandle}}, nil
	case Zstd:
		zs, err := zstd.NewReader(reader)
		if err != nil {
			fhandle.Close()
			return nil, fmt.Errorf("opening zstd stream %s: %w", fname, err)
		}
		zr := zs.IOReadCloser()
		return &readCloser{zr, closers{zr, fhandle}}, nil
	case Bzip2:
		return &readCloser{bzip2.NewReader(reader), closers{fhandle}}, nil
	default:
		return &readCloser{reader, closers{fhandle}}, nil
	}
}

//compressor returns a writer that compresses into w according to the extension of fname,
//and the closers that need to be called, in order, to flush the data.
func compressor(w io.Writer, fname string) (io.Writer, closers, error) {
	switch CompressionFormat(fname) {
	case Gzip:
		gz := gzip.NewWriter(w)
		return gz, closers{gz}, nil
	case Zstd:
		zs, err := zstd.NewWriter(w)
		if err != nil {
			return nil, nil, err
		}
		return zs, closers{zs}, nil
	case Bzip2:
		return nil, nil, fmt.Errorf("writing bzip2 files is not supported: %s", fname)
	default:
		return w, nil, nil
	}
}

//WriteFile writes the file fname atomically: fill writes the data into a temporary file in the
//same directory, which is compressed according to the extension of fname, and renamed to fname
//only after everything was written. On error, fname is left untouched.
func WriteFile(fname string, fill func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(fname), "."+filepath.Base(fname)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	buf := bufio.NewWriter(tmp)
	w, cl, err := compressor(buf, fname)
	if err != nil {
		return err
	}
	if err = fill(w); err != nil {
		cl.Close()
		return err
	}
	if err = cl.Close(); err != nil {
		return err
	}
	if err = buf.Flush(); err != nil {
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), fname)
}

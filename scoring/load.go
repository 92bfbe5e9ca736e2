// Copyright ©2026 The seq-align-gpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scoring

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// ErrMatrixParse is wrapped by all substitution matrix parse errors. A
// failure to open the matrix file is returned unwrapped.
var ErrMatrixParse = errors.New("malformed substitution matrix")

func loadError(path string, line int, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if line >= 0 {
		return fmt.Errorf("%w: %s (%s:%d)", ErrMatrixParse, msg, path, line)
	}
	return fmt.Errorf("%w: %s (%s)", ErrMatrixParse, msg, path)
}

// LoadMatrixFile loads a substitution matrix from the file at path,
// transparently decompressing gzip input.
func (s *Scoring) LoadMatrixFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	br := bufio.NewReader(f)
	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return loadError(path, -1, "bad gzip stream: %v", err)
		}
		defer gz.Close()
		return s.LoadMatrix(gz, path)
	}
	return s.LoadMatrix(br, path)
}

// LoadMatrix parses a substitution matrix from r, adding one mutation per
// (row, column) pair. Two layouts are accepted. In the whitespace layout
// the header row holds the column characters and each following row holds
// its character and one score per column. In the single-separator layout
// the header's first byte is the separator, header positions alternate
// separator and character, and each row is the separator, the row
// character and the separator-joined scores. '#' lines and blank lines are
// skipped. path is used in error messages only.
func (s *Scoring) LoadMatrix(r io.Reader, path string) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1<<10), 1<<20)

	line := 0
	header := ""
	for sc.Scan() {
		line++
		t := strings.TrimRight(sc.Text(), "\r\n")
		if t == "" || t[0] == '#' || strings.TrimSpace(t) == "" {
			continue
		}
		header = t
		break
	}
	if err := sc.Err(); err != nil {
		return loadError(path, line, "read failed: %v", err)
	}
	if header == "" {
		return loadError(path, -1, "empty file")
	}
	if len(header) < 2 {
		return loadError(path, line, "too few column headings")
	}

	sep := header[0]
	if ('0' <= sep && sep <= '9') || sep == '-' {
		return loadError(path, line, "numbers (0-9) and dashes (-) do not make good separators")
	}

	if isSpace(sep) {
		return s.loadWhitespace(sc, header, path, line)
	}
	return s.loadSeparated(sc, sep, header, path, line)
}

func (s *Scoring) fold(c byte) byte {
	if s.CaseSensitive {
		return c
	}
	return lower(c)
}

func (s *Scoring) loadWhitespace(sc *bufio.Scanner, header, path string, line int) error {
	fields := strings.Fields(header)
	cols := make([]byte, len(fields))
	for i, f := range fields {
		if len(f) != 1 {
			return loadError(path, line, "column heading %q is not a single character", f)
		}
		cols[i] = s.fold(f[0])
	}

	for sc.Scan() {
		line++
		t := sc.Text()
		fields := strings.Fields(t)
		if len(fields) == 0 || fields[0][0] == '#' {
			continue
		}
		if len(fields[0]) != 1 {
			return loadError(path, line, "row heading %q is not a single character", fields[0])
		}
		from := s.fold(fields[0][0])
		if len(fields)-1 < len(cols) {
			return loadError(path, line, "missing number value on line")
		}
		if len(fields)-1 > len(cols) {
			return loadError(path, line, "too many columns on row")
		}
		for i, f := range fields[1:] {
			score, err := strconv.Atoi(f)
			if err != nil {
				return loadError(path, line, "bad number %q", f)
			}
			if err := s.AddMutation(from, cols[i], score); err != nil {
				return loadError(path, line, "%v", err)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return loadError(path, line, "read failed: %v", err)
	}
	return nil
}

func (s *Scoring) loadSeparated(sc *bufio.Scanner, sep byte, header, path string, line int) error {
	var cols []byte
	for i := 0; i < len(header); i += 2 {
		if header[i] != sep {
			return loadError(path, line, "separator missing from line")
		}
		if i+1 >= len(header) {
			return loadError(path, line, "column heading missing after separator")
		}
		cols = append(cols, s.fold(header[i+1]))
	}

	for sc.Scan() {
		line++
		t := strings.TrimRight(sc.Text(), "\r\n")
		if t == "" || t[0] == '#' || strings.TrimSpace(t) == "" {
			continue
		}
		if t[0] != sep || len(t) < 3 {
			return loadError(path, line, "separator missing from line")
		}
		from := s.fold(t[1])
		scores := strings.Split(t[2:], string(sep))
		if len(scores) > len(cols) {
			return loadError(path, line, "too many columns on row")
		}
		for i, f := range scores {
			score, err := strconv.Atoi(f)
			if err != nil {
				return loadError(path, line, "missing number value on line")
			}
			if err := s.AddMutation(from, cols[i], score); err != nil {
				return loadError(path, line, "%v", err)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return loadError(path, line, "read failed: %v", err)
	}
	return nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func lower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

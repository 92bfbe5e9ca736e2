// Copyright ©2026 The seq-align-gpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package batch streams database sequences, bins them into aligner
// batches and dispatches batch groups across worker goroutines.
package batch

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/io/seqio/fastq"
	"github.com/biogo/biogo/seq/linear"
	"github.com/klauspost/compress/gzip"
)

// Entry is one sequence record delivered by a Reader.
type Entry struct {
	Seq  string
	Name string
}

// A Reader streams sequence records. Read returns io.EOF after the last
// record.
type Reader interface {
	Read() (Entry, error)
}

// ErrUnknownFormat is returned when the input is neither FASTA nor FASTQ.
var ErrUnknownFormat = errors.New("unknown sequence format")

// OpenFile opens the sequence file at path, transparently decompressing
// gzip input and detecting FASTA versus FASTQ from the first byte. The
// path "-" reads standard input. The returned closer must be closed when
// reading is done.
func OpenFile(path string) (Reader, io.Closer, error) {
	var (
		raw io.Reader
		c   io.Closer
	)
	if path == "-" {
		raw = os.Stdin
		c = io.NopCloser(nil)
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		raw = f
		c = f
	}

	r, err := NewReader(raw)
	if err != nil {
		c.Close()
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, c, nil
}

// NewReader returns a Reader for the sequence stream in r, sniffing gzip
// framing and the record format.
func NewReader(r io.Reader) (Reader, error) {
	br := bufio.NewReader(r)
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		br = bufio.NewReader(gz)
	}

	first, err := br.Peek(1)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, err)
	}
	switch first[0] {
	case '>':
		return &scannerReader{sc: seqio.NewScanner(fasta.NewReader(br, linear.NewSeq("", nil, alphabet.Protein)))}, nil
	case '@':
		return &scannerReader{sc: seqio.NewScanner(fastq.NewReader(br, linear.NewQSeq("", nil, alphabet.Protein, alphabet.Sanger)))}, nil
	}
	return nil, fmt.Errorf("%w: leading byte %q", ErrUnknownFormat, first[0])
}

// scannerReader adapts a biogo seqio.Scanner to the Reader contract.
type scannerReader struct {
	sc *seqio.Scanner
}

func (r *scannerReader) Read() (Entry, error) {
	if !r.sc.Next() {
		if err := r.sc.Error(); err != nil {
			return Entry{}, err
		}
		return Entry{}, io.EOF
	}
	s := r.sc.Seq()

	var letters []byte
	switch s := s.(type) {
	case *linear.Seq:
		letters = []byte(alphabet.Letters(s.Seq).String())
	case *linear.QSeq:
		letters = make([]byte, len(s.Seq))
		for i, ql := range s.Seq {
			letters[i] = byte(ql.L)
		}
	default:
		return Entry{}, fmt.Errorf("%w: record type %T", ErrUnknownFormat, s)
	}

	name := s.Name()
	if d := s.Description(); d != "" {
		name += " " + d
	}
	return Entry{Seq: string(letters), Name: name}, nil
}

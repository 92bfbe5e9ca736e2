// Copyright ©2026 The seq-align-gpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// sw computes optimal local alignment scores (Smith-Waterman with affine
// gap penalties) between one query sequence and every entry of a sequence
// database. Sixteen database sequences are scored per fill and batches of
// fills run in parallel across CPUs. Input may be FASTA or FASTQ, plain
// or gzipped.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/Aseeef/seq-align-gpu/align"
	"github.com/Aseeef/seq-align-gpu/batch"
	"github.com/Aseeef/seq-align-gpu/scoring"
)

var (
	files = flag.Bool("files", false, "read the query from the first trailing file and the database from the second")
	file  = flag.String("file", "", "read the query then database records from one file")
	stdin = flag.Bool("stdin", false, "read the query then database records from stdin (same as --file -)")

	caseSensitive = flag.Bool("case_sensitive", false, "accepted for compatibility; both cases of a letter share one alphabet index, so comparison is case insensitive")
	match         = flag.Int("match", 2, "score for a match")
	mismatch      = flag.Int("mismatch", -2, "penalty for a mismatch")
	gapOpen       = flag.Int("gapopen", -2, "penalty for opening a gap")
	gapExtend     = flag.Int("gapextend", -1, "penalty for extending a gap")
	matrixPath    = flag.String("substitution_matrix", "", "substitution matrix file, optionally gzipped")

	minScore      = flag.Int("minscore", 0, "minimum required score for an entry to be reported")
	printSeq      = flag.Bool("printseq", false, "print sequences before local alignment scores")
	printMatrices = flag.Bool("printmatrices", false, "print dynamic programming matrices")
	printFasta    = flag.Bool("printfasta", false, "print fasta header lines")
	pretty        = flag.Bool("pretty", false, "accepted for compatibility; ignored with a warning (needs traceback)")
	colour        = flag.Bool("colour", false, "accepted for compatibility; ignored with a warning (needs traceback)")

	procs = flag.Int("procs", 0, "number of alignment workers (default GOMAXPROCS)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [OPTIONS] --files <query> <db>\n\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "  Smith-Waterman optimal local alignment of one query against a sequence")
		fmt.Fprintln(os.Stderr, "  database. Reads FASTA and FASTQ, plain or gzipped. A gap of length N is")
		fmt.Fprintln(os.Stderr, "  penalised gapopen+N*gapextend.")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}
	flag.Parse()

	sc := scoring.New(*match, *mismatch, *gapOpen, *gapExtend, *caseSensitive)

	matchSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "match" {
			matchSet = true
		}
	})
	if *matrixPath != "" {
		if err := sc.LoadMatrixFile(*matrixPath); err != nil {
			log.Fatalf("failed to load substitution matrix: %v", err)
		}
		if !matchSet {
			sc.UseMatchMismatch = false
		}
	}
	if sc.UseMatchMismatch && sc.Match < sc.Mismatch {
		fmt.Fprintln(os.Stderr, "invalid argument: match value should not be less than mismatch penalty")
		flag.Usage()
		os.Exit(1)
	}
	if *pretty || *colour {
		log.Println("warning: --pretty and --colour need traceback, which the score-only engine does not produce; ignored")
	}

	query, db, closeAll, err := openInput()
	if err != nil {
		log.Fatalf("failed to open input: %v", err)
	}
	defer closeAll()

	sched := &batch.Scheduler{Scoring: sc, Procs: *procs}

	intr := make(chan os.Signal, 1)
	signal.Notify(intr, os.Interrupt)
	go func() {
		<-intr
		log.Println("interrupt: draining current group")
		sched.Stop()
	}()

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	sink := &printSink{
		w:             out,
		sc:            sc,
		minScore:      *minScore,
		printSeq:      *printSeq,
		printFasta:    *printFasta,
		printMatrices: *printMatrices,
	}

	err = sched.Run(query, db, sink)
	if err != nil {
		log.Fatalf("alignment failed: %v", err)
	}
	fmt.Fprintf(out, "Total time: %f\n", sched.FillTime().Seconds())
}

// openInput resolves the flag combinations to a query entry and a
// database reader. In single-file modes the first record is the query and
// the remaining records are the database.
func openInput() (query batch.Entry, db batch.Reader, closeAll func(), err error) {
	noop := func() {}
	switch {
	case *stdin, *file != "":
		path := "-"
		if *file != "" {
			path = *file
		}
		r, c, err := batch.OpenFile(path)
		if err != nil {
			return batch.Entry{}, nil, noop, err
		}
		query, err = readQuery(r, path)
		if err != nil {
			c.Close()
			return batch.Entry{}, nil, noop, err
		}
		return query, r, func() { c.Close() }, nil

	case flag.NArg() == 2:
		if !*files {
			log.Println("assuming --files for the two trailing arguments")
		}
		qr, qc, err := batch.OpenFile(flag.Arg(0))
		if err != nil {
			return batch.Entry{}, nil, noop, err
		}
		query, err = readQuery(qr, flag.Arg(0))
		qc.Close()
		if err != nil {
			return batch.Entry{}, nil, noop, err
		}
		dr, dc, err := batch.OpenFile(flag.Arg(1))
		if err != nil {
			return batch.Entry{}, nil, noop, err
		}
		return query, dr, func() { dc.Close() }, nil
	}

	flag.Usage()
	os.Exit(1)
	panic("unreachable")
}

// readQuery returns the first record of r.
func readQuery(r batch.Reader, path string) (batch.Entry, error) {
	e, err := r.Read()
	if err == io.EOF {
		return batch.Entry{}, fmt.Errorf("query file %s is empty", path)
	}
	if err != nil {
		return batch.Entry{}, err
	}
	if len(e.Seq) == 0 {
		return batch.Entry{}, fmt.Errorf("query %q: %w", e.Name, align.ErrEmptySequence)
	}
	return e, nil
}

// printSink writes per-entry scores in database order, one block per
// batch separated by "==".
type printSink struct {
	w  *bufio.Writer
	sc *scoring.Scoring

	minScore      int
	printSeq      bool
	printFasta    bool
	printMatrices bool
}

func (p *printSink) Batch(a *align.Aligner, base int) error {
	b := a.Batch()
	q := a.Query()
	scores := a.MaxScores()

	if p.printFasta && q.Name != "" {
		fmt.Fprintln(p.w, q.Name)
	}
	if p.printSeq {
		fmt.Fprintln(p.w, q.Seq)
	}
	for l := 0; l < b.Lanes; l++ {
		if int(scores[l]) < p.minScore {
			continue
		}
		fmt.Fprintf(p.w, "Entry #%d:\n", base+l)
		if p.printFasta {
			fmt.Fprintln(p.w, b.Names[l])
		}
		if p.printSeq {
			fmt.Fprintln(p.w, b.Seqs[l])
		}
		if p.printMatrices {
			align.ScalarMatrices(p.sc, q.Idx, b.LaneIndexes(l)).Print(p.w, q.Seq, b.Seqs[l], p.sc)
		}
		fmt.Fprintf(p.w, "score: %d\n\n", scores[l])
	}
	fmt.Fprintln(p.w, "==")
	return nil
}

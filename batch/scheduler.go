// Copyright ©2026 The seq-align-gpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package batch

import (
	"errors"
	"fmt"
	"io"
	"log"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Aseeef/seq-align-gpu/align"
	"github.com/Aseeef/seq-align-gpu/scoring"
)

// BatchFactor scales the number of batches collected before a parallel
// dispatch: a group holds up to procs×BatchFactor batches, trading memory
// for scheduling amortisation.
const BatchFactor = 64

// ErrNoSequences is returned when the database stream yields no usable
// entries.
var ErrNoSequences = errors.New("no sequences")

// A Sink receives each completed batch, in database order. The aligner
// and its batch are only valid for the duration of the call; sinks must
// not retain them.
type Sink interface {
	Batch(a *align.Aligner, base int) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(a *align.Aligner, base int) error

func (f SinkFunc) Batch(a *align.Aligner, base int) error { return f(a, base) }

// A Scheduler streams database entries, groups them into VectorSize-lane
// batches and fills batch groups in parallel, delivering results to a
// Sink in submission order.
type Scheduler struct {
	// Scoring is the scheme shared by all workers. It is finalized by
	// Run before any fill starts.
	Scoring *scoring.Scoring

	// Procs is the worker count. Zero means GOMAXPROCS.
	Procs int

	stop atomic.Bool
	fill time.Duration
}

// Stop requests a graceful drain: the group being collected is still
// aligned and reported, then Run returns. Safe to call from any
// goroutine.
func (s *Scheduler) Stop() { s.stop.Store(true) }

// FillTime returns the wall time spent inside parallel fills.
func (s *Scheduler) FillTime() time.Duration { return s.fill }

// encodeQuery maps the query to alphabet indices. Characters outside the
// alphabet become the wildcard; when an explicit substitution scheme is
// active, characters with no diagonal entry are unknown to the scheme and
// become the wildcard too.
func (s *Scheduler) encodeQuery(q Entry) []int8 {
	idx := scoring.IndexSeq(q.Seq)
	if !s.Scoring.UseMatchMismatch {
		for i, x := range idx {
			if !s.Scoring.IsSet(x, x) {
				idx[i] = scoring.Wildcard
			}
		}
	}
	return idx
}

// Run aligns query against every entry of db and reports each batch to
// sink. It returns the first sink or read error, ErrEmptySequence for a
// zero-length query, or ErrNoSequences if db held no usable entries.
func (s *Scheduler) Run(query Entry, db Reader, sink Sink) error {
	if len(query.Seq) == 0 {
		return fmt.Errorf("query: %w", align.ErrEmptySequence)
	}
	s.Scoring.Finalize()

	q := align.Query{
		Seq:  query.Seq,
		Name: query.Name,
		Idx:  s.encodeQuery(query),
	}

	procs := s.Procs
	if procs <= 0 {
		procs = runtime.GOMAXPROCS(0)
	}
	maxBatches := procs * BatchFactor

	aligners := make([]*align.Aligner, maxBatches)
	group := 0
	total := 0

	for {
		stopping := s.stop.Load()
		var b *align.Batch
		if !stopping {
			var err error
			b, err = s.nextBatch(db, total)
			if err != nil {
				return err
			}
		}
		if b != nil {
			total += b.Lanes
			if aligners[group] == nil {
				aligners[group] = align.New(s.Scoring)
			}
			if err := aligners[group].Update(q, b); err != nil {
				return err
			}
			group++
		}

		done := b == nil
		if group == maxBatches || (done && group > 0) {
			if err := s.dispatch(aligners[:group], procs, sink); err != nil {
				return err
			}
			group = 0
		}
		if done {
			break
		}
	}

	if total == 0 {
		return fmt.Errorf("database: %w", ErrNoSequences)
	}
	return nil
}

// nextBatch reads up to VectorSize entries and builds a batch padded to
// the tallest entry. Empty entries are skipped with a warning. A nil
// batch with nil error signals end of stream.
func (s *Scheduler) nextBatch(db Reader, base int) (*align.Batch, error) {
	var entries []Entry
	for len(entries) < align.VectorSize {
		e, err := db.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(e.Seq) == 0 {
			log.Printf("warning: skipping empty sequence %q", e.Name)
			continue
		}
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	height := 0
	for _, e := range entries {
		height = max(height, len(e.Seq))
	}

	b := &align.Batch{
		Seqs:    make([]string, len(entries)),
		Names:   make([]string, len(entries)),
		Lens:    make([]int, len(entries)),
		Indexes: make([]int8, height*align.VectorSize),
		Height:  height,
		Lanes:   len(entries),
		Base:    base,
	}
	// Pad every position, then overwrite the real lanes: short lanes and
	// unused lanes keep the wildcard index, which cannot outscore a real
	// cell once the table is finalized.
	for i := range b.Indexes {
		b.Indexes[i] = scoring.Wildcard
	}
	for l, e := range entries {
		b.Seqs[l] = e.Seq
		b.Names[l] = e.Name
		b.Lens[l] = len(e.Seq)
		for j := 0; j < len(e.Seq); j++ {
			x, err := scoring.LetterToIndex(e.Seq[j])
			if err != nil {
				x = scoring.Wildcard
			}
			b.Indexes[j*align.VectorSize+l] = x
		}
	}
	return b, nil
}

// dispatch fills the group's aligners in parallel with a static chunk-1
// assignment of batches to workers, then reports each batch to the sink
// in submission order and releases its arrays.
func (s *Scheduler) dispatch(group []*align.Aligner, procs int, sink Sink) error {
	workers := min(procs, len(group))

	start := time.Now()
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := w; i < len(group); i += workers {
				group[i].Fill()
			}
		}(w)
	}
	wg.Wait()
	s.fill += time.Since(start)

	for _, a := range group {
		if err := sink.Batch(a, a.Batch().Base); err != nil {
			return err
		}
		a.Release()
	}
	return nil
}

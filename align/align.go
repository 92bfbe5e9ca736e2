// Copyright ©2026 The seq-align-gpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package align implements batched Smith-Waterman local alignment with
// affine gap penalties. One query is scored against up to VectorSize
// database sequences per fill, with the inner loop advancing in lockstep
// across all lanes of a batch.
package align

import (
	"errors"

	"github.com/Aseeef/seq-align-gpu/scoring"
)

// VectorSize is the number of database lanes processed together by a
// fill: a 256-bit lane group of 16-bit scores.
const VectorSize = 16

// ErrEmptySequence is returned when a query with length 0 is bound to an
// aligner.
var ErrEmptySequence = errors.New("empty sequence")

// Query is the encoded query sequence shared by every batch of a run.
type Query struct {
	Seq  string
	Name string
	Idx  []int8
}

// Batch is an ordered group of up to VectorSize database entries padded to
// a common height. Lane ℓ of row j of the interleaved index array lives at
// Indexes[j*VectorSize+ℓ]; positions beyond a lane's true length, and all
// positions of lanes ≥ Lanes, hold the wildcard index.
type Batch struct {
	Seqs  []string
	Names []string
	Lens  []int

	Indexes []int8
	Height  int
	Lanes   int

	// Base is the database ordinal of lane 0.
	Base int
}

// LaneIndexes returns a copy of lane l's encoded sequence, without
// padding.
func (b *Batch) LaneIndexes(l int) []int8 {
	idx := make([]int8, b.Lens[l])
	for j := range idx {
		idx[j] = b.Indexes[j*VectorSize+l]
	}
	return idx
}

// An Aligner owns the scratch state for repeated batched fills on one
// worker. The three strip buffers span one matrix row across all lanes,
// so the working set is O(query length) regardless of database length.
type Aligner struct {
	scoring *scoring.Scoring

	query Query
	batch *Batch

	width  int // len(query)+1
	height int // batch height+1

	currMatch []int16
	currGapA  []int16
	currGapB  []int16

	maxScores [VectorSize]int16
}

// New returns an Aligner using the finalized scoring scheme sc.
func New(sc *scoring.Scoring) *Aligner {
	return &Aligner{scoring: sc}
}

// Update binds a query and a batch to the aligner, growing the strip
// buffers if the query is wider than any seen before. The previous
// batch's metadata is dropped.
func (a *Aligner) Update(q Query, b *Batch) error {
	if len(q.Idx) == 0 {
		return ErrEmptySequence
	}
	a.query = q
	a.batch = b
	a.width = len(q.Idx) + 1
	a.height = b.Height + 1

	if n := a.width * VectorSize; len(a.currMatch) < n {
		a.currMatch = make([]int16, n)
		a.currGapA = make([]int16, n)
		a.currGapB = make([]int16, n)
	}
	return nil
}

// Query returns the bound query.
func (a *Aligner) Query() Query { return a.query }

// Batch returns the bound batch, or nil after Release.
func (a *Aligner) Batch() *Batch { return a.batch }

// MaxScores returns the per-lane maximum local alignment scores of the
// last fill. Lanes at or beyond the batch's effective lane count hold
// padding results and are not meaningful.
func (a *Aligner) MaxScores() []int16 { return a.maxScores[:] }

// Release drops the per-batch metadata while retaining the scratch
// buffers for reuse by a later Update.
func (a *Aligner) Release() { a.batch = nil }

// max4 is the four-way maximum of the cell candidates.
func max4(a, b, c, d int16) int16 {
	if b > a {
		a = b
	}
	if c > a {
		a = c
	}
	if d > a {
		a = d
	}
	return a
}

// Fill runs the Gotoh local alignment recurrence over every lane of the
// bound batch and records the per-lane maxima.
//
// The outer loop walks database positions, the inner loop query
// positions. Previous-row values are read from the strip buffers at the
// current column; previous-column values of the current row, and the
// diagonal values, are carried in registers and rotated at the end of
// each step. Row 0 and column 0 are the all-zero local alignment
// boundary.
func (a *Aligner) Fill() {
	sc := a.scoring
	w := a.width
	gapBoth := int16(sc.GapOpen + sc.GapExtend)
	gapExt := int16(sc.GapExtend)

	hBuf := a.currMatch[: w*VectorSize : w*VectorSize]
	eBuf := a.currGapA[: w*VectorSize : w*VectorSize]
	fBuf := a.currGapB[: w*VectorSize : w*VectorSize]
	for i := range hBuf {
		hBuf[i] = 0
		eBuf[i] = 0
		fBuf[i] = 0
	}
	a.maxScores = [VectorSize]int16{}

	qIdx := a.query.Idx
	bIdx := a.batch.Indexes

	var (
		sub, upH, upE, upF          [VectorSize]int16
		leftH, leftE, leftF         [VectorSize]int16
		upleftH, upleftE, upleftF   [VectorSize]int16
		currH, currE, currF         [VectorSize]int16
	)

	for j := 1; j < a.height; j++ {
		bRow := bIdx[(j-1)*VectorSize : j*VectorSize : j*VectorSize]

		leftH, leftE, leftF = [VectorSize]int16{}, [VectorSize]int16{}, [VectorSize]int16{}
		upleftH, upleftE, upleftF = [VectorSize]int16{}, [VectorSize]int16{}, [VectorSize]int16{}

		for i := 1; i < w; i++ {
			off := i * VectorSize
			h := hBuf[off : off+VectorSize : off+VectorSize]
			e := eBuf[off : off+VectorSize : off+VectorSize]
			f := fBuf[off : off+VectorSize : off+VectorSize]

			row := sc.Row(qIdx[i-1])
			for l := 0; l < VectorSize; l++ {
				sub[l] = row[bRow[l]]
				upH[l] = h[l]
				upE[l] = e[l]
				upF[l] = f[l]
			}

			for l := 0; l < VectorSize; l++ {
				// Substitution: continue the alignment or close a gap.
				m := max4(upleftH[l]+sub[l], upleftE[l]+sub[l], upleftF[l]+sub[l], 0)
				// Gap in the query, extending from the previous row.
				ge := max4(upH[l]+gapBoth, upE[l]+gapExt, upF[l]+gapBoth, 0)
				// Gap in the database lane, extending from the previous column.
				gf := max4(leftH[l]+gapBoth, leftE[l]+gapBoth, leftF[l]+gapExt, 0)

				h[l] = m
				e[l] = ge
				f[l] = gf
				currH[l] = m
				currE[l] = ge
				currF[l] = gf
				if m > a.maxScores[l] {
					a.maxScores[l] = m
				}
			}

			upleftH, upleftE, upleftF = upH, upE, upF
			leftH, leftE, leftF = currH, currE, currF
		}
	}
}

// Copyright ©2026 The seq-align-gpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package align

import "github.com/Aseeef/seq-align-gpu/scoring"

// Scalar computes the maximum local alignment score of a single
// query/database pair with the same recurrence as the batched engine. It
// keeps only two rows of state and is the reference the batched fill is
// tested against, as well as the engine used on platforms where one lane
// at a time is all that is wanted.
func Scalar(sc *scoring.Scoring, qIdx, bIdx []int8) int {
	w := len(qIdx) + 1
	gapBoth := int16(sc.GapOpen + sc.GapExtend)
	gapExt := int16(sc.GapExtend)

	h := make([]int16, w)
	e := make([]int16, w)
	f := make([]int16, w)

	var best int16
	for j := 1; j <= len(bIdx); j++ {
		b := bIdx[j-1]
		var leftH, leftE, leftF int16
		var upleftH, upleftE, upleftF int16
		for i := 1; i < w; i++ {
			s := int16(sc.Score(qIdx[i-1], b))
			upH, upE, upF := h[i], e[i], f[i]

			m := max4(upleftH+s, upleftE+s, upleftF+s, 0)
			ge := max4(upH+gapBoth, upE+gapExt, upF+gapBoth, 0)
			gf := max4(leftH+gapBoth, leftE+gapBoth, leftF+gapExt, 0)

			h[i], e[i], f[i] = m, ge, gf
			upleftH, upleftE, upleftF = upH, upE, upF
			leftH, leftE, leftF = m, ge, gf
			if m > best {
				best = m
			}
		}
	}
	return int(best)
}

// Matrices holds the full dynamic programming matrices of a scalar fill,
// in row-major order with stride Width. Row 0 and column 0 are the zero
// boundary.
type Matrices struct {
	Width  int
	Height int
	Match  []int16
	GapA   []int16
	GapB   []int16
	Max    int
}

// ScalarMatrices runs the scalar recurrence retaining all three matrices.
// It exists for debug output; Scalar is the lean variant.
func ScalarMatrices(sc *scoring.Scoring, qIdx, bIdx []int8) *Matrices {
	w := len(qIdx) + 1
	ht := len(bIdx) + 1
	m := &Matrices{
		Width:  w,
		Height: ht,
		Match:  make([]int16, w*ht),
		GapA:   make([]int16, w*ht),
		GapB:   make([]int16, w*ht),
	}
	gapBoth := int16(sc.GapOpen + sc.GapExtend)
	gapExt := int16(sc.GapExtend)

	var best int16
	for j := 1; j < ht; j++ {
		b := bIdx[j-1]
		row := j * w
		up := row - w
		for i := 1; i < w; i++ {
			s := int16(sc.Score(qIdx[i-1], b))

			cell := max4(m.Match[up+i-1]+s, m.GapA[up+i-1]+s, m.GapB[up+i-1]+s, 0)
			m.Match[row+i] = cell
			m.GapA[row+i] = max4(m.Match[up+i]+gapBoth, m.GapA[up+i]+gapExt, m.GapB[up+i]+gapBoth, 0)
			m.GapB[row+i] = max4(m.Match[row+i-1]+gapBoth, m.GapA[row+i-1]+gapBoth, m.GapB[row+i-1]+gapExt, 0)

			if cell > best {
				best = cell
			}
		}
	}
	m.Max = int(best)
	return m
}

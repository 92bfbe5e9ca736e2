// Copyright ©2026 The seq-align-gpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package align

import (
	"fmt"
	"io"

	"github.com/Aseeef/seq-align-gpu/scoring"
)

// Print writes the three matrices to w in a row-per-database-position
// layout, followed by the scoring parameters.
func (m *Matrices) Print(w io.Writer, seqA, seqB string, sc *scoring.Scoring) {
	fmt.Fprintf(w, "seq_a: %s\nseq_b: %s\n", seqA, seqB)

	dump := func(name string, scores []int16) {
		fmt.Fprintf(w, "%s:\n", name)
		for j := 0; j < m.Height; j++ {
			fmt.Fprintf(w, "%3d:", j)
			for i := 0; i < m.Width; i++ {
				fmt.Fprintf(w, "\t%3d", scores[j*m.Width+i])
			}
			fmt.Fprintln(w)
		}
	}
	dump("match_scores", m.Match)
	dump("gap_a_scores", m.GapA)
	dump("gap_b_scores", m.GapB)

	fmt.Fprintf(w, "match: %d mismatch: %d gapopen: %d gapextend: %d\n\n",
		sc.Match, sc.Mismatch, sc.GapOpen, sc.GapExtend)
}

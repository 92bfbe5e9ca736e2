// Copyright ©2026 The seq-align-gpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scoring provides the substitution scoring model used by the
// alignment engine: affine gap penalties, match/mismatch defaults and a
// dense 32×32 substitution table over a compact alphabet index.
package scoring

import (
	"errors"
	"fmt"
)

// Explicit per-pair scores are kept within an int8-safe band so that any
// sum along an alignment stays far from the int16 cell limits.
const (
	MinMutation = -127
	MaxMutation = 127
)

// ErrScoreRange is returned when an explicitly added mutation score falls
// outside [MinMutation, MaxMutation].
var ErrScoreRange = errors.New("score out of range")

// Scoring holds the parameters of an alignment scoring scheme. A gap of
// length N costs GapOpen + N×GapExtend. The zero value is not useful; use
// New or NewDefaultSystem.
//
// Once a Scoring has been finalized it is read-only and may be shared by
// any number of concurrent fills without synchronisation.
type Scoring struct {
	GapOpen   int
	GapExtend int

	// UseMatchMismatch records that the Match/Mismatch defaults are in
	// force. When it is false the scheduler maps query letters with no
	// explicit diagonal entry to the wildcard index. Pairs with no
	// explicit table entry fall back to Match/Mismatch whether or not it
	// is set. LoadMatrix leaves it unchanged; the sw command clears it
	// when a substitution matrix is loaded without -match.
	UseMatchMismatch bool
	Match            int
	Mismatch         int

	CaseSensitive bool

	// MinPenalty and MaxPenalty track the extreme per-pair scores seen,
	// including the match/mismatch defaults.
	MinPenalty int
	MaxPenalty int

	// swapSet bit b of row a records that the pair (a,b) was explicitly
	// assigned. swapScores is dense: Finalize back-fills every unset
	// cell so the fill loop can gather without branching.
	swapSet    [IndexSize]uint32
	swapScores [IndexSize][IndexSize]int16

	finalized bool
}

// New returns a Scoring with the given match, mismatch and affine gap
// parameters.
func New(match, mismatch, gapOpen, gapExtend int, caseSensitive bool) *Scoring {
	return &Scoring{
		GapOpen:          gapOpen,
		GapExtend:        gapExtend,
		UseMatchMismatch: true,
		Match:            match,
		Mismatch:         mismatch,
		CaseSensitive:    caseSensitive,
		MinPenalty:       min(match, mismatch),
		MaxPenalty:       max(match, mismatch),
	}
}

// NewDefaultSystem returns the default DNA/RNA scoring system.
func NewDefaultSystem() *Scoring {
	return New(1, -2, -4, -1, false)
}

// AddMutation assigns score to the pair (a, b) and marks it as explicitly
// set. It returns ErrScoreRange if score is outside the mutation band and
// ErrIllegalChar if either character has no alphabet index.
func (s *Scoring) AddMutation(a, b byte, score int) error {
	if score < MinMutation || score > MaxMutation {
		return fmt.Errorf("%w: %c/%c = %d", ErrScoreRange, a, b, score)
	}
	ia, err := LetterToIndex(a)
	if err != nil {
		return err
	}
	ib, err := LetterToIndex(b)
	if err != nil {
		return err
	}
	s.swapScores[ia][ib] = int16(score)
	s.swapSet[ia] |= 1 << uint(ib)
	s.MinPenalty = min(s.MinPenalty, score)
	s.MaxPenalty = max(s.MaxPenalty, score)
	s.finalized = false
	return nil
}

// IsSet reports whether the pair (a, b) of alphabet indices has an
// explicitly assigned score.
func (s *Scoring) IsSet(a, b int8) bool {
	return s.swapSet[a]&(1<<uint(b)) != 0
}

// Score returns the substitution score for the pair (a, b) of alphabet
// indices, falling back to the match/mismatch defaults for pairs that were
// never explicitly set. Pairs involving the wildcard index never score
// above zero.
func (s *Scoring) Score(a, b int8) int {
	if s.IsSet(a, b) {
		v := int(s.swapScores[a][b])
		if (a == Wildcard || b == Wildcard) && v > 0 {
			return 0
		}
		return v
	}
	return s.defaultScore(a, b)
}

func (s *Scoring) defaultScore(a, b int8) int {
	if a == Wildcard || b == Wildcard {
		return min(0, s.Mismatch)
	}
	if a == b {
		return s.Match
	}
	return s.Mismatch
}

// Finalize back-fills every unset table cell with the match/mismatch
// default and clamps wildcard pairs to non-positive values, so that the
// fill loop can gather any (a, b) entry without a branch. Padding lanes
// rely on the wildcard clamp: a padded position must never beat a real
// cell. Finalize is idempotent and must be called before the table is
// shared with workers.
func (s *Scoring) Finalize() {
	if s.finalized {
		return
	}
	for a := int8(0); a < IndexSize; a++ {
		for b := int8(0); b < IndexSize; b++ {
			if !s.IsSet(a, b) {
				s.swapScores[a][b] = int16(s.defaultScore(a, b))
			} else if (a == Wildcard || b == Wildcard) && s.swapScores[a][b] > 0 {
				s.swapScores[a][b] = 0
			}
		}
	}
	s.finalized = true
}

// Row returns the dense substitution row for query index a. The row is
// only fully populated after Finalize.
func (s *Scoring) Row(a int8) *[IndexSize]int16 {
	return &s.swapScores[a]
}

// LookupVector gathers swapScores[a][b[ℓ]] into dst for each lane ℓ.
// It requires a finalized table and len(dst) ≥ len(b).
func (s *Scoring) LookupVector(a int8, b []int8, dst []int16) {
	row := &s.swapScores[a]
	for l, ib := range b {
		dst[l] = row[ib]
	}
}

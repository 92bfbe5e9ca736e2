// Copyright ©2026 The seq-align-gpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aseeef/seq-align-gpu/scoring"
)

// TestLetterToIndex checks the compact alphabet mapping for both cases,
// the wildcard and illegal characters.
func TestLetterToIndex(t *testing.T) {
	tests := []struct {
		c    byte
		want int8
		ok   bool
	}{
		{'a', 1, true},
		{'A', 1, true},
		{'z', 26, true},
		{'Z', 26, true},
		{'g', 7, true},
		{'*', scoring.Wildcard, true},
		{'@', 0, false},
		{'-', 0, false},
		{'0', 0, false},
	}
	for _, tc := range tests {
		got, err := scoring.LetterToIndex(tc.c)
		if !tc.ok {
			assert.ErrorIs(t, err, scoring.ErrIllegalChar, "char %q", tc.c)
			continue
		}
		require.NoError(t, err, "char %q", tc.c)
		assert.Equal(t, tc.want, got, "char %q", tc.c)
	}
}

// TestIndexToLetter checks the inverse mapping folds to upper case and
// rejects indices outside the alphabet.
func TestIndexToLetter(t *testing.T) {
	for c := byte('A'); c <= 'Z'; c++ {
		i, err := scoring.LetterToIndex(c)
		require.NoError(t, err)
		got, err := scoring.IndexToLetter(i)
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	got, err := scoring.IndexToLetter(scoring.Wildcard)
	require.NoError(t, err)
	assert.Equal(t, byte('*'), got)

	_, err = scoring.IndexToLetter(0)
	assert.ErrorIs(t, err, scoring.ErrIllegalChar)
	_, err = scoring.IndexToLetter(27)
	assert.ErrorIs(t, err, scoring.ErrIllegalChar)
}

// TestIndexSeq checks that unmappable characters become the wildcard
// index instead of failing.
func TestIndexSeq(t *testing.T) {
	idx := scoring.IndexSeq("aC-g*")
	assert.Equal(t, []int8{1, 3, scoring.Wildcard, 7, scoring.Wildcard}, idx)
}

// TestAddMutation checks explicit assignment, the presence bitset and the
// mutation score band.
func TestAddMutation(t *testing.T) {
	sc := scoring.New(2, -2, -2, -1, false)

	require.NoError(t, sc.AddMutation('A', 'C', 7))
	a, _ := scoring.LetterToIndex('A')
	c, _ := scoring.LetterToIndex('C')
	assert.True(t, sc.IsSet(a, c))
	assert.False(t, sc.IsSet(c, a), "mutations are directional")
	assert.Equal(t, 7, sc.Score(a, c))
	assert.Equal(t, -2, sc.Score(c, a), "unset pair falls back to mismatch")
	assert.Equal(t, 7, sc.MaxPenalty)

	assert.ErrorIs(t, sc.AddMutation('A', 'C', 128), scoring.ErrScoreRange)
	assert.ErrorIs(t, sc.AddMutation('A', 'C', -128), scoring.ErrScoreRange)
	assert.ErrorIs(t, sc.AddMutation('@', 'C', 1), scoring.ErrIllegalChar)
}

// TestScoreFallback checks the match/mismatch defaults and the wildcard
// non-positivity guarantee of the scalar lookup.
func TestScoreFallback(t *testing.T) {
	sc := scoring.New(3, -1, -2, -1, false)
	a, _ := scoring.LetterToIndex('A')
	g, _ := scoring.LetterToIndex('G')

	assert.Equal(t, 3, sc.Score(a, a))
	assert.Equal(t, -1, sc.Score(a, g))
	assert.Equal(t, -1, sc.Score(a, scoring.Wildcard))
	assert.Equal(t, -1, sc.Score(scoring.Wildcard, scoring.Wildcard), "wildcard self pair must not reward")
}

// TestFinalize checks dense back-filling and the wildcard clamp.
func TestFinalize(t *testing.T) {
	sc := scoring.New(2, -2, -2, -1, false)
	require.NoError(t, sc.AddMutation('A', 'G', 1))
	require.NoError(t, sc.AddMutation('*', 'A', 5))
	sc.Finalize()

	a, _ := scoring.LetterToIndex('A')
	g, _ := scoring.LetterToIndex('G')

	row := sc.Row(a)
	assert.EqualValues(t, 2, row[a], "diagonal back-filled with match")
	assert.EqualValues(t, 1, row[g], "explicit entry preserved")
	assert.EqualValues(t, -2, row[scoring.Wildcard], "wildcard column non-positive")

	wrow := sc.Row(scoring.Wildcard)
	assert.EqualValues(t, 0, wrow[a], "explicit positive wildcard entry clamped to zero")
	assert.EqualValues(t, -2, wrow[scoring.Wildcard])

	for x := int8(0); x < scoring.IndexSize; x++ {
		assert.LessOrEqual(t, sc.Row(scoring.Wildcard)[x], int16(0))
		assert.LessOrEqual(t, sc.Row(x)[scoring.Wildcard], int16(0))
	}
}

// TestLookupVector checks the gathered lane lookup against the scalar
// lookup.
func TestLookupVector(t *testing.T) {
	sc := scoring.New(2, -2, -2, -1, false)
	require.NoError(t, sc.AddMutation('A', 'G', 1))
	sc.Finalize()

	a, _ := scoring.LetterToIndex('A')
	lanes := scoring.IndexSeq("ACGT*ACGT*ACGT*A")
	dst := make([]int16, len(lanes))
	sc.LookupVector(a, lanes, dst)
	for l, b := range lanes {
		assert.EqualValues(t, sc.Score(a, b), dst[l], "lane %d", l)
	}
}

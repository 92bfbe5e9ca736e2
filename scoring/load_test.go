// Copyright ©2026 The seq-align-gpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scoring_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aseeef/seq-align-gpu/scoring"
)

const dnaMatrix = `# transition-friendly DNA scores
  A  C  G  T
A  2 -2  1 -2
C -2  2 -2 -2
G  1 -2  2 -2
T -2 -2 -2  2
`

// TestLoadMatrixWhitespace parses the whitespace-separated layout with a
// comment line and checks a sample of the loaded pairs.
func TestLoadMatrixWhitespace(t *testing.T) {
	sc := scoring.New(2, -2, -2, -1, false)
	require.NoError(t, sc.LoadMatrix(strings.NewReader(dnaMatrix), "dna.txt"))

	a, _ := scoring.LetterToIndex('A')
	c, _ := scoring.LetterToIndex('C')
	g, _ := scoring.LetterToIndex('G')

	assert.True(t, sc.IsSet(a, a))
	assert.Equal(t, 2, sc.Score(a, a))
	assert.Equal(t, 1, sc.Score(a, g), "transition bonus")
	assert.Equal(t, 1, sc.Score(g, a))
	assert.Equal(t, -2, sc.Score(a, c))
}

// TestLoadMatrixSeparated parses the single-character-separator layout.
func TestLoadMatrixSeparated(t *testing.T) {
	const m = `,A,C
,A2,-2
,C-2,2
`
	sc := scoring.New(2, -2, -2, -1, false)
	require.NoError(t, sc.LoadMatrix(strings.NewReader(m), "sep.txt"))

	a, _ := scoring.LetterToIndex('A')
	c, _ := scoring.LetterToIndex('C')
	assert.Equal(t, 2, sc.Score(a, a))
	assert.Equal(t, -2, sc.Score(a, c))
	assert.Equal(t, -2, sc.Score(c, a))
	assert.Equal(t, 2, sc.Score(c, c))
}

// TestLoadMatrixSkipsNoise checks blank lines and comments between rows
// are ignored.
func TestLoadMatrixSkipsNoise(t *testing.T) {
	const m = `
# leading comment

  A  C
A  1 -1

# interior comment
C -1  1
`
	sc := scoring.New(2, -2, -2, -1, false)
	require.NoError(t, sc.LoadMatrix(strings.NewReader(m), "noise.txt"))
	a, _ := scoring.LetterToIndex('A')
	assert.Equal(t, 1, sc.Score(a, a))
}

// TestLoadMatrixErrors exercises the parse failure modes; every failure
// wraps ErrMatrixParse and carries the file path.
func TestLoadMatrixErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty file", ""},
		{"comments only", "# nothing here\n\n"},
		{"digit separator", "1 2 3\n"},
		{"dash separator", "-A-C\n"},
		{"bad number", "  A  C\nA  x -1\nC -1  1\n"},
		{"missing value", "  A  C\nA  1\nC -1  1\n"},
		{"too many columns", "  A  C\nA  1 -1 -1\nC -1  1\n"},
		{"row not a character", "  A  C\nAB 1 -1\n"},
		{"score out of band", "  A  C\nA  200 -1\nC -1  1\n"},
		{"separated missing sep", ",A,C\nA2,-2\n"},
		{"separated too many", ",A,C\n,A2,-2,4\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sc := scoring.New(2, -2, -2, -1, false)
			err := sc.LoadMatrix(strings.NewReader(tc.input), "bad.txt")
			require.Error(t, err)
			assert.ErrorIs(t, err, scoring.ErrMatrixParse)
			assert.Contains(t, err.Error(), "bad.txt")
		})
	}
}

// TestLoadMatrixCaseFolding checks that by default row and column
// characters fold together with their other-case forms.
func TestLoadMatrixCaseFolding(t *testing.T) {
	const m = `  a  c
a  5 -5
c -5  5
`
	sc := scoring.New(2, -2, -2, -1, false)
	require.NoError(t, sc.LoadMatrix(strings.NewReader(m), "fold.txt"))
	a, _ := scoring.LetterToIndex('A')
	assert.Equal(t, 5, sc.Score(a, a), "lower case matrix rows serve upper case input")
}

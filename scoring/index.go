// Copyright ©2026 The seq-align-gpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scoring

import (
	"errors"
	"fmt"
)

// The substitution table is indexed by a compact alphabet of 32 positions:
// the letters A-Z occupy 1-26 in either case and '*' occupies 31. Squeezing
// 256 code points down to 32 keeps the whole table at 2KiB so the row for
// the current query letter stays resident while it is reused across lanes.
const (
	// IndexSize is the number of positions in the compact alphabet.
	IndexSize = 32

	// Wildcard is the index reserved for '*'. It pads database lanes
	// beyond their true length and stands in for characters outside the
	// alphabet, so every score against it must be non-positive.
	Wildcard = 31
)

// ErrIllegalChar is returned by LetterToIndex for a byte with no position
// in the compact alphabet.
var ErrIllegalChar = errors.New("illegal character")

// LetterToIndex returns the compact alphabet index for c. Both cases of a
// letter map to the same index.
func LetterToIndex(c byte) (int8, error) {
	switch {
	case 'a' <= c && c <= 'z':
		return int8(c-'a') + 1, nil
	case 'A' <= c && c <= 'Z':
		return int8(c-'A') + 1, nil
	case c == '*':
		return Wildcard, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrIllegalChar, c)
}

// IndexToLetter returns the upper case letter for the index i, or '*' for
// the wildcard index.
func IndexToLetter(i int8) (byte, error) {
	switch {
	case 1 <= i && i <= 26:
		return byte(i-1) + 'A', nil
	case i == Wildcard:
		return '*', nil
	}
	return 0, fmt.Errorf("%w: index %d", ErrIllegalChar, i)
}

// IndexSeq encodes s into freshly allocated compact alphabet indices,
// mapping characters outside the alphabet to the wildcard index.
func IndexSeq(s string) []int8 {
	idx := make([]int8, len(s))
	for i := 0; i < len(s); i++ {
		x, err := LetterToIndex(s[i])
		if err != nil {
			x = Wildcard
		}
		idx[i] = x
	}
	return idx
}

// Copyright © 2024 The schym authors

package lisp

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidNumber is returned by ParseNumber for text that is not entirely
// a number.
var ErrInvalidNumber = errors.New("invalid number")

// ParseNumber parses the whole of s as a double precision float.  Values too
// large to represent become infinities rather than errors.
func ParseNumber(s string) (float64, error) {
	x, err := strconv.ParseFloat(s, 64)
	if err == nil || errors.Is(err, strconv.ErrRange) {
		return x, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
}

// FormatNumber returns the shortest text which ParseNumber reads back as x.
func FormatNumber(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

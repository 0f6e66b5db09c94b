// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/retrie/blob/master/LICENSE.txt.

package retrie

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrInvalidPattern = errors.New("invalid pattern")
	ErrNoPattern      = errors.New("no pattern")
	ErrInvalidConfig  = errors.New("invalid config")
)

// PatternError is returned when a pattern cannot be compiled. It reports the offending
// source text, its position in the registered sequence (or -1 when compiled standalone)
// and the underlying regexp error.
type PatternError struct {
	// Source is the pattern text as provided by the caller.
	Source string
	// Pos is the index of the pattern in the sequence passed to Put.
	Pos int
	// Err is the error returned by the regexp package.
	Err error
}

func (e *PatternError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid pattern ")
	sb.WriteString(strconv.Quote(e.Source))
	if e.Pos >= 0 {
		sb.WriteString(" at position ")
		sb.WriteString(strconv.Itoa(e.Pos))
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap returns the sentinel value [ErrInvalidPattern] along with the regexp error.
func (e *PatternError) Unwrap() []error {
	return []error{ErrInvalidPattern, e.Err}
}

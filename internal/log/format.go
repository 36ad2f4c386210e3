// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package log

import (
	"errors"
	"fmt"
	"strings"
)

// Format is the format of the logger output.
type Format uint8

const (
	// FormatConsole writes human readable lines with a coloured level.
	FormatConsole Format = iota
	// FormatText writes human readable lines without colours.
	FormatText
)

func (f Format) String() string {
	switch f {
	case FormatConsole:
		return "console"
	case FormatText:
		return "text"
	default:
		return "???"
	}
}

// ErrFormatNotRecognised is returned by ParseFormat for an unknown format.
var ErrFormatNotRecognised = errors.New("format is not recognised")

// ParseFormat parses a format name, console or text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case FormatConsole.String():
		return FormatConsole, nil
	case FormatText.String():
		return FormatText, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrFormatNotRecognised, s)
}

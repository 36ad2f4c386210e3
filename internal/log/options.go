// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package log

import (
	"io"
)

// Option modifies the settings of a logger.
type Option func(s *settings)

// SetLevel sets the minimum level logged, Info by default.
func SetLevel(level Level) Option {
	return func(s *settings) {
		s.level = &level
	}
}

// SetCaller sets which caller details are appended to each line.
// None are by default.
func SetCaller(caller Caller) Option {
	return func(s *settings) {
		s.caller = &caller
	}
}

// SetFormat sets the output format, FormatConsole by default.
func SetFormat(format Format) Option {
	return func(s *settings) {
		s.format = &format
	}
}

// SetWriter sets the writer lines are written to, os.Stdout by default.
func SetWriter(writer io.Writer) Option {
	return func(s *settings) {
		s.writer = writer
	}
}

// AddContext appends a key value pair to the context of each line.
// Values of a key given more than once are joined.
func AddContext(key, value string) Option {
	return func(s *settings) {
		s.context = appendContext(s.context, contextKeyValues{key: key, values: []string{value}})
	}
}

// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package log

import (
	"io"
	"os"
)

type settings struct {
	writer  io.Writer
	level   *Level
	format  *Format
	caller  *Caller
	context []contextKeyValues
}

type contextKeyValues struct {
	key    string
	values []string
}

func newSettings(options []Option) (s settings) {
	for _, option := range options {
		option(&s)
	}
	return s
}

// mergeWith sets values for each unset field of s
// using the field value from other. Context values are
// prepended with the context of other.
func (s *settings) mergeWith(other settings) {
	if s.writer == nil {
		s.writer = other.writer
	}

	if s.level == nil && other.level != nil {
		value := *other.level
		s.level = &value
	}

	if s.format == nil && other.format != nil {
		value := *other.format
		s.format = &value
	}

	if s.caller == nil && other.caller != nil {
		value := *other.caller
		s.caller = &value
	}

	merged := make([]contextKeyValues, 0, len(other.context)+len(s.context))
	for _, kv := range other.context {
		merged = append(merged, contextKeyValues{
			key:    kv.key,
			values: append([]string(nil), kv.values...),
		})
	}
	for _, kv := range s.context {
		merged = appendContext(merged, kv)
	}
	if len(merged) > 0 {
		s.context = merged
	}
}

// overrideWith sets each field of s that is set in other.
func (s *settings) overrideWith(other settings) {
	if other.writer != nil {
		s.writer = other.writer
	}

	if other.level != nil {
		value := *other.level
		s.level = &value
	}

	if other.format != nil {
		value := *other.format
		s.format = &value
	}

	if other.caller != nil {
		value := *other.caller
		s.caller = &value
	}

	for _, kv := range other.context {
		s.context = appendContext(s.context, kv)
	}
}

func appendContext(context []contextKeyValues, kv contextKeyValues) []contextKeyValues {
	for i := range context {
		if context[i].key == kv.key {
			context[i].values = append(context[i].values, kv.values...)
			return context
		}
	}
	return append(context, contextKeyValues{
		key:    kv.key,
		values: append([]string(nil), kv.values...),
	})
}

func (s *settings) setDefaults() {
	if s.writer == nil {
		s.writer = os.Stdout
	}

	if s.level == nil {
		value := Info
		s.level = &value
	}

	if s.format == nil {
		value := FormatConsole
		s.format = &value
	}

	if s.caller == nil {
		s.caller = &Caller{}
	}
}

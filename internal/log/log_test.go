// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package log

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Logger_log(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		settings    settings
		level       Level
		s           string
		args        []interface{}
		outputRegex string
	}{
		"log_at_trace": {
			settings: settings{
				level:  levelPtr(Trace),
				format: formatPtr(FormatText),
				caller: callerPtr(false, false, false),
			},
			level:       Trace,
			s:           "some words",
			outputRegex: timePrefixRegex + "TRACE    some words\n$",
		},
		"do_not_log_at_trace": {
			settings: settings{
				level:  levelPtr(Debug),
				format: formatPtr(FormatText),
				caller: callerPtr(false, false, false),
			},
			level:       Trace,
			s:           "some words",
			outputRegex: "^$",
		},
		"format_string": {
			settings: settings{
				level:  levelPtr(Trace),
				format: formatPtr(FormatText),
				caller: callerPtr(false, false, false),
			},
			level:       Warn,
			s:           "some %s",
			args:        []interface{}{"words"},
			outputRegex: timePrefixRegex + "WARN     some words\n$",
		},
		"context": {
			settings: settings{
				level:  levelPtr(Info),
				format: formatPtr(FormatText),
				caller: callerPtr(false, false, false),
				context: []contextKeyValues{
					{key: "pkg", values: []string{"a", "b"}},
					{key: "set", values: []string{"1"}},
				},
			},
			level:       Critical,
			s:           "some words",
			outputRegex: timePrefixRegex + "CRITICAL some words\tpkg=a,b set=1\n$",
		},
		"show_caller": {
			settings: settings{
				level:  levelPtr(Trace),
				format: formatPtr(FormatText),
				caller: callerPtr(true, true, false),
			},
			level:       Error,
			s:           "some words",
			outputRegex: timePrefixRegex + `ERROR    some words\tlog_test.go:L[0-9]+\n$`,
		},
		"show_caller_func": {
			settings: settings{
				level:  levelPtr(Trace),
				format: formatPtr(FormatText),
				caller: callerPtr(false, false, true),
			},
			level:       Info,
			s:           "some words",
			outputRegex: timePrefixRegex + `INFO     some words\tfunc[0-9.]+\n$`,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			buffer := bytes.NewBuffer(nil)
			testCase.settings.writer = buffer
			logger := &Logger{
				settings: testCase.settings,
				mutex:    new(sync.Mutex),
			}

			switch testCase.level {
			case Trace:
				logger.Tracef(testCase.s, testCase.args...)
			case Debug:
				logger.Debugf(testCase.s, testCase.args...)
			case Info:
				logger.Infof(testCase.s, testCase.args...)
			case Warn:
				logger.Warnf(testCase.s, testCase.args...)
			case Error:
				logger.Errorf(testCase.s, testCase.args...)
			case Critical:
				logger.Criticalf(testCase.s, testCase.args...)
			}

			assert.Regexp(t, testCase.outputRegex, buffer.String())
		})
	}
}

func Test_ParseLevel(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		s     string
		level Level
		err   error
	}{
		"trace":       {s: "trace", level: Trace},
		"short debug": {s: "DBUG", level: Debug},
		"info":        {s: "Info", level: Info},
		"warn":        {s: "warn", level: Warn},
		"error":       {s: "error", level: Error},
		"critical":    {s: "crit", level: Critical},
		"unknown":     {s: "loud", err: ErrLevelNotRecognised},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			level, err := ParseLevel(testCase.s)
			if testCase.err != nil {
				require.ErrorIs(t, err, testCase.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.level, level)
		})
	}
}

func Test_ParseFormat(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		s      string
		format Format
		err    error
	}{
		"console": {s: "console", format: FormatConsole},
		"text":    {s: "TEXT", format: FormatText},
		"unknown": {s: "json", err: ErrFormatNotRecognised},
		"empty":   {err: ErrFormatNotRecognised},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			format, err := ParseFormat(testCase.s)
			if testCase.err != nil {
				require.ErrorIs(t, err, testCase.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.format, format)
		})
	}
}

func Test_ParseCaller(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		s      string
		caller Caller
		errMsg string
	}{
		"empty":    {},
		"file":     {s: "file", caller: Caller{File: true}},
		"all":      {s: "file, line,FUNC", caller: Caller{File: true, Line: true, Func: true}},
		"repeated": {s: "line,line", caller: Caller{Line: true}},
		"unknown":  {s: "file,column", errMsg: "caller field is not recognised: column"},
		"trailing": {s: "func,", caller: Caller{Func: true}},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			caller, err := ParseCaller(testCase.s)
			if testCase.errMsg != "" {
				require.ErrorIs(t, err, ErrCallerFieldNotRecognised)
				assert.EqualError(t, err, testCase.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.caller, caller)
		})
	}
}

// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package log

import (
	"bytes"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_New(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		options        []Option
		expectedLogger *Logger
	}{
		"no option": {
			expectedLogger: &Logger{
				settings: settings{
					writer: os.Stdout,
					level:  levelPtr(Info),
					format: formatPtr(FormatConsole),
					caller: callerPtr(false, false, false),
				},
				mutex: new(sync.Mutex),
			},
		},
		"all options": {
			options: []Option{
				SetLevel(Trace),
				SetCaller(Caller{File: true, Line: true, Func: true}),
				SetFormat(FormatText),
				SetWriter(io.Discard),
				AddContext("key1", "value1"),
				AddContext("key1", "value2"),
			},
			expectedLogger: &Logger{
				settings: settings{
					writer: io.Discard,
					level:  levelPtr(Trace),
					format: formatPtr(FormatText),
					caller: callerPtr(true, true, true),
					context: []contextKeyValues{
						{key: "key1", values: []string{"value1", "value2"}},
					},
				},
				mutex: new(sync.Mutex),
			},
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			logger := New(testCase.options...)

			assert.Equal(t, testCase.expectedLogger, logger)
		})
	}
}

func Test_Logger_New(t *testing.T) {
	t.Parallel()

	parent := New(
		SetLevel(Info),
		SetWriter(io.Discard),
		SetCaller(Caller{File: true}),
		AddContext("key1", "value1"),
	)

	child := parent.New(
		SetLevel(Trace),
		AddContext("key1", "value1.2"),
		AddContext("key2", "value2"),
	)

	expectedSettings := settings{
		writer: io.Discard,
		level:  levelPtr(Trace),
		format: formatPtr(FormatConsole),
		caller: callerPtr(true, false, false),
		context: []contextKeyValues{
			{key: "key1", values: []string{"value1", "value1.2"}},
			{key: "key2", values: []string{"value2"}},
		},
	}
	assert.Equal(t, expectedSettings, child.settings)
	assert.Same(t, parent.mutex, child.mutex)
	require.Len(t, parent.childs, 1)

	// the parent context is left untouched
	assert.Equal(t, []contextKeyValues{
		{key: "key1", values: []string{"value1"}},
	}, parent.settings.context)
}

func Test_Logger_Patch(t *testing.T) {
	t.Parallel()

	buffer := bytes.NewBuffer(nil)
	parent := New(SetLevel(Error), SetWriter(buffer), SetFormat(FormatText))
	child := parent.New(AddContext("pkg", "child"))

	child.Info("dropped")
	assert.Empty(t, buffer.String())

	parent.Patch(SetLevel(Debug))

	child.Info("kept")
	assert.Regexp(t, timePrefixRegex+"INFO     kept\tpkg=child\n$", buffer.String())
	assert.Equal(t, Debug, *parent.settings.level)
}

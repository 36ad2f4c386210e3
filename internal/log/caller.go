// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package log

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// Caller selects the caller details appended to log lines.
type Caller struct {
	File bool
	Line bool
	Func bool
}

func (c Caller) enabled() bool {
	return c.File || c.Line || c.Func
}

// ErrCallerFieldNotRecognised is returned by ParseCaller for an unknown field.
var ErrCallerFieldNotRecognised = errors.New("caller field is not recognised")

// ParseCaller parses a comma separated list of the caller details
// file, line and func. An empty string selects none.
func ParseCaller(s string) (caller Caller, err error) {
	for _, field := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(field)) {
		case "":
		case "file":
			caller.File = true
		case "line":
			caller.Line = true
		case "func":
			caller.Func = true
		default:
			return Caller{}, fmt.Errorf("%w: %s", ErrCallerFieldNotRecognised, field)
		}
	}
	return caller, nil
}

// callerString returns the selected details of the caller at the given
// depth, where depth 0 is the caller of callerString.
func callerString(caller Caller, depth int) string {
	if !caller.enabled() {
		return ""
	}

	pc, file, line, ok := runtime.Caller(depth + 1)
	if !ok {
		return "error"
	}

	var fields []string
	if caller.File {
		fields = append(fields, filepath.Base(file))
	}
	if caller.Line {
		fields = append(fields, "L"+strconv.Itoa(line))
	}
	if caller.Func {
		if details := runtime.FuncForPC(pc); details != nil {
			fields = append(fields, strings.TrimLeft(filepath.Ext(details.Name()), "."))
		}
	}
	return strings.Join(fields, ":")
}

// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package event

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const (
	// DataMarker prefixes log lines that carry a base64 encoded event
	DataMarker = "Program data: "
	// LogMarker prefixes human readable log lines
	LogMarker = "Program log: "
)

// FormatInvoke renders the line opening a top-level invocation of programID
func FormatInvoke(programID string) string {
	return "Program " + programID + " invoke [1]"
}

// InvokesProgram reports whether lines record an invocation of programID
func InvokesProgram(lines []string, programID string) bool {
	prefix := "Program " + programID + " invoke "
	for _, line := range lines {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// FormatLogLine renders an event as a marked log line
func FormatLogLine(e Event) (string, error) {
	data, err := Encode(e)
	if err != nil {
		return "", err
	}
	return DataMarker + base64.StdEncoding.EncodeToString(data), nil
}

// FormatMessage renders a human readable log line
func FormatMessage(format string, args ...any) string {
	return LogMarker + fmt.Sprintf(format, args...)
}

// ParseLogLine decodes a marked log line. The boolean result is false for
// lines without the data marker, which are not events.
func ParseLogLine(line string) (Event, bool, error) {
	payload, ok := strings.CutPrefix(line, DataMarker)
	if !ok {
		return nil, false, nil
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, true, fmt.Errorf("decode event payload: %w", err)
	}
	e, err := Decode(data)
	if err != nil {
		return nil, true, err
	}
	return e, true, nil
}

// ParseLogs decodes every marked line in order and ignores the rest. Any
// marked line that fails to decode fails the whole call, so callers never
// observe a partial set of events from one log entry.
func ParseLogs(lines []string) ([]Event, error) {
	var ret []Event
	for i, line := range lines {
		e, ok, err := ParseLogLine(line)
		if err != nil {
			return nil, fmt.Errorf("log line %d: %w", i, err)
		}
		if ok {
			ret = append(ret, e)
		}
	}
	return ret, nil
}

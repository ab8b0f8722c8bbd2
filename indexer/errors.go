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

package indexer

import (
	"errors"
	"fmt"
)

var (
	ErrTransport      = errors.New("indexer transport failure")
	ErrAlreadyStarted = errors.New("indexer already started")
	ErrNotStarted     = errors.New("indexer not started")
)

// TransportError is a failure to read or decode the event log. It is
// transient: the loop reports it and tries again on the next poll.
type TransportError struct {
	// Op is "fetch" or "decode"
	Op string
	// Seq is the entry that failed to decode, or 0 for fetch failures
	Seq uint64
	Err error
}

func (e *TransportError) Error() string {
	if e.Seq > 0 {
		return fmt.Sprintf("%s entry %d: %s", e.Op, e.Seq, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

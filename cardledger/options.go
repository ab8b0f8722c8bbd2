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

package cardledger

import (
	"log/slog"
	"time"

	"github.com/blinklabs-io/cryptcards/identity"
)

// LedgerConfig holds configuration for a Ledger
type LedgerConfig struct {
	// Clock supplies the time stamped on records and events
	Clock func() time.Time
	// Logger receives one debug record per committed operation
	Logger *slog.Logger
	// RentPerByte is the deposit charged per reserved record byte when a
	// record is created. It is returned when a card is burned.
	RentPerByte uint64
	// ProgramID owns every derived record address
	ProgramID identity.Address
}

func DefaultLedgerConfig() LedgerConfig {
	return LedgerConfig{
		Clock:     time.Now,
		ProgramID: identity.DefaultProgramID,
	}
}

// LedgerOption is a functional option for configuring a Ledger
type LedgerOption func(*LedgerConfig)

func WithClock(clock func() time.Time) LedgerOption {
	return func(c *LedgerConfig) {
		c.Clock = clock
	}
}

func WithLogger(logger *slog.Logger) LedgerOption {
	return func(c *LedgerConfig) {
		c.Logger = logger
	}
}

func WithRentPerByte(lamports uint64) LedgerOption {
	return func(c *LedgerConfig) {
		c.RentPerByte = lamports
	}
}

func WithProgramID(programID identity.Address) LedgerOption {
	return func(c *LedgerConfig) {
		c.ProgramID = programID
	}
}

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
	"errors"
	"fmt"
)

// ErrorCode identifies a ledger rejection. Values are stable and match the
// numbering used by deployed clients.
type ErrorCode uint32

const (
	CodeUnauthorized ErrorCode = 6000 + iota
	CodeInvalidRarity
	CodeInvalidCardType
	CodeNotCardOwner
	CodeAlreadyMinted
	CodeBatchTooLarge
	_ // 6006 was a generic verification failure; Verify now reports false instead
	CodeInvalidUpgradeProof
	CodeCannotDowngrade
	CodeInvalidInteractionType
	CodeTitleTooLong
	CodeTxHashTooLong
	CodePlatformTooLong
	CodeURITooLong
	CodeMaxSupplyReached
	CodeInsufficientFunds
	CodeCardNotFound
	CodeAlreadyInteracted
	CodeCollectionNotInitialized
	CodeAlreadyInitialized
	CodePnlTooLong
	CodeSoundtrackTooLong
)

// ErrorKind groups codes by how a caller should react to them
type ErrorKind uint8

const (
	KindValidation ErrorKind = iota + 1
	KindAuthorization
	KindCapacityExhausted
	KindStateConflict
	KindProofInvalid
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "Validation"
	case KindAuthorization:
		return "Authorization"
	case KindCapacityExhausted:
		return "CapacityExhausted"
	case KindStateConflict:
		return "StateConflict"
	case KindProofInvalid:
		return "ProofInvalid"
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

type codeInfo struct {
	name string
	kind ErrorKind
	msg  string
}

var codes = map[ErrorCode]codeInfo{
	CodeUnauthorized: {
		"Unauthorized", KindAuthorization,
		"caller is not the collection authority",
	},
	CodeInvalidRarity: {
		"InvalidRarity", KindValidation,
		"rarity must be 0 (common), 1 (rare) or 2 (legendary)",
	},
	CodeInvalidCardType: {
		"InvalidCardType", KindValidation,
		"card type must be 0-4 (swap, rug, mint, diamond_hands, big_move)",
	},
	CodeNotCardOwner: {
		"NotCardOwner", KindAuthorization,
		"card not owned by signer",
	},
	CodeAlreadyMinted: {
		"AlreadyMinted", KindStateConflict,
		"transaction hash already minted by this wallet",
	},
	CodeBatchTooLarge: {
		"BatchTooLarge", KindValidation,
		"batch size exceeds maximum of 8 cards",
	},
	CodeInvalidUpgradeProof: {
		"InvalidUpgradeProof", KindProofInvalid,
		"invalid rarity upgrade proof",
	},
	CodeCannotDowngrade: {
		"CannotDowngrade", KindStateConflict,
		"card rarity cannot be downgraded",
	},
	CodeInvalidInteractionType: {
		"InvalidInteractionType", KindValidation,
		"interaction type not recognized",
	},
	CodeTitleTooLong: {
		"TitleTooLong", KindValidation,
		"title exceeds maximum length of 100 bytes",
	},
	CodeTxHashTooLong: {
		"TxHashTooLong", KindValidation,
		"transaction hash must be 1 to 88 bytes",
	},
	CodePlatformTooLong: {
		"PlatformTooLong", KindValidation,
		"platform exceeds maximum length of 32 bytes",
	},
	CodeURITooLong: {
		"UriTooLong", KindValidation,
		"collection URI exceeds maximum length of 200 bytes",
	},
	CodeMaxSupplyReached: {
		"MaxSupplyReached", KindCapacityExhausted,
		"collection is paused or has reached maximum supply",
	},
	CodeInsufficientFunds: {
		"InsufficientFunds", KindCapacityExhausted,
		"insufficient funds",
	},
	CodeCardNotFound: {
		"CardNotFound", KindStateConflict,
		"card does not exist or has been burned",
	},
	CodeAlreadyInteracted: {
		"AlreadyInteracted", KindStateConflict,
		"user has already interacted with this card",
	},
	CodeCollectionNotInitialized: {
		"CollectionNotInitialized", KindStateConflict,
		"collection has not been initialized",
	},
	CodeAlreadyInitialized: {
		"AlreadyInitialized", KindStateConflict,
		"collection is already initialized",
	},
	CodePnlTooLong: {
		"PnlTooLong", KindValidation,
		"pnl exceeds maximum length of 32 bytes",
	},
	CodeSoundtrackTooLong: {
		"SoundtrackTooLong", KindValidation,
		"soundtrack id exceeds maximum length of 32 bytes",
	},
}

func (c ErrorCode) String() string {
	if info, ok := codes[c]; ok {
		return info.name
	}
	return fmt.Sprintf("ErrorCode(%d)", uint32(c))
}

// Kind returns the category of the code
func (c ErrorCode) Kind() ErrorKind {
	return codes[c].kind
}

// Error is a ledger rejection. Two errors match with errors.Is when their
// codes are equal, and an error matches the sentinel for its kind.
type Error struct {
	Code ErrorCode
	// Detail is optional context appended to the code's message
	Detail string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s (%d): %s", e.Code, uint32(e.Code), codes[e.Code].msg)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *Error) Kind() ErrorKind {
	return e.Code.Kind()
}

func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case *Error:
		return t.Code == e.Code
	case *kindError:
		return t.kind == e.Kind()
	}
	return false
}

func newError(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:   code,
		Detail: fmt.Sprintf(format, args...),
	}
}

type kindError struct {
	kind ErrorKind
}

func (e *kindError) Error() string {
	return "ledger error: " + e.kind.String()
}

// Sentinels per kind
var (
	ErrValidation        error = &kindError{KindValidation}
	ErrAuthorization     error = &kindError{KindAuthorization}
	ErrCapacityExhausted error = &kindError{KindCapacityExhausted}
	ErrStateConflict     error = &kindError{KindStateConflict}
	ErrProofInvalid      error = &kindError{KindProofInvalid}
)

// Sentinels per code
var (
	ErrUnauthorized             = &Error{Code: CodeUnauthorized}
	ErrInvalidRarity            = &Error{Code: CodeInvalidRarity}
	ErrInvalidCardType          = &Error{Code: CodeInvalidCardType}
	ErrNotCardOwner             = &Error{Code: CodeNotCardOwner}
	ErrAlreadyMinted            = &Error{Code: CodeAlreadyMinted}
	ErrBatchTooLarge            = &Error{Code: CodeBatchTooLarge}
	ErrInvalidUpgradeProof      = &Error{Code: CodeInvalidUpgradeProof}
	ErrCannotDowngrade          = &Error{Code: CodeCannotDowngrade}
	ErrInvalidInteractionType   = &Error{Code: CodeInvalidInteractionType}
	ErrTitleTooLong             = &Error{Code: CodeTitleTooLong}
	ErrTxHashTooLong            = &Error{Code: CodeTxHashTooLong}
	ErrPlatformTooLong          = &Error{Code: CodePlatformTooLong}
	ErrURITooLong               = &Error{Code: CodeURITooLong}
	ErrMaxSupplyReached         = &Error{Code: CodeMaxSupplyReached}
	ErrInsufficientFunds        = &Error{Code: CodeInsufficientFunds}
	ErrCardNotFound             = &Error{Code: CodeCardNotFound}
	ErrAlreadyInteracted        = &Error{Code: CodeAlreadyInteracted}
	ErrCollectionNotInitialized = &Error{Code: CodeCollectionNotInitialized}
	ErrAlreadyInitialized       = &Error{Code: CodeAlreadyInitialized}
	ErrPnlTooLong               = &Error{Code: CodePnlTooLong}
	ErrSoundtrackTooLong        = &Error{Code: CodeSoundtrackTooLong}
)

// CodeOf extracts the ledger error code from err
func CodeOf(err error) (ErrorCode, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return 0, false
}

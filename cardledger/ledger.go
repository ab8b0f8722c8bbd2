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
	"log/slog"
	"math"
	"sync"

	"github.com/blinklabs-io/cryptcards/card"
	"github.com/blinklabs-io/cryptcards/event"
	"github.com/blinklabs-io/cryptcards/eventlog"
	"github.com/blinklabs-io/cryptcards/identity"
	"github.com/blinklabs-io/cryptcards/soul"
)

// Ledger is the card state machine. Every operation runs in its own account
// store transaction and commits only after its log entry has been appended,
// so an observer sees either all of an operation or none of it.
type Ledger struct {
	mu             sync.RWMutex
	store          AccountStore
	log            eventlog.Appender
	config         LedgerConfig
	logger         *slog.Logger
	collectionAddr identity.Address
	collectionBump uint8
}

// MintResult identifies a newly minted card
type MintResult struct {
	MintID   uint64
	Address  identity.Address
	SoulSeed soul.Seed
}

// CollectionUpdate lists the collection fields to change. Nil fields are
// left as they are.
type CollectionUpdate struct {
	URI       *string
	MaxSupply *uint64
	MintFee   *uint64
	Paused    *bool
	Treasury  *identity.Address
}

func New(
	store AccountStore,
	log eventlog.Appender,
	opts ...LedgerOption,
) (*Ledger, error) {
	if store == nil || log == nil {
		return nil, errors.New("ledger requires an account store and an event log")
	}
	cfg := DefaultLedgerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Clock == nil {
		return nil, errors.New("ledger clock must not be nil")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	addr, bump, err := identity.DeriveAddress(
		cfg.ProgramID,
		identity.CollectionSeeds()...,
	)
	if err != nil {
		return nil, fmt.Errorf("derive collection address: %w", err)
	}
	return &Ledger{
		store:          store,
		log:            log,
		config:         cfg,
		logger:         logger.With("component", "cardledger"),
		collectionAddr: addr,
		collectionBump: bump,
	}, nil
}

func (l *Ledger) ProgramID() identity.Address {
	return l.config.ProgramID
}

// CollectionAddress is the location of the collection record
func (l *Ledger) CollectionAddress() identity.Address {
	return l.collectionAddr
}

// CardAddress is the location of the card minted from txHash by minter
func (l *Ledger) CardAddress(txHash string, minter identity.Address) identity.Address {
	return identity.CardAddress(l.config.ProgramID, txHash, minter)
}

// op carries the state of one operation in progress
type op struct {
	txn    AccountTxn
	now    int64
	logs   []string
	events int
}

func (o *op) emit(e event.Event) error {
	line, err := event.FormatLogLine(e)
	if err != nil {
		return err
	}
	o.logs = append(o.logs, line)
	o.events++
	return nil
}

func (o *op) msg(format string, args ...any) {
	o.logs = append(o.logs, event.FormatMessage(format, args...))
}

func (l *Ledger) execute(name string, fn func(o *op) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	o := &op{
		txn: l.store.Begin(),
		now: l.config.Clock().Unix(),
	}
	o.logs = append(
		o.logs,
		event.FormatInvoke(l.config.ProgramID.String()),
	)
	o.msg("Instruction: %s", name)
	if err := fn(o); err != nil {
		o.txn.Discard()
		l.logger.Debug(
			"operation rejected",
			"op", name,
			"error", err,
		)
		return err
	}
	o.logs = append(o.logs, fmt.Sprintf("Program %s success", l.config.ProgramID))
	seq, err := l.log.Append(o.logs)
	if err != nil {
		o.txn.Discard()
		return fmt.Errorf("%s: append event log: %w", name, err)
	}
	o.txn.Commit()
	l.logger.Debug(
		"operation committed",
		"op", name,
		"seq", seq,
		"events", o.events,
	)
	return nil
}

func (l *Ledger) view(fn func(txn AccountTxn) error) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	txn := l.store.Begin()
	defer txn.Discard()
	return fn(txn)
}

func (l *Ledger) rent(space uint64) uint64 {
	if l.config.RentPerByte > math.MaxUint64/space {
		return math.MaxUint64
	}
	return l.config.RentPerByte * space
}

func (l *Ledger) loadCollection(txn AccountTxn) (*Collection, error) {
	var col Collection
	ok, err := txn.Get(l.collectionAddr, &col)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCollectionNotInitialized
	}
	return &col, nil
}

func loadCard(txn AccountTxn, addr identity.Address) (*Card, error) {
	var c Card
	ok, err := txn.Get(addr, &c)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newError(CodeCardNotFound, "%s", addr)
	}
	return &c, nil
}

// InitializeCollection creates the collection. The authority becomes the
// treasury until changed with UpdateCollection.
func (l *Ledger) InitializeCollection(
	authority identity.Address,
	uri string,
	maxSupply uint64,
	mintFee uint64,
) error {
	return l.execute("InitializeCollection", func(o *op) error {
		if err := validateURI(uri); err != nil {
			return err
		}
		var existing Collection
		ok, err := o.txn.Get(l.collectionAddr, &existing)
		if err != nil {
			return err
		}
		if ok {
			return ErrAlreadyInitialized
		}
		err = o.txn.TransferValue(
			authority,
			l.collectionAddr,
			l.rent(CollectionSpace),
		)
		if err != nil {
			return err
		}
		col := &Collection{
			Authority: authority,
			MaxSupply: maxSupply,
			URI:       uri,
			MintFee:   mintFee,
			Treasury:  authority,
			CreatedAt: o.now,
			Bump:      l.collectionBump,
		}
		if err := o.txn.Put(l.collectionAddr, col); err != nil {
			return err
		}
		o.msg("CRYPT collection initialized - authority: %s", authority)
		return nil
	})
}

// UpdateCollection applies a patch to the collection. Only the authority may
// call it.
func (l *Ledger) UpdateCollection(
	caller identity.Address,
	update CollectionUpdate,
) error {
	return l.execute("UpdateCollection", func(o *op) error {
		col, err := l.loadCollection(o.txn)
		if err != nil {
			return err
		}
		if col.Authority != caller {
			return newError(CodeUnauthorized, "%s", caller)
		}
		if update.URI != nil {
			if err := validateURI(*update.URI); err != nil {
				return err
			}
			col.URI = *update.URI
		}
		if update.MaxSupply != nil {
			col.MaxSupply = *update.MaxSupply
		}
		if update.MintFee != nil {
			col.MintFee = *update.MintFee
		}
		if update.Paused != nil {
			col.Paused = *update.Paused
		}
		if update.Treasury != nil {
			col.Treasury = *update.Treasury
		}
		if err := o.txn.Put(l.collectionAddr, col); err != nil {
			return err
		}
		o.msg("CRYPT collection updated")
		return nil
	})
}

// Mint creates a card for a transaction on behalf of minter
func (l *Ledger) Mint(minter identity.Address, args MintArgs) (MintResult, error) {
	var res MintResult
	err := l.execute("MintCard", func(o *op) error {
		col, err := l.loadCollection(o.txn)
		if err != nil {
			return err
		}
		res, err = l.mintOne(o, col, minter, &args)
		if err != nil {
			return err
		}
		if err := o.txn.Put(l.collectionAddr, col); err != nil {
			return err
		}
		o.msg(
			"CRYPT Card #%d minted - %s [%s]",
			res.MintID,
			args.Title,
			args.Rarity,
		)
		return nil
	})
	if err != nil {
		return MintResult{}, err
	}
	return res, nil
}

// BatchMint mints up to card.MaxBatchSize cards in one operation. Either
// every entry is minted with consecutive mint ids or none is.
func (l *Ledger) BatchMint(minter identity.Address, args []MintArgs) ([]MintResult, error) {
	if len(args) > card.MaxBatchSize {
		return nil, newError(CodeBatchTooLarge, "got %d entries", len(args))
	}
	ret := make([]MintResult, 0, len(args))
	err := l.execute("BatchMint", func(o *op) error {
		col, err := l.loadCollection(o.txn)
		if err != nil {
			return err
		}
		for i := range args {
			res, err := l.mintOne(o, col, minter, &args[i])
			if err != nil {
				return fmt.Errorf("batch entry %d: %w", i, err)
			}
			ret = append(ret, res)
		}
		if err := o.txn.Put(l.collectionAddr, col); err != nil {
			return err
		}
		o.msg("CRYPT batch mint: %d cards minted", len(args))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

func (l *Ledger) mintOne(
	o *op,
	col *Collection,
	minter identity.Address,
	args *MintArgs,
) (MintResult, error) {
	if !col.CanMint() {
		return MintResult{}, newError(
			CodeMaxSupplyReached,
			"minted %d of %d, paused %t",
			col.TotalMinted,
			col.MaxSupply,
			col.Paused,
		)
	}
	if err := args.Validate(); err != nil {
		return MintResult{}, err
	}
	addr, bump, err := identity.DeriveAddress(
		l.config.ProgramID,
		identity.CardSeeds(args.TxHash, minter)...,
	)
	if err != nil {
		return MintResult{}, err
	}
	var existing Card
	ok, err := o.txn.Get(addr, &existing)
	if err != nil {
		return MintResult{}, err
	}
	if ok {
		return MintResult{}, newError(CodeAlreadyMinted, "%s", args.TxHash)
	}
	if col.MintFee > 0 {
		if err := o.txn.TransferValue(minter, col.Treasury, col.MintFee); err != nil {
			return MintResult{}, err
		}
	}
	if err := o.txn.TransferValue(minter, addr, l.rent(CardSpace)); err != nil {
		return MintResult{}, err
	}
	c := &Card{
		Owner:         minter,
		MintID:        col.TotalMinted,
		TxHash:        args.TxHash,
		Rarity:        args.Rarity,
		CardType:      args.CardType,
		Title:         args.Title,
		NarrationHash: args.NarrationHash,
		SoulSeed:      soul.ComputeString(args.TxHash),
		Platform:      args.Platform,
		Pnl:           args.Pnl,
		TxTimestamp:   args.TxTimestamp,
		MintedAt:      o.now,
		SoundtrackID:  args.SoundtrackID,
		Bump:          bump,
	}
	if err := o.txn.Put(addr, c); err != nil {
		return MintResult{}, err
	}
	col.TotalMinted++
	err = o.emit(&event.CardMinted{
		MintID:    c.MintID,
		Owner:     c.Owner,
		TxHash:    c.TxHash,
		Rarity:    c.Rarity,
		CardType:  c.CardType,
		Title:     c.Title,
		SoulSeed:  c.SoulSeed,
		Timestamp: c.MintedAt,
	})
	if err != nil {
		return MintResult{}, err
	}
	return MintResult{
		MintID:   c.MintID,
		Address:  addr,
		SoulSeed: c.SoulSeed,
	}, nil
}

// Transfer hands a card to a new owner
func (l *Ledger) Transfer(
	caller identity.Address,
	cardAddr identity.Address,
	newOwner identity.Address,
) error {
	return l.execute("TransferCard", func(o *op) error {
		c, err := loadCard(o.txn, cardAddr)
		if err != nil {
			return err
		}
		if c.Owner != caller {
			return newError(CodeNotCardOwner, "card #%d", c.MintID)
		}
		oldOwner := c.Owner
		c.Owner = newOwner
		if err := o.txn.Put(cardAddr, c); err != nil {
			return err
		}
		err = o.emit(&event.CardTransferred{
			MintID:    c.MintID,
			From:      oldOwner,
			To:        newOwner,
			TxHash:    c.TxHash,
			Timestamp: o.now,
		})
		if err != nil {
			return err
		}
		o.msg("CRYPT Card #%d transferred: %s -> %s", c.MintID, oldOwner, newOwner)
		return nil
	})
}

// Burn destroys a card and returns its deposit to the owner. Nothing can be
// done with a card after it is burned.
func (l *Ledger) Burn(caller identity.Address, cardAddr identity.Address) error {
	return l.execute("BurnCard", func(o *op) error {
		c, err := loadCard(o.txn, cardAddr)
		if err != nil {
			return err
		}
		if c.Owner != caller {
			return newError(CodeNotCardOwner, "card #%d", c.MintID)
		}
		err = o.emit(&event.CardBurned{
			MintID:    c.MintID,
			Owner:     c.Owner,
			TxHash:    c.TxHash,
			Rarity:    c.Rarity,
			Timestamp: o.now,
		})
		if err != nil {
			return err
		}
		o.txn.Delete(cardAddr)
		if err := o.txn.TransferValue(cardAddr, c.Owner, o.txn.Balance(cardAddr)); err != nil {
			return err
		}
		o.msg("CRYPT Card #%d burned - %s returned to the void", c.MintID, c.TxHash)
		return nil
	})
}

// UpgradeRarity raises a card's rarity. The proof must be the one produced
// by soul.UpgradeProof for the card's transaction, seed and target rarity.
func (l *Ledger) UpgradeRarity(
	caller identity.Address,
	cardAddr identity.Address,
	newRarity card.Rarity,
	proof soul.Seed,
) error {
	return l.execute("UpgradeRarity", func(o *op) error {
		c, err := loadCard(o.txn, cardAddr)
		if err != nil {
			return err
		}
		if c.Owner != caller {
			return newError(CodeNotCardOwner, "card #%d", c.MintID)
		}
		if !newRarity.Valid() {
			return newError(CodeInvalidRarity, "got %d", uint8(newRarity))
		}
		if !c.Rarity.CanUpgradeTo(newRarity) {
			return newError(CodeCannotDowngrade, "%s to %s", c.Rarity, newRarity)
		}
		if !soul.VerifyUpgradeProof(c.TxHash, c.SoulSeed, uint8(newRarity), proof) {
			return newError(CodeInvalidUpgradeProof, "card #%d", c.MintID)
		}
		oldRarity := c.Rarity
		c.Rarity = newRarity
		if err := o.txn.Put(cardAddr, c); err != nil {
			return err
		}
		err = o.emit(&event.RarityUpgraded{
			MintID:    c.MintID,
			Owner:     c.Owner,
			OldRarity: oldRarity,
			NewRarity: newRarity,
			Timestamp: o.now,
		})
		if err != nil {
			return err
		}
		o.msg("CRYPT Card #%d upgraded: %s -> %s", c.MintID, oldRarity, newRarity)
		return nil
	})
}

// Interact records a user's interaction with a card. Each user may interact
// with a given card once.
func (l *Ledger) Interact(
	user identity.Address,
	cardAddr identity.Address,
	interactionType card.InteractionType,
	commentHash *[32]byte,
) error {
	return l.execute("Interact", func(o *op) error {
		c, err := loadCard(o.txn, cardAddr)
		if err != nil {
			return err
		}
		if !interactionType.Valid() {
			return newError(CodeInvalidInteractionType, "got %d", uint8(interactionType))
		}
		addr, bump, err := identity.DeriveAddress(
			l.config.ProgramID,
			identity.InteractionSeeds(cardAddr, user)...,
		)
		if err != nil {
			return err
		}
		var existing Interaction
		ok, err := o.txn.Get(addr, &existing)
		if err != nil {
			return err
		}
		if ok {
			return newError(CodeAlreadyInteracted, "%s on card #%d", user, c.MintID)
		}
		if err := o.txn.TransferValue(user, addr, l.rent(InteractionSpace)); err != nil {
			return err
		}
		rec := &Interaction{
			Card:            cardAddr,
			User:            user,
			InteractionType: interactionType,
			CreatedAt:       o.now,
			Bump:            bump,
		}
		if commentHash != nil {
			rec.CommentHash = *commentHash
		}
		if err := o.txn.Put(addr, rec); err != nil {
			return err
		}
		if c.InteractionCount < math.MaxUint64 {
			c.InteractionCount++
		}
		if err := o.txn.Put(cardAddr, c); err != nil {
			return err
		}
		err = o.emit(&event.CardInteraction{
			CardMintID:      c.MintID,
			User:            user,
			InteractionType: interactionType,
			Timestamp:       o.now,
		})
		if err != nil {
			return err
		}
		o.msg("Interaction on Card #%d: %s by %s", c.MintID, interactionType, user)
		return nil
	})
}

// Verify checks that txHash is the card's transaction and that the stored
// soul seed is the one it derives. A mismatch is reported as false, not as
// an error. A successful check emits CardVerified.
func (l *Ledger) Verify(cardAddr identity.Address, txHash string) (bool, error) {
	var verified bool
	err := l.execute("VerifyCard", func(o *op) error {
		c, err := loadCard(o.txn, cardAddr)
		if err != nil {
			return err
		}
		if c.TxHash != txHash {
			o.msg("Verification FAILED: tx_hash mismatch")
			return nil
		}
		if !soul.Verify(txHash, c.SoulSeed) {
			o.msg("Verification FAILED: soul_seed mismatch")
			return nil
		}
		verified = true
		o.msg("CRYPT Card #%d verified - soul signature authentic", c.MintID)
		return o.emit(&event.CardVerified{
			MintID:    c.MintID,
			TxHash:    c.TxHash,
			Verified:  true,
			Timestamp: o.now,
		})
	})
	if err != nil {
		return false, err
	}
	return verified, nil
}

// Collection returns the collection record
func (l *Ledger) Collection() (Collection, error) {
	var ret Collection
	err := l.view(func(txn AccountTxn) error {
		col, err := l.loadCollection(txn)
		if err != nil {
			return err
		}
		ret = *col
		return nil
	})
	return ret, err
}

// Stats returns the public collection statistics
func (l *Ledger) Stats() (CollectionStats, error) {
	col, err := l.Collection()
	if err != nil {
		return CollectionStats{}, err
	}
	return CollectionStats{
		Authority:   col.Authority,
		TotalMinted: col.TotalMinted,
		MaxSupply:   col.MaxSupply,
		MintFee:     col.MintFee,
		Paused:      col.Paused,
		CreatedAt:   col.CreatedAt,
	}, nil
}

// Card returns the card stored at addr
func (l *Ledger) Card(addr identity.Address) (Card, error) {
	var ret Card
	err := l.view(func(txn AccountTxn) error {
		c, err := loadCard(txn, addr)
		if err != nil {
			return err
		}
		ret = *c
		return nil
	})
	return ret, err
}

// Interaction returns user's interaction with the card at cardAddr, if any
func (l *Ledger) Interaction(
	cardAddr identity.Address,
	user identity.Address,
) (Interaction, bool, error) {
	var ret Interaction
	var found bool
	addr := identity.InteractionAddress(l.config.ProgramID, cardAddr, user)
	err := l.view(func(txn AccountTxn) error {
		var err error
		found, err = txn.Get(addr, &ret)
		return err
	})
	return ret, found, err
}

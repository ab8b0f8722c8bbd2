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
	"bytes"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
)

var (
	ErrUnknownDiscriminator = errors.New("unknown event discriminator")
	ErrTruncated            = errors.New("event data truncated")
	ErrTrailingData         = errors.New("trailing data after event")
)

// Encode serializes an event as its discriminator followed by its fields in
// Borsh layout: little-endian integers, strings with a u32 length prefix and
// fixed size byte arrays written inline.
func Encode(e Event) ([]byte, error) {
	if e == nil {
		return nil, errors.New("cannot encode nil event")
	}
	disc, ok := discriminators[e.Kind()]
	if !ok {
		return nil, fmt.Errorf("cannot encode event of kind %s", e.Kind())
	}
	buf := bytes.NewBuffer(make([]byte, 0, 128))
	w := &writer{enc: bin.NewBorshEncoder(buf)}
	w.fixed(disc[:])
	e.encode(w)
	if w.err != nil {
		return nil, fmt.Errorf("encode %s: %w", e.Kind(), w.err)
	}
	return buf.Bytes(), nil
}

// Decode parses a single event. The whole input must be consumed.
func Decode(data []byte) (Event, error) {
	if len(data) < DiscriminatorSize {
		return nil, fmt.Errorf(
			"%w: %d bytes is shorter than a discriminator",
			ErrTruncated,
			len(data),
		)
	}
	var disc [DiscriminatorSize]byte
	copy(disc[:], data)
	kind, ok := kindsByDiscriminator[disc]
	if !ok {
		return nil, fmt.Errorf("%w: %x", ErrUnknownDiscriminator, disc)
	}
	e := newEvent(kind)
	r := &reader{dec: bin.NewBorshDecoder(data)}
	r.fixed(disc[:])
	e.decode(r)
	if r.err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, r.err)
	}
	if rem := r.dec.Remaining(); rem != 0 {
		return nil, fmt.Errorf(
			"decode %s: %w (%d bytes)",
			kind,
			ErrTrailingData,
			rem,
		)
	}
	return e, nil
}

// writer records the first error and turns every later write into a no-op
type writer struct {
	enc *bin.Encoder
	err error
}

func (w *writer) u8(v uint8) {
	if w.err == nil {
		w.err = w.enc.WriteUint8(v)
	}
}

func (w *writer) boolean(v bool) {
	if w.err == nil {
		w.err = w.enc.WriteBool(v)
	}
}

func (w *writer) u64(v uint64) {
	if w.err == nil {
		w.err = w.enc.WriteUint64(v, bin.LE)
	}
}

func (w *writer) i64(v int64) {
	if w.err == nil {
		w.err = w.enc.WriteInt64(v, bin.LE)
	}
}

func (w *writer) fixed(b []byte) {
	if w.err == nil {
		w.err = w.enc.WriteBytes(b, false)
	}
}

func (w *writer) str(s string) {
	if w.err == nil {
		w.err = w.enc.WriteString(s)
	}
}

// reader records the first error and turns every later read into a no-op.
// Lengths are checked against the remaining input before the decoder is
// asked for bytes, so short input always surfaces as ErrTruncated.
type reader struct {
	dec *bin.Decoder
	err error
}

func (r *reader) offset() int {
	return int(r.dec.Position()) // #nosec G115
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.dec.Remaining() < n {
		r.err = fmt.Errorf(
			"%w: need %d bytes at offset %d, have %d",
			ErrTruncated,
			n,
			r.offset(),
			r.dec.Remaining(),
		)
		return nil
	}
	ret, err := r.dec.ReadNBytes(n)
	if err != nil {
		r.err = fmt.Errorf("%w: %w", ErrTruncated, err)
		return nil
	}
	return ret
}

func (r *reader) u8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) boolean() bool {
	v := r.u8()
	if v > 1 && r.err == nil {
		r.err = fmt.Errorf("invalid bool value %d at offset %d", v, r.offset()-1)
	}
	return v == 1
}

func (r *reader) u64() uint64 {
	if r.err != nil {
		return 0
	}
	if r.dec.Remaining() < 8 {
		r.take(8)
		return 0
	}
	v, err := r.dec.ReadUint64(bin.LE)
	if err != nil {
		r.err = fmt.Errorf("%w: %w", ErrTruncated, err)
	}
	return v
}

func (r *reader) i64() int64 {
	return int64(r.u64()) // #nosec G115
}

func (r *reader) fixed(dest []byte) {
	b := r.take(len(dest))
	if b != nil {
		copy(dest, b)
	}
}

func (r *reader) str() string {
	if r.err != nil {
		return ""
	}
	if r.dec.Remaining() < 4 {
		r.take(4)
		return ""
	}
	n, err := r.dec.ReadUint32(bin.LE)
	if err != nil {
		r.err = fmt.Errorf("%w: %w", ErrTruncated, err)
		return ""
	}
	if uint64(n) > uint64(r.dec.Remaining()) { // #nosec G115
		r.err = fmt.Errorf(
			"%w: string of %d bytes at offset %d",
			ErrTruncated,
			n,
			r.offset(),
		)
		return ""
	}
	return string(r.take(int(n)))
}

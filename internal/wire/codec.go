// Package wire implements the block header, fragment, and ConfigParams
// binary codec (spec.md §6). It is deliberately limited to this codec: the
// block builder (a convenience constructor that would sign what this
// package encodes) stays out of scope, so tests here construct Header and
// Fragment values directly as Go struct literals.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	ErrTruncated        = errors.New("wire: unexpected end of buffer")
	ErrConfigParamsUnsorted = errors.New("wire: config params are not sorted by tag ascending")
	ErrUnknownTag       = errors.New("wire: unrecognized tag byte")
	ErrValueTooLong     = errors.New("wire: value exceeds its length-prefix capacity")
)

// writer accumulates encoded bytes. The fixed-width methods (u8, u16, u32,
// u64, raw) cannot fail; the length-prefixed ones (bytes8, bytes16) return
// ErrValueTooLong rather than overflow their prefix, matching the
// bijection property fragments and headers must satisfy (spec.md §8
// property 4).
type writer struct {
	buf []byte
}

func (w *writer) u8(v uint8)   { w.buf = append(w.buf, v) }
func (w *writer) u16(v uint16) { w.buf = binary.BigEndian.AppendUint16(w.buf, v) }
func (w *writer) u32(v uint32) { w.buf = binary.BigEndian.AppendUint32(w.buf, v) }
func (w *writer) u64(v uint64) { w.buf = binary.BigEndian.AppendUint64(w.buf, v) }
func (w *writer) raw(b []byte) { w.buf = append(w.buf, b...) }

// bytes16 writes a u16-length-prefixed byte slice, used for the
// variable-length opaque Praos proof fields (VRF output, KES signature).
// Keys and signatures elsewhere, multisig partial signatures included, use
// the u8-prefixed bytes8.
func (w *writer) bytes16(b []byte) error {
	if len(b) > 0xffff {
		return ErrValueTooLong
	}
	w.u16(uint16(len(b)))
	w.raw(b)
	return nil
}

func (w *writer) bytes8(b []byte) error {
	if len(b) > 0xff {
		return ErrValueTooLong
	}
	w.u8(uint8(len(b)))
	w.raw(b)
	return nil
}

type reader struct {
	buf []byte
	pos int
}

func newReader(b []byte) *reader { return &reader{buf: b} }

func (r *reader) remaining() int { return len(r.buf) - r.pos }

func (r *reader) u8() (uint8, error) {
	if r.remaining() < 1 {
		return 0, ErrTruncated
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

func (r *reader) u16() (uint16, error) {
	if r.remaining() < 2 {
		return 0, ErrTruncated
	}
	v := binary.BigEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *reader) u32() (uint32, error) {
	if r.remaining() < 4 {
		return 0, ErrTruncated
	}
	v := binary.BigEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *reader) u64() (uint64, error) {
	if r.remaining() < 8 {
		return 0, ErrTruncated
	}
	v := binary.BigEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

func (r *reader) raw(n int) ([]byte, error) {
	if r.remaining() < n {
		return nil, ErrTruncated
	}
	v := r.buf[r.pos : r.pos+n]
	r.pos += n
	return v, nil
}

func (r *reader) bytes16() ([]byte, error) {
	n, err := r.u16()
	if err != nil {
		return nil, err
	}
	return r.raw(int(n))
}

func (r *reader) bytes8() ([]byte, error) {
	n, err := r.u8()
	if err != nil {
		return nil, err
	}
	return r.raw(int(n))
}

func (r *reader) fixed32() ([32]byte, error) {
	var out [32]byte
	b, err := r.raw(32)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

func (r *reader) fixed64() ([64]byte, error) {
	var out [64]byte
	b, err := r.raw(64)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

func wrapf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

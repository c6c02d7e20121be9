package dissector

import "encoding/binary"

// Body is one LMP PDU body. Decode consumes its declared fields from the
// front of p and reports whether there was enough data; any bytes past
// what it declares are left untouched; the LMP layer discards them as
// baseband padding. Encode always emits exactly the declared length.
type Body interface {
	Name() string
	Decode(p []byte) bool
	Encode() []byte
}

// fixedBytes is a body whose only field is a raw byte string of fixed
// length (au_rand, start_encryption_req, Simple Pairing confirm/number,
// DHKeyCheck, sres, encapsulated_payload, the AFH channel maps, ...).
type fixedBytes struct {
	name string
	n    int
	data []byte
}

func (b *fixedBytes) Name() string { return b.name }

func (b *fixedBytes) Decode(p []byte) bool {
	if len(p) < b.n {
		return false
	}
	b.data = append([]byte(nil), p[:b.n]...)
	return true
}

func (b *fixedBytes) Encode() []byte {
	out := make([]byte, b.n)
	copy(out, b.data)
	return out
}

// emptyBody is a PDU with no parameters at all.
type emptyBody struct{ name string }

func (b *emptyBody) Name() string        { return b.name }
func (b *emptyBody) Decode(p []byte) bool { return true }
func (b *emptyBody) Encode() []byte      { return nil }

// u8Body is a single byte field (mode/keysize/offset/error-code/...).
type u8Body struct {
	name string
	val  uint8
}

func (b *u8Body) Name() string { return b.name }
func (b *u8Body) Decode(p []byte) bool {
	if len(p) < 1 {
		return false
	}
	b.val = p[0]
	return true
}
func (b *u8Body) Encode() []byte { return []byte{b.val} }

func readU16LE(p []byte, out *uint16) bool {
	if len(p) < 2 {
		return false
	}
	*out = binary.LittleEndian.Uint16(p[:2])
	return true
}

func putU16LE(v uint16) []byte {
	out := make([]byte, 2)
	binary.LittleEndian.PutUint16(out, v)
	return out
}

func readU32LE(p []byte, out *uint32) bool {
	if len(p) < 4 {
		return false
	}
	*out = binary.LittleEndian.Uint32(p[:4])
	return true
}

func putU32LE(v uint32) []byte {
	out := make([]byte, 4)
	binary.LittleEndian.PutUint32(out, v)
	return out
}

func readU64LE(p []byte, out *uint64) bool {
	if len(p) < 8 {
		return false
	}
	*out = binary.LittleEndian.Uint64(p[:8])
	return true
}

func putU64LE(v uint64) []byte {
	out := make([]byte, 8)
	binary.LittleEndian.PutUint64(out, v)
	return out
}

package dissector

// This file holds the concrete LMP body types named in the opcode
// binding table (lmp.go). Each one declares exactly the fields its
// opcode carries; any bytes beyond those fields belong to baseband
// padding and are never read, giving the truncation rule (discard
// trailing bytes) for free rather than repeating it per body.

// ---- simple single/two/three-field bodies ----

type NameReq struct{ NameOffset uint8 }

func (b *NameReq) Name() string { return "LMP_name_req" }
func (b *NameReq) Decode(p []byte) bool {
	if len(p) < 1 {
		return false
	}
	b.NameOffset = p[0]
	return true
}
func (b *NameReq) Encode() []byte { return []byte{b.NameOffset} }

// NameRes carries a length-prefixed fragment of the remote name.
type NameRes struct {
	NameOffset uint8
	NameFrag   []byte
}

func (b *NameRes) Name() string { return "LMP_name_res" }
func (b *NameRes) Decode(p []byte) bool {
	if len(p) < 2 {
		return false
	}
	n := int(p[1])
	if len(p) < 2+n {
		return false
	}
	b.NameOffset = p[0]
	b.NameFrag = append([]byte(nil), p[2:2+n]...)
	return true
}
func (b *NameRes) Encode() []byte {
	out := make([]byte, 2, 2+len(b.NameFrag))
	out[0] = b.NameOffset
	out[1] = uint8(len(b.NameFrag))
	return append(out, b.NameFrag...)
}

// Accepted and NotAccepted pack an unused bit with the 7-bit opcode of
// the PDU being acknowledged into their first byte.
type Accepted struct{ Code uint8 }

func (b *Accepted) Name() string { return "LMP_accepted" }
func (b *Accepted) Decode(p []byte) bool {
	if len(p) < 1 {
		return false
	}
	b.Code = msb(p[0], 1, 7)
	return true
}
func (b *Accepted) Encode() []byte { return []byte{putMSB(0, 1, 7, b.Code)} }

type NotAccepted struct {
	Code      uint8
	ErrorCode uint8
}

func (b *NotAccepted) Name() string { return "LMP_not_accepted" }
func (b *NotAccepted) Decode(p []byte) bool {
	if len(p) < 2 {
		return false
	}
	b.Code = msb(p[0], 1, 7)
	b.ErrorCode = p[1]
	return true
}
func (b *NotAccepted) Encode() []byte {
	return []byte{putMSB(0, 1, 7, b.Code), b.ErrorCode}
}

type Detach struct{ ErrorCode uint8 }

func (b *Detach) Name() string { return "LMP_detach" }
func (b *Detach) Decode(p []byte) bool {
	if len(p) < 1 {
		return false
	}
	b.ErrorCode = p[0]
	return true
}
func (b *Detach) Encode() []byte { return []byte{b.ErrorCode} }

type ClkOffsetRes struct{ Offset uint16 }

func (b *ClkOffsetRes) Name() string { return "LMP_clkoffset_res" }
func (b *ClkOffsetRes) Decode(p []byte) bool { return readU16LE(p, &b.Offset) }
func (b *ClkOffsetRes) Encode() []byte       { return putU16LE(b.Offset) }

type SniffReq struct {
	TimeCtr      uint8
	DSniff       uint16
	TSniff       uint16
	SniffAttempt uint16
	SniffTimeout uint16
}

func (b *SniffReq) Name() string { return "LMP_sniff_req" }
func (b *SniffReq) Decode(p []byte) bool {
	if len(p) < 9 {
		return false
	}
	b.TimeCtr = p[0]
	b.DSniff = u16le(p[1:3])
	b.TSniff = u16le(p[3:5])
	b.SniffAttempt = u16le(p[5:7])
	b.SniffTimeout = u16le(p[7:9])
	return true
}
func (b *SniffReq) Encode() []byte {
	out := make([]byte, 9)
	out[0] = b.TimeCtr
	putU16leAt(out, 1, b.DSniff)
	putU16leAt(out, 3, b.TSniff)
	putU16leAt(out, 5, b.SniffAttempt)
	putU16leAt(out, 7, b.SniffTimeout)
	return out
}

// PreferredRate packs five bit fields into a single byte.
type PreferredRate struct {
	RFU     uint8
	EDRSize uint8
	Type    uint8
	Size    uint8
	FEC     uint8
}

func (b *PreferredRate) Name() string { return "LMP_preferred_rate" }
func (b *PreferredRate) Decode(p []byte) bool {
	if len(p) < 1 {
		return false
	}
	b0 := p[0]
	b.RFU = msb(b0, 0, 1)
	b.EDRSize = msb(b0, 1, 2)
	b.Type = msb(b0, 3, 2)
	b.Size = msb(b0, 5, 2)
	b.FEC = msb(b0, 7, 1)
	return true
}
func (b *PreferredRate) Encode() []byte {
	var b0 byte
	b0 = putMSB(b0, 0, 1, b.RFU)
	b0 = putMSB(b0, 1, 2, b.EDRSize)
	b0 = putMSB(b0, 3, 2, b.Type)
	b0 = putMSB(b0, 5, 2, b.Size)
	b0 = putMSB(b0, 7, 1, b.FEC)
	return []byte{b0}
}

// VersionInfo is shared by version_req and version_res.
type VersionInfo struct {
	pduName    string
	Version    uint8
	CompanyID  uint16
	SubVersion uint16
}

func (b *VersionInfo) Name() string { return b.pduName }
func (b *VersionInfo) Decode(p []byte) bool {
	if len(p) < 5 {
		return false
	}
	b.Version = p[0]
	b.CompanyID = u16le(p[1:3])
	b.SubVersion = u16le(p[3:5])
	return true
}
func (b *VersionInfo) Encode() []byte {
	out := make([]byte, 5)
	out[0] = b.Version
	putU16leAt(out, 1, b.CompanyID)
	putU16leAt(out, 3, b.SubVersion)
	return out
}

type FeaturesBody struct {
	pduName  string
	Features uint64
}

func (b *FeaturesBody) Name() string { return b.pduName }
func (b *FeaturesBody) Decode(p []byte) bool { return readU64LE(p, &b.Features) }
func (b *FeaturesBody) Encode() []byte       { return putU64LE(b.Features) }

type MaxSlot struct {
	pduName  string
	MaxSlots uint8
}

func (b *MaxSlot) Name() string { return b.pduName }
func (b *MaxSlot) Decode(p []byte) bool {
	if len(p) < 1 {
		return false
	}
	b.MaxSlots = p[0]
	return true
}
func (b *MaxSlot) Encode() []byte { return []byte{b.MaxSlots} }

type TimingAccuracyRes struct {
	Drift  uint8
	Jitter uint8
}

func (b *TimingAccuracyRes) Name() string { return "LMP_timing_accuracy_res" }
func (b *TimingAccuracyRes) Decode(p []byte) bool {
	if len(p) < 2 {
		return false
	}
	b.Drift, b.Jitter = p[0], p[1]
	return true
}
func (b *TimingAccuracyRes) Encode() []byte { return []byte{b.Drift, b.Jitter} }

type PageMode struct {
	pduName  string
	Scheme   uint8
	Settings uint8
}

func (b *PageMode) Name() string { return b.pduName }
func (b *PageMode) Decode(p []byte) bool {
	if len(p) < 2 {
		return false
	}
	b.Scheme, b.Settings = p[0], p[1]
	return true
}
func (b *PageMode) Encode() []byte { return []byte{b.Scheme, b.Settings} }

type SupervisionTimeout struct{ Timeout uint16 }

func (b *SupervisionTimeout) Name() string { return "LMP_supervision_timeout" }
func (b *SupervisionTimeout) Decode(p []byte) bool { return readU16LE(p, &b.Timeout) }
func (b *SupervisionTimeout) Encode() []byte       { return putU16LE(b.Timeout) }

type SetAFH struct {
	Instant uint32
	Mode    uint8
	ChM     []byte // 10-byte AFH channel map
}

func (b *SetAFH) Name() string { return "LMP_set_AFH" }
func (b *SetAFH) Decode(p []byte) bool {
	if len(p) < 15 {
		return false
	}
	b.Instant = u32le(p[0:4])
	b.Mode = p[4]
	b.ChM = append([]byte(nil), p[5:15]...)
	return true
}
func (b *SetAFH) Encode() []byte {
	out := make([]byte, 15)
	putU32leAt(out, 0, b.Instant)
	out[4] = b.Mode
	copy(out[5:15], b.ChM)
	return out
}

type EncapHeader struct {
	MajorType uint8
	MinorType uint8
	EncLen    uint8
}

func (b *EncapHeader) Name() string { return "LMP_encapsulated_header" }
func (b *EncapHeader) Decode(p []byte) bool {
	if len(p) < 3 {
		return false
	}
	b.MajorType, b.MinorType, b.EncLen = p[0], p[1], p[2]
	return true
}
func (b *EncapHeader) Encode() []byte { return []byte{b.MajorType, b.MinorType, b.EncLen} }

// ---- extended-opcode bodies ----

type AcceptedExt struct {
	Code1 uint8
	Code2 uint8
}

func (b *AcceptedExt) Name() string { return "LMP_accepted_ext" }
func (b *AcceptedExt) Decode(p []byte) bool {
	if len(p) < 2 {
		return false
	}
	b.Code1 = msb(p[0], 1, 7)
	b.Code2 = p[1]
	return true
}
func (b *AcceptedExt) Encode() []byte { return []byte{putMSB(0, 1, 7, b.Code1), b.Code2} }

type NotAcceptedExt struct {
	Code1     uint8
	Code2     uint8
	ErrorCode uint8
}

func (b *NotAcceptedExt) Name() string { return "LMP_not_accepted_ext" }
func (b *NotAcceptedExt) Decode(p []byte) bool {
	if len(p) < 3 {
		return false
	}
	b.Code1 = msb(p[0], 1, 7)
	b.Code2 = p[1]
	b.ErrorCode = p[2]
	return true
}
func (b *NotAcceptedExt) Encode() []byte {
	return []byte{putMSB(0, 1, 7, b.Code1), b.Code2, b.ErrorCode}
}

// FeaturesExt is shared by features_req_ext and features_res_ext: the
// 64-bit feature field's meaning is selected by fpage, but the wire
// layout (fpage, max_page, features[8]) is identical either way.
type FeaturesExt struct {
	pduName  string
	FPage    uint8
	MaxPage  uint8
	Features uint64
}

func (b *FeaturesExt) Name() string { return b.pduName }
func (b *FeaturesExt) Decode(p []byte) bool {
	if len(p) < 10 {
		return false
	}
	b.FPage = p[0]
	b.MaxPage = p[1]
	b.Features = u64le(p[2:10])
	return true
}
func (b *FeaturesExt) Encode() []byte {
	out := make([]byte, 10)
	out[0], out[1] = b.FPage, b.MaxPage
	putU64leAt(out, 2, b.Features)
	return out
}

type ChannelClassReq struct {
	Mode        uint8
	MinInterval uint16
	MaxInterval uint16
}

func (b *ChannelClassReq) Name() string { return "LMP_channel_classification_req" }
func (b *ChannelClassReq) Decode(p []byte) bool {
	if len(p) < 5 {
		return false
	}
	b.Mode = p[0]
	b.MinInterval = u16le(p[1:3])
	b.MaxInterval = u16le(p[3:5])
	return true
}
func (b *ChannelClassReq) Encode() []byte {
	out := make([]byte, 5)
	out[0] = b.Mode
	putU16leAt(out, 1, b.MinInterval)
	putU16leAt(out, 3, b.MaxInterval)
	return out
}

type SniffSubrating struct {
	pduName          string
	MaxSniffSubrate  uint8
	MinSniffTimeout  uint16
	SubratingInstant uint16
}

func (b *SniffSubrating) Name() string { return b.pduName }
func (b *SniffSubrating) Decode(p []byte) bool {
	if len(p) < 5 {
		return false
	}
	b.MaxSniffSubrate = p[0]
	b.MinSniffTimeout = u16le(p[1:3])
	b.SubratingInstant = u16le(p[3:5])
	return true
}
func (b *SniffSubrating) Encode() []byte {
	out := make([]byte, 5)
	out[0] = b.MaxSniffSubrate
	putU16leAt(out, 1, b.MinSniffTimeout)
	putU16leAt(out, 3, b.SubratingInstant)
	return out
}

type IOCapability struct {
	pduName string
	IOCap   uint8
	OOB     uint8
	Auth    uint8
}

func (b *IOCapability) Name() string { return b.pduName }
func (b *IOCapability) Decode(p []byte) bool {
	if len(p) < 3 {
		return false
	}
	b.IOCap, b.OOB, b.Auth = p[0], p[1], p[2]
	return true
}
func (b *IOCapability) Encode() []byte { return []byte{b.IOCap, b.OOB, b.Auth} }

// PowerControlRes packs three 2-bit power-adjustment codes.
type PowerControlRes struct {
	P8DPSK uint8
	PDQPSK uint8
	PGFSK  uint8
}

func (b *PowerControlRes) Name() string { return "LMP_power_control_res" }
func (b *PowerControlRes) Decode(p []byte) bool {
	if len(p) < 1 {
		return false
	}
	b0 := p[0]
	b.P8DPSK = msb(b0, 2, 2)
	b.PDQPSK = msb(b0, 4, 2)
	b.PGFSK = msb(b0, 6, 2)
	return true
}
func (b *PowerControlRes) Encode() []byte {
	var b0 byte
	b0 = putMSB(b0, 2, 2, b.P8DPSK)
	b0 = putMSB(b0, 4, 2, b.PDQPSK)
	b0 = putMSB(b0, 6, 2, b.PGFSK)
	return []byte{b0}
}

// little-endian helpers operating on sub-slices without bounds-check
// repetition at call sites (the caller has already verified length).

func u16le(p []byte) uint16 { return uint16(p[0]) | uint16(p[1])<<8 }
func u32le(p []byte) uint32 {
	return uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16 | uint32(p[3])<<24
}
func u64le(p []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(p[i])
	}
	return v
}

func putU16leAt(out []byte, off int, v uint16) {
	out[off] = byte(v)
	out[off+1] = byte(v >> 8)
}
func putU32leAt(out []byte, off int, v uint32) {
	for i := 0; i < 4; i++ {
		out[off+i] = byte(v >> (8 * i))
	}
}
func putU64leAt(out []byte, off int, v uint64) {
	for i := 0; i < 8; i++ {
		out[off+i] = byte(v >> (8 * i))
	}
}

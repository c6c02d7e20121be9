package dissector

// BasebandLen is the fixed size of the over-the-air baseband header.
const BasebandLen = 2

// Baseband packet types (the 4-bit type field).
const (
	BBTypeNULL    = 0x00
	BBTypePOLL    = 0x01
	BBTypeFHS     = 0x02
	BBTypeDM1     = 0x03
	BBTypeDH1     = 0x04 // DH1 / 2-DH1
	BBTypeDV3DH1  = 0x08 // DV / 3-DH1
)

var basebandTypeNames = map[uint8]string{
	BBTypeNULL:   "NULL",
	BBTypePOLL:   "POLL",
	BBTypeFHS:    "FHS",
	BBTypeDM1:    "DM1",
	BBTypeDH1:    "DH1/2-DH1",
	BBTypeDV3DH1: "DV/3-DH1",
}

// Baseband is the 2-byte over-the-air header: flow control and ARQ bits
// plus the 4-bit packet type that selects whether an ACL header follows.
type Baseband struct {
	Flow   uint8
	Type   uint8
	LTAddr uint8
	ARQN   uint8
	SEQN   uint8
	HEC    uint8
}

// HasACL reports whether this baseband type carries an ACL header.
// DM1, DH1/2-DH1 and DV/3-DH1 all do; NULL/POLL/FHS carry nothing
// further dissectable at this layer.
func (b Baseband) HasACL() bool {
	switch b.Type {
	case BBTypeDM1, BBTypeDH1, BBTypeDV3DH1:
		return true
	default:
		return false
	}
}

func (b Baseband) TypeName() string {
	if name, ok := basebandTypeNames[b.Type]; ok {
		return name
	}
	return "reserved"
}

// ParseBaseband consumes the first BasebandLen bytes of b.
func ParseBaseband(b []byte) (Baseband, []byte, bool) {
	if len(b) < BasebandLen {
		return Baseband{}, b, false
	}
	b0, b1 := b[0], b[1]
	bb := Baseband{
		Flow:   msb(b0, 0, 1),
		Type:   msb(b0, 1, 4),
		LTAddr: msb(b0, 5, 3),
		ARQN:   msb(b1, 0, 1),
		SEQN:   msb(b1, 1, 1),
		HEC:    msb(b1, 2, 6),
	}
	return bb, b[BasebandLen:], true
}

func (bb Baseband) Encode() []byte {
	out := make([]byte, BasebandLen)
	var b0, b1 byte
	b0 = putMSB(b0, 0, 1, bb.Flow)
	b0 = putMSB(b0, 1, 4, bb.Type)
	b0 = putMSB(b0, 5, 3, bb.LTAddr)
	b1 = putMSB(b1, 0, 1, bb.ARQN)
	b1 = putMSB(b1, 1, 1, bb.SEQN)
	b1 = putMSB(b1, 2, 6, bb.HEC)
	out[0], out[1] = b0, b1
	return out
}

// ACLHeaderLen is the fixed size of the BT_ACL_Hdr.
const ACLHeaderLen = 2

// LLID values selecting the ACL payload's next layer.
const (
	LLIDUndefined    = 0x00
	LLIDContinuation = 0x01
	LLIDL2CAPStart   = 0x02
	LLIDLMP          = 0x03
)

// ACLHeader is the 2-byte baseband-ACL header.
type ACLHeader struct {
	Len   uint8
	Flow  uint8
	LLID  uint8
	Dummy uint8
}

func ParseACLHeader(b []byte) (ACLHeader, []byte, bool) {
	if len(b) < ACLHeaderLen {
		return ACLHeader{}, b, false
	}
	b0 := b[0]
	h := ACLHeader{
		Len:   msb(b0, 0, 5),
		Flow:  msb(b0, 5, 1),
		LLID:  msb(b0, 6, 2),
		Dummy: b[1],
	}
	return h, b[ACLHeaderLen:], true
}

func (h ACLHeader) Encode() []byte {
	out := make([]byte, ACLHeaderLen)
	var b0 byte
	b0 = putMSB(b0, 0, 5, h.Len)
	b0 = putMSB(b0, 5, 1, h.Flow)
	b0 = putMSB(b0, 6, 2, h.LLID)
	out[0] = b0
	out[1] = h.Dummy
	return out
}

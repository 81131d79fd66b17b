package mbap

import "github.com/gomodbus/core/cursor"

// headerSize is the fixed MBAP header length.
const headerSize = 7

// BuildFrame allocates a single output slice, reserves the 7-byte header,
// writes the PDU, then back-patches the length field at offset 4.
func BuildFrame(txID uint16, unitID byte, pdu []byte) []byte {
	buf := make([]byte, headerSize+len(pdu))
	w := cursor.NewWrite(buf)
	_ = w.WriteU16BE(txID)
	_ = w.WriteU16BE(0) // protocol id is always 0
	_ = w.Skip(2)       // length back-patched below
	_ = w.WriteU8(unitID)
	_ = w.WriteBytes(pdu)
	_ = w.Seek(4)
	_ = w.WriteU16BE(uint16(1 + len(pdu)))
	return buf
}

// Package mbap implements the 7-byte MBAP header framing used to carry
// Modbus PDUs over TCP.
package mbap

// Header is the 7-byte MBAP header preceding every TCP ADU.
type Header struct {
	TxID       uint16
	ProtocolID uint16
	Length     uint16 // unit id byte + PDU bytes that follow
	UnitID     byte
}

// Frame is a parsed MBAP ADU. PDU aliases the parser's read buffer and is
// only valid until the next call to Parser.Parse.
type Frame struct {
	Header Header
	PDU    []byte
}

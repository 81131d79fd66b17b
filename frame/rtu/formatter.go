package rtu

// BuildFrame assembles an RTU ADU: unit id, PDU, then the CRC-16 of both.
func BuildFrame(unitID byte, pdu []byte) []byte {
	buf := make([]byte, 0, 1+len(pdu)+2)
	buf = append(buf, unitID)
	buf = append(buf, pdu...)
	return appendCRC(buf)
}

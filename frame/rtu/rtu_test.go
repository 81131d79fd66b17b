package rtu

import (
	"testing"

	"github.com/gomodbus/core/common"
	"github.com/gomodbus/core/pdu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFrame_AppendsCRC(t *testing.T) {
	pduBytes := []byte{byte(pdu.ReadCoils), 0x00, 0x00, 0x00, 0x01}
	frame := BuildFrame(0x11, pduBytes)
	assert.Equal(t, byte(0x11), frame[0])
	assert.Equal(t, pduBytes, frame[1:len(frame)-crcSize])
	require.NoError(t, checkCRC(frame))
}

func TestRequestParser_FixedLengthFunction(t *testing.T) {
	raw := BuildFrame(0x01, []byte{byte(pdu.ReadHoldingRegisters), 0x00, 0x00, 0x00, 0x02})

	p := NewRequestParser()
	frame, n, err := p.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, len(raw), n)
	assert.Equal(t, byte(0x01), frame.UnitID)
}

func TestRequestParser_VariableLengthFunction(t *testing.T) {
	pduBytes := []byte{byte(pdu.WriteMultipleCoils), 0x00, 0x00, 0x00, 0x03, 0x01, 0x05}
	raw := BuildFrame(0x02, pduBytes)

	p := NewRequestParser()
	frame, n, err := p.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, len(raw), n)
	assert.Equal(t, pduBytes, frame.PDU)
}

func TestRequestParser_NeedMoreBeforeByteCountKnown(t *testing.T) {
	pduBytes := []byte{byte(pdu.WriteMultipleRegisters), 0x00, 0x00, 0x00, 0x01, 0x02, 0x00, 0x07}
	raw := BuildFrame(0x02, pduBytes)

	p := NewRequestParser()
	_, _, err := p.Parse(raw[:6])
	assert.ErrorIs(t, err, ErrNeedMore)
}

func TestRequestParser_CRCMismatch(t *testing.T) {
	raw := BuildFrame(0x01, []byte{byte(pdu.ReadCoils), 0x00, 0x00, 0x00, 0x01})
	raw[len(raw)-1] ^= 0xFF

	p := NewRequestParser()
	_, _, err := p.Parse(raw)
	fe, ok := common.AsFrameError(err)
	require.True(t, ok)
	assert.Equal(t, common.CrcMismatch, fe.Kind)
}

func TestResponseParser_ByteCountPrefixed(t *testing.T) {
	pduBytes := []byte{byte(pdu.ReadHoldingRegisters), 0x02, 0x00, 0x07}
	raw := BuildFrame(0x01, pduBytes)

	p := NewResponseParser()
	frame, n, err := p.Parse(raw, pdu.ReadHoldingRegisters)
	require.NoError(t, err)
	assert.Equal(t, len(raw), n)
	assert.Equal(t, pduBytes, frame.PDU)
}

func TestResponseParser_Exception(t *testing.T) {
	pduBytes := []byte{byte(pdu.ReadHoldingRegisters.AsException()), pdu.IllegalDataAddress}
	raw := BuildFrame(0x01, pduBytes)

	p := NewResponseParser()
	frame, n, err := p.Parse(raw, pdu.ReadHoldingRegisters)
	require.NoError(t, err)
	assert.Equal(t, len(raw), n)
	assert.Equal(t, pduBytes, frame.PDU)
}

func TestResponseParser_EchoFixedLength(t *testing.T) {
	pduBytes := []byte{byte(pdu.WriteSingleCoil), 0x00, 0x02, 0xFF, 0x00}
	raw := BuildFrame(0x01, pduBytes)

	p := NewResponseParser()
	frame, n, err := p.Parse(raw, pdu.WriteSingleCoil)
	require.NoError(t, err)
	assert.Equal(t, len(raw), n)
	assert.Equal(t, pduBytes, frame.PDU)
}

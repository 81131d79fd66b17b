package mbap

import (
	"testing"

	"github.com/gomodbus/core/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFrame_HeaderBytes(t *testing.T) {
	pdu := []byte{0x01, 0x00, 0x00, 0x00, 0x01}
	raw := BuildFrame(0x1234, 0x11, pdu)
	assert.Equal(t, []byte{0x12, 0x34, 0x00, 0x00, 0x00, 0x06, 0x11}, raw[:headerSize])
	assert.Equal(t, pdu, raw[headerSize:])
}

func TestParser_RoundTrip(t *testing.T) {
	pdu := []byte{0x03, 0x02, 0x00, 0x01}
	raw := BuildFrame(0x0007, 0x01, pdu)

	p := NewParser()
	frame, n, err := p.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, len(raw), n)
	assert.Equal(t, uint16(0x0007), frame.Header.TxID)
	assert.Equal(t, byte(0x01), frame.Header.UnitID)
	assert.Equal(t, pdu, frame.PDU)
}

func TestParser_NeedMoreOnShortHeader(t *testing.T) {
	p := NewParser()
	_, _, err := p.Parse([]byte{0x00, 0x01, 0x00, 0x00})
	assert.ErrorIs(t, err, ErrNeedMore)
}

func TestParser_NeedMoreOnShortBody(t *testing.T) {
	pdu := []byte{0x03, 0x02, 0x00, 0x01}
	raw := BuildFrame(0x0007, 0x01, pdu)

	p := NewParser()
	_, _, err := p.Parse(raw[:len(raw)-1])
	assert.ErrorIs(t, err, ErrNeedMore)
}

func TestParser_UnknownProtocolId(t *testing.T) {
	raw := BuildFrame(0x0001, 0x01, []byte{0x01, 0x00, 0x00, 0x00, 0x01})
	raw[2] = 0x00
	raw[3] = 0x01 // non-zero protocol id

	p := NewParser()
	_, _, err := p.Parse(raw)
	fe, ok := common.AsFrameError(err)
	require.True(t, ok)
	assert.Equal(t, common.UnknownProtocolId, fe.Kind)
}

func TestParser_LengthOutOfRange(t *testing.T) {
	raw := BuildFrame(0x0001, 0x01, []byte{0x01, 0x00, 0x00, 0x00, 0x01})
	raw[4] = 0x00
	raw[5] = 0x00 // length 0 is below the minimum of 2

	p := NewParser()
	_, _, err := p.Parse(raw)
	fe, ok := common.AsFrameError(err)
	require.True(t, ok)
	assert.Equal(t, common.FrameLengthOutOfRange, fe.Kind)
}

func TestParser_ConsumesOnlyOneFrame(t *testing.T) {
	pdu := []byte{0x01, 0x00, 0x00, 0x00, 0x01}
	first := BuildFrame(0x0001, 0x01, pdu)
	second := BuildFrame(0x0002, 0x01, pdu)
	both := append(append([]byte{}, first...), second...)

	p := NewParser()
	frame, n, err := p.Parse(both)
	require.NoError(t, err)
	assert.Equal(t, len(first), n)
	assert.Equal(t, uint16(0x0001), frame.Header.TxID)
}

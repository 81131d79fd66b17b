package ascii

import (
	"testing"

	"github.com/gomodbus/core/common"
	"github.com/gomodbus/core/pdu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFrame_ColonAndCRLFEnvelope(t *testing.T) {
	pduBytes := []byte{byte(pdu.ReadCoils), 0x00, 0x00, 0x00, 0x10}
	raw := BuildFrame(0x01, pduBytes)
	assert.Equal(t, byte(':'), raw[0])
	assert.Equal(t, byte('\r'), raw[len(raw)-2])
	assert.Equal(t, byte('\n'), raw[len(raw)-1])
}

func TestParser_RoundTrip(t *testing.T) {
	pduBytes := []byte{byte(pdu.ReadHoldingRegisters), 0x02, 0x00, 0x07}
	raw := BuildFrame(0x11, pduBytes)

	p := NewParser()
	frame, n, err := p.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, len(raw), n)
	assert.Equal(t, byte(0x11), frame.UnitID)
	assert.Equal(t, pduBytes, frame.PDU)
}

func TestParser_NeedMoreWithoutTerminator(t *testing.T) {
	raw := BuildFrame(0x11, []byte{byte(pdu.ReadCoils), 0x00, 0x00, 0x00, 0x01})
	p := NewParser()
	_, _, err := p.Parse(raw[:len(raw)-2])
	assert.ErrorIs(t, err, ErrNeedMore)
}

func TestParser_NeedMoreWithoutStartChar(t *testing.T) {
	p := NewParser()
	_, _, err := p.Parse([]byte("nope\r\n"))
	assert.ErrorIs(t, err, ErrNeedMore)
}

func TestParser_LRCMismatch(t *testing.T) {
	raw := BuildFrame(0x11, []byte{byte(pdu.ReadCoils), 0x00, 0x00, 0x00, 0x01})
	// flip a hex nibble in the payload without touching the checksum
	raw[3] ^= 0x01

	p := NewParser()
	_, _, err := p.Parse(raw)
	fe, ok := common.AsFrameError(err)
	require.True(t, ok)
	assert.Equal(t, common.LrcMismatch, fe.Kind)
}

func TestParser_ConsumesOnlyOneFrame(t *testing.T) {
	pduBytes := []byte{byte(pdu.ReadCoils), 0x00, 0x00, 0x00, 0x01}
	first := BuildFrame(0x01, pduBytes)
	second := BuildFrame(0x02, pduBytes)
	both := append(append([]byte{}, first...), second...)

	p := NewParser()
	frame, n, err := p.Parse(both)
	require.NoError(t, err)
	assert.Equal(t, len(first), n)
	assert.Equal(t, byte(0x01), frame.UnitID)
}

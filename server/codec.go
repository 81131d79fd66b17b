package server

import (
	"github.com/gomodbus/core/frame/ascii"
	"github.com/gomodbus/core/frame/mbap"
	"github.com/gomodbus/core/frame/rtu"
)

// serverCodec recognizes request frames and builds response frames for one
// wire format. txID is meaningful only for TCP (MBAP echoes it back); RTU
// and ASCII ignore it.
type serverCodec interface {
	Decode(data []byte) (txID uint16, unitID byte, pduBytes []byte, consumed int, needMore bool, err error)
	Encode(txID uint16, unitID byte, pduBytes []byte) []byte
	// IsBroadcast reports whether unitID designates a broadcast request
	// that must never receive a response on this wire format.
	IsBroadcast(unitID byte) bool
}

type tcpServerCodec struct{}

func (tcpServerCodec) Decode(data []byte) (uint16, byte, []byte, int, bool, error) {
	frame, n, err := mbap.NewParser().Parse(data)
	if err == mbap.ErrNeedMore {
		return 0, 0, nil, 0, true, nil
	}
	if err != nil {
		return 0, 0, nil, 0, false, err
	}
	return frame.Header.TxID, frame.Header.UnitID, frame.PDU, n, false, nil
}

func (tcpServerCodec) Encode(txID uint16, unitID byte, pduBytes []byte) []byte {
	return mbap.BuildFrame(txID, unitID, pduBytes)
}

func (tcpServerCodec) IsBroadcast(unitID byte) bool { return false }

type rtuServerCodec struct{}

func (rtuServerCodec) Decode(data []byte) (uint16, byte, []byte, int, bool, error) {
	frame, n, err := rtu.NewRequestParser().Parse(data)
	if err == rtu.ErrNeedMore {
		return 0, 0, nil, 0, true, nil
	}
	if err != nil {
		return 0, 0, nil, 0, false, err
	}
	return 0, frame.UnitID, frame.PDU, n, false, nil
}

func (rtuServerCodec) Encode(txID uint16, unitID byte, pduBytes []byte) []byte {
	return rtu.BuildFrame(unitID, pduBytes)
}

func (rtuServerCodec) IsBroadcast(unitID byte) bool { return unitID == rtu.Broadcast }

type asciiServerCodec struct{}

func (asciiServerCodec) Decode(data []byte) (uint16, byte, []byte, int, bool, error) {
	frame, n, err := ascii.NewParser().Parse(data)
	if err == ascii.ErrNeedMore {
		return 0, 0, nil, 0, true, nil
	}
	if err != nil {
		return 0, 0, nil, 0, false, err
	}
	return 0, frame.UnitID, frame.PDU, n, false, nil
}

func (asciiServerCodec) Encode(txID uint16, unitID byte, pduBytes []byte) []byte {
	return ascii.BuildFrame(unitID, pduBytes)
}

func (asciiServerCodec) IsBroadcast(unitID byte) bool { return false }

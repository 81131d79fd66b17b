package client

import (
	"github.com/gomodbus/core/common"
	"github.com/gomodbus/core/frame/ascii"
	"github.com/gomodbus/core/frame/mbap"
	"github.com/gomodbus/core/frame/rtu"
	"github.com/gomodbus/core/pdu"
)

// wireCodec frames a request for one of the three wire formats and decodes
// a response out of the channel's growing read buffer. Encode/Decode are
// stateless; the channel task owns the per-connection tx id counter and
// buffer.
type wireCodec interface {
	Encode(txID uint16, unitID byte, req pdu.Request) ([]byte, error)
	// Decode attempts to parse one response frame out of data. needMore is
	// true when data does not yet hold a complete frame; err is non-nil and
	// fatal (a *common.FrameError) when the connection should be torn down.
	Decode(data []byte, txID uint16, unitID byte, req pdu.Request) (resp pdu.Response, consumed int, needMore bool, err error)
}

// parseResponseFatal parses a response PDU against req, promoting a
// BadResponseFunction mismatch (the response answers a different function
// than was asked) into a fatal, connection-tearing-down error: once the
// transaction id already matched, a wrong function code means the two
// ends have lost lockstep and the connection can no longer be trusted.
func parseResponseFatal(pduBytes []byte, req pdu.Request) (pdu.Response, error) {
	resp, err := pdu.ParseResponse(pduBytes, req)
	if re, ok := common.AsRequestError(err); ok && re.Kind == common.BadResponseFunction {
		return resp, common.NewFatalResponseError(common.BadResponseFunction)
	}
	return resp, err
}

// tcpCodec frames requests with the 7-byte MBAP header and correlates
// responses by transaction id.
type tcpCodec struct{}

func (tcpCodec) Encode(txID uint16, unitID byte, req pdu.Request) ([]byte, error) {
	body, err := pdu.SerializeRequest(req)
	if err != nil {
		return nil, err
	}
	return mbap.BuildFrame(txID, unitID, body), nil
}

func (tcpCodec) Decode(data []byte, txID uint16, unitID byte, req pdu.Request) (pdu.Response, int, bool, error) {
	frame, n, err := mbap.NewParser().Parse(data)
	if err == mbap.ErrNeedMore {
		return nil, 0, true, nil
	}
	if err != nil {
		return nil, 0, false, err
	}
	if frame.Header.TxID != txID {
		return nil, n, false, common.NewRequestError(common.BadResponseTxId)
	}
	if frame.Header.UnitID != unitID {
		return nil, n, false, common.NewFatalResponseError(common.BadResponseUnitId)
	}
	resp, perr := parseResponseFatal(frame.PDU, req)
	return resp, n, false, perr
}

// rtuCodec frames requests with a unit id and CRC-16, relying on a single
// in-flight request to correlate a response with no explicit id.
type rtuCodec struct{}

func (rtuCodec) Encode(txID uint16, unitID byte, req pdu.Request) ([]byte, error) {
	body, err := pdu.SerializeRequest(req)
	if err != nil {
		return nil, err
	}
	return rtu.BuildFrame(unitID, body), nil
}

func (rtuCodec) Decode(data []byte, txID uint16, unitID byte, req pdu.Request) (pdu.Response, int, bool, error) {
	frame, n, err := rtu.NewResponseParser().Parse(data, req.FunctionCode())
	if err == rtu.ErrNeedMore {
		return nil, 0, true, nil
	}
	if err != nil {
		return nil, 0, false, err
	}
	if frame.UnitID != unitID {
		if unitID == rtu.Broadcast {
			return nil, n, false, common.NewFrameError(common.UnexpectedBroadcastResponse)
		}
		return nil, n, false, common.NewFatalResponseError(common.BadResponseUnitId)
	}
	resp, perr := parseResponseFatal(frame.PDU, req)
	return resp, n, false, perr
}

// asciiCodec frames requests as ':'-prefixed hex text terminated by CRLF,
// checksummed with an LRC.
type asciiCodec struct{}

func (asciiCodec) Encode(txID uint16, unitID byte, req pdu.Request) ([]byte, error) {
	body, err := pdu.SerializeRequest(req)
	if err != nil {
		return nil, err
	}
	return ascii.BuildFrame(unitID, body), nil
}

func (asciiCodec) Decode(data []byte, txID uint16, unitID byte, req pdu.Request) (pdu.Response, int, bool, error) {
	frame, n, err := ascii.NewParser().Parse(data)
	if err == ascii.ErrNeedMore {
		return nil, 0, true, nil
	}
	if err != nil {
		return nil, 0, false, err
	}
	if frame.UnitID != unitID {
		return nil, n, false, common.NewFatalResponseError(common.BadResponseUnitId)
	}
	resp, perr := parseResponseFatal(frame.PDU, req)
	return resp, n, false, perr
}

package rtu

import (
	"errors"

	"github.com/gomodbus/core/common"
	"github.com/gomodbus/core/pdu"
)

// ErrNeedMore is returned when the buffered data does not yet contain a
// complete frame.
var ErrNeedMore = errors.New("rtu: need more data")

const crcSize = 2
const addressAndFunctionSize = 2

// RequestParser recognizes RTU request ADUs (server side): the function
// code together with a possible byte-count byte determines the frame
// length, mirroring the server transport's read-ahead logic.
type RequestParser struct{}

// NewRequestParser constructs an RTU request frame parser.
func NewRequestParser() *RequestParser { return &RequestParser{} }

// Parse returns a complete request frame and the bytes it consumed, or
// ErrNeedMore if data is not yet a full frame.
func (p *RequestParser) Parse(data []byte) (*Frame, int, error) {
	if len(data) < addressAndFunctionSize {
		return nil, 0, ErrNeedMore
	}
	function := pdu.FunctionCode(data[1])

	total, err := requestFrameLength(function, data)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return nil, 0, ErrNeedMore
	}
	if len(data) < total {
		return nil, 0, ErrNeedMore
	}
	if err := checkCRC(data[:total]); err != nil {
		return nil, 0, err
	}
	return &Frame{UnitID: data[0], PDU: data[1 : total-crcSize]}, total, nil
}

// requestFrameLength returns the total frame length (including address and
// CRC) once enough bytes are available to know it, or 0 if more bytes are
// needed before the length can be determined.
func requestFrameLength(function pdu.FunctionCode, data []byte) (int, error) {
	switch function {
	case pdu.ReadCoils, pdu.ReadDiscreteInputs, pdu.ReadHoldingRegisters, pdu.ReadInputRegisters,
		pdu.WriteSingleCoil, pdu.WriteSingleRegister:
		return 1 + 1 + 4 + crcSize, nil
	case pdu.WriteMultipleCoils, pdu.WriteMultipleRegisters:
		const headerLen = 1 + 1 + 4 + 1 // unit, func, addr, qty, byte count
		if len(data) < headerLen {
			return 0, nil
		}
		byteCount := int(data[headerLen-1])
		return headerLen + byteCount + crcSize, nil
	default:
		return 0, common.NewFrameError(common.FrameLengthOutOfRange)
	}
}

// ResponseParser recognizes RTU response ADUs (client side): the frame
// length follows from the response's own function code and, for reads, its
// byte-count byte.
type ResponseParser struct{}

// NewResponseParser constructs an RTU response frame parser.
func NewResponseParser() *ResponseParser { return &ResponseParser{} }

// Parse returns a complete response frame, or ErrNeedMore if data is not yet
// a full frame. expected is not used for framing and is not compared with
// the response's function code; the caller checks that.
func (p *ResponseParser) Parse(data []byte, expected pdu.FunctionCode) (*Frame, int, error) {
	if len(data) < addressAndFunctionSize {
		return nil, 0, ErrNeedMore
	}
	function := pdu.FunctionCode(data[1])

	var total int
	switch {
	case function.IsException():
		total = 1 + 1 + 1 + crcSize
	case function == pdu.ReadCoils, function == pdu.ReadDiscreteInputs,
		function == pdu.ReadHoldingRegisters, function == pdu.ReadInputRegisters:
		const headerLen = 1 + 1 + 1 // unit, func, byte count
		if len(data) < headerLen {
			return nil, 0, ErrNeedMore
		}
		total = headerLen + int(data[headerLen-1]) + crcSize
	case function == pdu.WriteSingleCoil, function == pdu.WriteSingleRegister,
		function == pdu.WriteMultipleCoils, function == pdu.WriteMultipleRegisters:
		total = 1 + 1 + 4 + crcSize
	default:
		return nil, 0, common.NewFrameError(common.FrameLengthOutOfRange)
	}
	_ = expected // framing only depends on the wire function code; caller cross-checks expected vs. actual
	if len(data) < total {
		return nil, 0, ErrNeedMore
	}
	if err := checkCRC(data[:total]); err != nil {
		return nil, 0, err
	}
	return &Frame{UnitID: data[0], PDU: data[1 : total-crcSize]}, total, nil
}

func checkCRC(frame []byte) error {
	body := frame[:len(frame)-crcSize]
	want := crc16(body)
	got := uint16(frame[len(frame)-2]) | uint16(frame[len(frame)-1])<<8
	if want != got {
		return common.NewFrameError(common.CrcMismatch)
	}
	return nil
}

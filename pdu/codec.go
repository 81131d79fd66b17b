package pdu

import (
	"errors"

	"github.com/gomodbus/core/common"
	"github.com/gomodbus/core/cursor"
)

// ErrUnsupportedFunction is returned by ParseRequest when the function code
// is not one of the eight supported operations; the server replies with an
// IllegalFunction exception in this case.
var ErrUnsupportedFunction = errors.New("unsupported function code")

// maxPDUSize bounds the scratch buffer used for serialization; the largest
// PDU is a WriteMultipleRegisters request with 123 registers (1 + 4 + 1 +
// 246 bytes).
const maxPDUSize = 256

// SerializeRequest encodes a request body with its leading function code
// byte into a freshly allocated slice.
func SerializeRequest(req Request) ([]byte, error) {
	buf := make([]byte, maxPDUSize)
	w := cursor.NewWrite(buf)
	if err := w.WriteU8(byte(req.FunctionCode())); err != nil {
		return nil, err
	}
	if err := req.Serialize(w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// SerializeResponse encodes a response body with its leading function code
// byte into a freshly allocated slice.
func SerializeResponse(resp Response) ([]byte, error) {
	buf := make([]byte, maxPDUSize)
	w := cursor.NewWrite(buf)
	if err := w.WriteU8(byte(resp.FunctionCode())); err != nil {
		return nil, err
	}
	if err := resp.Serialize(w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// ParseRequest decodes a PDU (function code byte plus body) into a typed
// Request. Unused trailing bytes are a TrailingBytes error; a declared byte
// count that disagrees with the actual payload is a ByteCountMismatch.
func ParseRequest(data []byte) (Request, error) {
	r := cursor.NewRead(data)
	fcByte, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	fc := FunctionCode(fcByte)
	switch fc {
	case ReadCoils:
		rng, err := readRangeChecked(r, NewReadBitsRange)
		if err != nil {
			return nil, err
		}
		return &ReadCoilsRequest{Range: rng}, finishRequest(r)
	case ReadDiscreteInputs:
		rng, err := readRangeChecked(r, NewReadBitsRange)
		if err != nil {
			return nil, err
		}
		return &ReadDiscreteInputsRequest{Range: rng}, finishRequest(r)
	case ReadHoldingRegisters:
		rng, err := readRangeChecked(r, NewReadRegistersRange)
		if err != nil {
			return nil, err
		}
		return &ReadHoldingRegistersRequest{Range: rng}, finishRequest(r)
	case ReadInputRegisters:
		rng, err := readRangeChecked(r, NewReadRegistersRange)
		if err != nil {
			return nil, err
		}
		return &ReadInputRegistersRequest{Range: rng}, finishRequest(r)
	case WriteSingleCoil:
		idx, err := r.ReadU16BE()
		if err != nil {
			return nil, err
		}
		wire, err := r.ReadU16BE()
		if err != nil {
			return nil, err
		}
		state, err := ParseCoilState(wire)
		if err != nil {
			return nil, err
		}
		return &WriteSingleCoilRequest{Point: Indexed[CoilState]{Index: idx, Value: state}}, finishRequest(r)
	case WriteSingleRegister:
		idx, err := r.ReadU16BE()
		if err != nil {
			return nil, err
		}
		val, err := r.ReadU16BE()
		if err != nil {
			return nil, err
		}
		return &WriteSingleRegisterRequest{Point: Indexed[uint16]{Index: idx, Value: val}}, finishRequest(r)
	case WriteMultipleCoils:
		start, err := r.ReadU16BE()
		if err != nil {
			return nil, err
		}
		count, err := r.ReadU16BE()
		if err != nil {
			return nil, err
		}
		byteCount, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		if int(byteCount) != numBytesForBits(count) {
			return nil, common.NewRequestError(common.ByteCountMismatch)
		}
		payload, err := r.ReadBytes(int(byteCount))
		if err != nil {
			return nil, err
		}
		rng, err := NewWriteBitsRange(start, count)
		if err != nil {
			return nil, err
		}
		values := unpackBits(payload, count)
		return &WriteMultipleCoilsRequest{Range: rng, Values: values}, finishRequest(r)
	case WriteMultipleRegisters:
		start, err := r.ReadU16BE()
		if err != nil {
			return nil, err
		}
		count, err := r.ReadU16BE()
		if err != nil {
			return nil, err
		}
		byteCount, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		if int(byteCount) != 2*int(count) {
			return nil, common.NewRequestError(common.ByteCountMismatch)
		}
		payload, err := r.ReadBytes(int(byteCount))
		if err != nil {
			return nil, err
		}
		rng, err := NewWriteRegistersRange(start, count)
		if err != nil {
			return nil, err
		}
		return &WriteMultipleRegistersRequest{Range: rng, Values: unpackRegisters(payload, count)}, finishRequest(r)
	default:
		return nil, ErrUnsupportedFunction
	}
}

func readRangeChecked(r *cursor.Read, validate func(start, count uint16) (AddressRange, error)) (AddressRange, error) {
	start, err := r.ReadU16BE()
	if err != nil {
		return AddressRange{}, err
	}
	count, err := r.ReadU16BE()
	if err != nil {
		return AddressRange{}, err
	}
	return validate(start, count)
}

func finishRequest(r *cursor.Read) error {
	if r.Remaining() != 0 {
		return common.NewRequestError(common.TrailingBytes)
	}
	return nil
}

func unpackBits(payload []byte, count uint16) []bool {
	out := make([]bool, count)
	for i := range out {
		byteIdx := i / 8
		if byteIdx < len(payload) {
			out[i] = payload[byteIdx]&(1<<uint(i%8)) != 0
		}
	}
	return out
}

func unpackRegisters(payload []byte, count uint16) []uint16 {
	out := make([]uint16, count)
	for i := range out {
		off := i * 2
		if off+1 < len(payload) {
			out[i] = uint16(payload[off])<<8 | uint16(payload[off+1])
		}
	}
	return out
}

// ParseResponse decodes a response PDU matching it against the request that
// produced it. The request supplies the expected function code and, for
// reads, the element count needed to size the lazy iterator.
func ParseResponse(data []byte, request Request) (Response, error) {
	r := cursor.NewRead(data)
	fcByte, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	fc := FunctionCode(fcByte)
	expected := request.FunctionCode()

	if fc == expected.AsException() {
		code, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		if err := finishRequest(r); err != nil {
			return nil, err
		}
		return nil, &common.ExceptionError{Code: code}
	}
	if fc != expected {
		return nil, common.NewRequestError(common.BadResponseFunction)
	}

	switch expected {
	case ReadCoils:
		req := request.(*ReadCoilsRequest)
		payload, err := readBitPayload(r)
		if err != nil {
			return nil, err
		}
		return newReadBitsResponseFromWire(req.Range.Start, req.Range.Count, payload), finishRequest(r)
	case ReadDiscreteInputs:
		req := request.(*ReadDiscreteInputsRequest)
		payload, err := readBitPayload(r)
		if err != nil {
			return nil, err
		}
		return newReadDiscreteInputsResponseFromWire(req.Range.Start, req.Range.Count, payload), finishRequest(r)
	case ReadHoldingRegisters:
		req := request.(*ReadHoldingRegistersRequest)
		payload, err := readRegisterPayload(r)
		if err != nil {
			return nil, err
		}
		return newReadHoldingRegistersResponseFromWire(req.Range.Start, req.Range.Count, payload), finishRequest(r)
	case ReadInputRegisters:
		req := request.(*ReadInputRegistersRequest)
		payload, err := readRegisterPayload(r)
		if err != nil {
			return nil, err
		}
		return newReadInputRegistersResponseFromWire(req.Range.Start, req.Range.Count, payload), finishRequest(r)
	case WriteSingleCoil:
		idx, err := r.ReadU16BE()
		if err != nil {
			return nil, err
		}
		wire, err := r.ReadU16BE()
		if err != nil {
			return nil, err
		}
		state, err := ParseCoilState(wire)
		if err != nil {
			return nil, err
		}
		return &WriteSingleCoilResponse{Point: Indexed[CoilState]{Index: idx, Value: state}}, finishRequest(r)
	case WriteSingleRegister:
		idx, err := r.ReadU16BE()
		if err != nil {
			return nil, err
		}
		val, err := r.ReadU16BE()
		if err != nil {
			return nil, err
		}
		return &WriteSingleRegisterResponse{Point: Indexed[uint16]{Index: idx, Value: val}}, finishRequest(r)
	case WriteMultipleCoils:
		rng, err := readRangeEcho(r)
		if err != nil {
			return nil, err
		}
		return &WriteMultipleCoilsResponse{Range: rng}, finishRequest(r)
	case WriteMultipleRegisters:
		rng, err := readRangeEcho(r)
		if err != nil {
			return nil, err
		}
		return &WriteMultipleRegistersResponse{Range: rng}, finishRequest(r)
	default:
		return nil, ErrUnsupportedFunction
	}
}

func readRangeEcho(r *cursor.Read) (AddressRange, error) {
	start, err := r.ReadU16BE()
	if err != nil {
		return AddressRange{}, err
	}
	count, err := r.ReadU16BE()
	if err != nil {
		return AddressRange{}, err
	}
	return AddressRange{Start: start, Count: count}, nil
}

func readBitPayload(r *cursor.Read) ([]byte, error) {
	byteCount, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	return r.ReadBytes(int(byteCount))
}

func readRegisterPayload(r *cursor.Read) ([]byte, error) {
	byteCount, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	if byteCount%2 != 0 {
		return nil, common.NewRequestError(common.ByteCountMismatch)
	}
	return r.ReadBytes(int(byteCount))
}

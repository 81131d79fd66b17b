package pdu

import "github.com/gomodbus/core/cursor"

// Response is implemented by every function-code-specific response body,
// including the exception response.
type Response interface {
	FunctionCode() FunctionCode
	Serialize(w *cursor.Write) error
}

// ReadCoilsResponse carries a packed-bit payload over which Iterator lazily
// yields Indexed[bool].
type ReadCoilsResponse struct {
	start   uint16
	count   uint16
	payload []byte
}

func NewReadCoilsResponse(start uint16, values []bool) *ReadCoilsResponse {
	return &ReadCoilsResponse{start: start, count: uint16(len(values)), payload: packBits(values)}
}

func newReadBitsResponseFromWire(start, count uint16, payload []byte) *ReadCoilsResponse {
	return &ReadCoilsResponse{start: start, count: count, payload: payload}
}

func (r *ReadCoilsResponse) FunctionCode() FunctionCode { return ReadCoils }
func (r *ReadCoilsResponse) Iterator() BitIterator       { return newBitIterator(r.payload, r.start, r.count) }
func (r *ReadCoilsResponse) Count() uint16               { return r.count }
func (r *ReadCoilsResponse) Serialize(w *cursor.Write) error {
	return serializeBitPayload(w, r.count, r.payload)
}

// ReadDiscreteInputsResponse mirrors ReadCoilsResponse for the read-only
// discrete input table.
type ReadDiscreteInputsResponse struct {
	start   uint16
	count   uint16
	payload []byte
}

func NewReadDiscreteInputsResponse(start uint16, values []bool) *ReadDiscreteInputsResponse {
	return &ReadDiscreteInputsResponse{start: start, count: uint16(len(values)), payload: packBits(values)}
}

func newReadDiscreteInputsResponseFromWire(start, count uint16, payload []byte) *ReadDiscreteInputsResponse {
	return &ReadDiscreteInputsResponse{start: start, count: count, payload: payload}
}

func (r *ReadDiscreteInputsResponse) FunctionCode() FunctionCode { return ReadDiscreteInputs }
func (r *ReadDiscreteInputsResponse) Iterator() BitIterator {
	return newBitIterator(r.payload, r.start, r.count)
}
func (r *ReadDiscreteInputsResponse) Count() uint16 { return r.count }
func (r *ReadDiscreteInputsResponse) Serialize(w *cursor.Write) error {
	return serializeBitPayload(w, r.count, r.payload)
}

func serializeBitPayload(w *cursor.Write, count uint16, payload []byte) error {
	byteCount := numBytesForBits(count)
	if err := w.WriteU8(byte(byteCount)); err != nil {
		return err
	}
	return w.WriteBytes(payload[:byteCount])
}

// ReadHoldingRegistersResponse carries a register payload over which
// Iterator lazily yields Indexed[uint16].
type ReadHoldingRegistersResponse struct {
	start   uint16
	count   uint16
	payload []byte
}

func NewReadHoldingRegistersResponse(start uint16, values []uint16) *ReadHoldingRegistersResponse {
	return &ReadHoldingRegistersResponse{start: start, count: uint16(len(values)), payload: packRegisters(values)}
}

func newReadHoldingRegistersResponseFromWire(start, count uint16, payload []byte) *ReadHoldingRegistersResponse {
	return &ReadHoldingRegistersResponse{start: start, count: count, payload: payload}
}

func (r *ReadHoldingRegistersResponse) FunctionCode() FunctionCode { return ReadHoldingRegisters }
func (r *ReadHoldingRegistersResponse) Iterator() RegisterIterator {
	return newRegisterIterator(r.payload, r.start, r.count)
}
func (r *ReadHoldingRegistersResponse) Count() uint16 { return r.count }
func (r *ReadHoldingRegistersResponse) Serialize(w *cursor.Write) error {
	return serializeRegisterPayload(w, r.count, r.payload)
}

// ReadInputRegistersResponse mirrors ReadHoldingRegistersResponse for the
// read-only input register table.
type ReadInputRegistersResponse struct {
	start   uint16
	count   uint16
	payload []byte
}

func NewReadInputRegistersResponse(start uint16, values []uint16) *ReadInputRegistersResponse {
	return &ReadInputRegistersResponse{start: start, count: uint16(len(values)), payload: packRegisters(values)}
}

func newReadInputRegistersResponseFromWire(start, count uint16, payload []byte) *ReadInputRegistersResponse {
	return &ReadInputRegistersResponse{start: start, count: count, payload: payload}
}

func (r *ReadInputRegistersResponse) FunctionCode() FunctionCode { return ReadInputRegisters }
func (r *ReadInputRegistersResponse) Iterator() RegisterIterator {
	return newRegisterIterator(r.payload, r.start, r.count)
}
func (r *ReadInputRegistersResponse) Count() uint16 { return r.count }
func (r *ReadInputRegistersResponse) Serialize(w *cursor.Write) error {
	return serializeRegisterPayload(w, r.count, r.payload)
}

func serializeRegisterPayload(w *cursor.Write, count uint16, payload []byte) error {
	byteCount := 2 * int(count)
	if err := w.WriteU8(byte(byteCount)); err != nil {
		return err
	}
	return w.WriteBytes(payload[:byteCount])
}

func packRegisters(values []uint16) []byte {
	out := make([]byte, 2*len(values))
	for i, v := range values {
		out[2*i] = byte(v >> 8)
		out[2*i+1] = byte(v)
	}
	return out
}

// WriteSingleCoilResponse echoes the request's address and value.
type WriteSingleCoilResponse struct{ Point Indexed[CoilState] }

func NewWriteSingleCoilResponse(index uint16, value CoilState) *WriteSingleCoilResponse {
	return &WriteSingleCoilResponse{Point: Indexed[CoilState]{Index: index, Value: value}}
}
func (r *WriteSingleCoilResponse) FunctionCode() FunctionCode { return WriteSingleCoil }
func (r *WriteSingleCoilResponse) Serialize(w *cursor.Write) error {
	if err := w.WriteU16BE(r.Point.Index); err != nil {
		return err
	}
	return w.WriteU16BE(r.Point.Value.Wire())
}

// WriteSingleRegisterResponse echoes the request's address and value.
type WriteSingleRegisterResponse struct{ Point Indexed[uint16] }

func NewWriteSingleRegisterResponse(index, value uint16) *WriteSingleRegisterResponse {
	return &WriteSingleRegisterResponse{Point: Indexed[uint16]{Index: index, Value: value}}
}
func (r *WriteSingleRegisterResponse) FunctionCode() FunctionCode { return WriteSingleRegister }
func (r *WriteSingleRegisterResponse) Serialize(w *cursor.Write) error {
	if err := w.WriteU16BE(r.Point.Index); err != nil {
		return err
	}
	return w.WriteU16BE(r.Point.Value)
}

// WriteMultipleCoilsResponse echoes the request's range.
type WriteMultipleCoilsResponse struct{ Range AddressRange }

func NewWriteMultipleCoilsResponse(r AddressRange) *WriteMultipleCoilsResponse {
	return &WriteMultipleCoilsResponse{Range: r}
}
func (r *WriteMultipleCoilsResponse) FunctionCode() FunctionCode { return WriteMultipleCoils }
func (r *WriteMultipleCoilsResponse) Serialize(w *cursor.Write) error {
	return writeRange(w, r.Range)
}

// WriteMultipleRegistersResponse echoes the request's range.
type WriteMultipleRegistersResponse struct{ Range AddressRange }

func NewWriteMultipleRegistersResponse(r AddressRange) *WriteMultipleRegistersResponse {
	return &WriteMultipleRegistersResponse{Range: r}
}
func (r *WriteMultipleRegistersResponse) FunctionCode() FunctionCode { return WriteMultipleRegisters }
func (r *WriteMultipleRegistersResponse) Serialize(w *cursor.Write) error {
	return writeRange(w, r.Range)
}

// ExceptionResponse carries the function code of the failed request (with
// the exception bit set) and the exception byte.
type ExceptionResponse struct {
	Function FunctionCode
	Code     byte
}

func NewExceptionResponse(requestFunction FunctionCode, code byte) *ExceptionResponse {
	return &ExceptionResponse{Function: requestFunction.AsException(), Code: code}
}

func (r *ExceptionResponse) FunctionCode() FunctionCode { return r.Function }
func (r *ExceptionResponse) Serialize(w *cursor.Write) error {
	return w.WriteU8(r.Code)
}

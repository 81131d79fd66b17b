package pdu

import "github.com/gomodbus/core/cursor"

// Request is implemented by every function-code-specific request body.
type Request interface {
	FunctionCode() FunctionCode
	Serialize(w *cursor.Write) error
}

type ReadCoilsRequest struct{ Range AddressRange }

func (r *ReadCoilsRequest) FunctionCode() FunctionCode { return ReadCoils }
func (r *ReadCoilsRequest) Serialize(w *cursor.Write) error {
	return writeRange(w, r.Range)
}

type ReadDiscreteInputsRequest struct{ Range AddressRange }

func (r *ReadDiscreteInputsRequest) FunctionCode() FunctionCode { return ReadDiscreteInputs }
func (r *ReadDiscreteInputsRequest) Serialize(w *cursor.Write) error {
	return writeRange(w, r.Range)
}

type ReadHoldingRegistersRequest struct{ Range AddressRange }

func (r *ReadHoldingRegistersRequest) FunctionCode() FunctionCode { return ReadHoldingRegisters }
func (r *ReadHoldingRegistersRequest) Serialize(w *cursor.Write) error {
	return writeRange(w, r.Range)
}

type ReadInputRegistersRequest struct{ Range AddressRange }

func (r *ReadInputRegistersRequest) FunctionCode() FunctionCode { return ReadInputRegisters }
func (r *ReadInputRegistersRequest) Serialize(w *cursor.Write) error {
	return writeRange(w, r.Range)
}

type WriteSingleCoilRequest struct{ Point Indexed[CoilState] }

func (r *WriteSingleCoilRequest) FunctionCode() FunctionCode { return WriteSingleCoil }
func (r *WriteSingleCoilRequest) Serialize(w *cursor.Write) error {
	if err := w.WriteU16BE(r.Point.Index); err != nil {
		return err
	}
	return w.WriteU16BE(r.Point.Value.Wire())
}

type WriteSingleRegisterRequest struct{ Point Indexed[uint16] }

func (r *WriteSingleRegisterRequest) FunctionCode() FunctionCode { return WriteSingleRegister }
func (r *WriteSingleRegisterRequest) Serialize(w *cursor.Write) error {
	if err := w.WriteU16BE(r.Point.Index); err != nil {
		return err
	}
	return w.WriteU16BE(r.Point.Value)
}

type WriteMultipleCoilsRequest struct {
	Range  AddressRange
	Values []bool
}

func (r *WriteMultipleCoilsRequest) FunctionCode() FunctionCode { return WriteMultipleCoils }
func (r *WriteMultipleCoilsRequest) Serialize(w *cursor.Write) error {
	if err := writeRange(w, r.Range); err != nil {
		return err
	}
	byteCount := numBytesForBits(r.Range.Count)
	if err := w.WriteU8(byte(byteCount)); err != nil {
		return err
	}
	return w.WriteBytes(packBits(r.Values))
}

type WriteMultipleRegistersRequest struct {
	Range  AddressRange
	Values []uint16
}

func (r *WriteMultipleRegistersRequest) FunctionCode() FunctionCode { return WriteMultipleRegisters }
func (r *WriteMultipleRegistersRequest) Serialize(w *cursor.Write) error {
	if err := writeRange(w, r.Range); err != nil {
		return err
	}
	byteCount := 2 * len(r.Values)
	if err := w.WriteU8(byte(byteCount)); err != nil {
		return err
	}
	return writeRegisters(w, r.Values)
}

func writeRange(w *cursor.Write, r AddressRange) error {
	if err := w.WriteU16BE(r.Start); err != nil {
		return err
	}
	return w.WriteU16BE(r.Count)
}

func writeRegisters(w *cursor.Write, values []uint16) error {
	for _, v := range values {
		if err := w.WriteU16BE(v); err != nil {
			return err
		}
	}
	return nil
}

func packBits(values []bool) []byte {
	out := make([]byte, numBytesForBits(uint16(len(values))))
	for i, v := range values {
		if v {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out
}

package pdu

// FunctionCode identifies a Modbus request/response operation.
type FunctionCode byte

const (
	ReadCoils              FunctionCode = 0x01
	ReadDiscreteInputs     FunctionCode = 0x02
	ReadHoldingRegisters   FunctionCode = 0x03
	ReadInputRegisters     FunctionCode = 0x04
	WriteSingleCoil        FunctionCode = 0x05
	WriteSingleRegister    FunctionCode = 0x06
	WriteMultipleCoils     FunctionCode = 0x0F
	WriteMultipleRegisters FunctionCode = 0x10
)

// Exception bit, ORed onto a request's function code to mark the response
// as an exception.
const exceptionBit FunctionCode = 0x80

// AsException returns the function code with the exception bit set.
func (f FunctionCode) AsException() FunctionCode {
	return f | exceptionBit
}

// IsException reports whether the high bit is set.
func (f FunctionCode) IsException() bool {
	return f&exceptionBit != 0
}

// Base strips the exception bit, returning the underlying function code.
func (f FunctionCode) Base() FunctionCode {
	return f &^ exceptionBit
}

func (f FunctionCode) String() string {
	switch f.Base() {
	case ReadCoils:
		return "ReadCoils"
	case ReadDiscreteInputs:
		return "ReadDiscreteInputs"
	case ReadHoldingRegisters:
		return "ReadHoldingRegisters"
	case ReadInputRegisters:
		return "ReadInputRegisters"
	case WriteSingleCoil:
		return "WriteSingleCoil"
	case WriteSingleRegister:
		return "WriteSingleRegister"
	case WriteMultipleCoils:
		return "WriteMultipleCoils"
	case WriteMultipleRegisters:
		return "WriteMultipleRegisters"
	default:
		return "Unknown"
	}
}

// Quantity limits from the Modbus application protocol spec, carried as
// named constants rather than inline literals.
const (
	MaxReadCoilsCount      = 2000
	MaxReadRegistersCount  = 125
	MaxWriteCoilsCount     = 1968
	MaxWriteRegistersCount = 123
)

// Coil wire values for WriteSingleCoil.
const (
	CoilOn  uint16 = 0xFF00
	CoilOff uint16 = 0x0000
)

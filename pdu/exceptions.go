package pdu

import (
	"errors"

	"github.com/gomodbus/core/common"
)

// Standard Modbus exception codes.
const (
	IllegalFunction                    byte = 0x01
	IllegalDataAddress                 byte = 0x02
	IllegalDataValue                   byte = 0x03
	ServerDeviceFailure                byte = 0x04
	Acknowledge                        byte = 0x05
	ServerDeviceBusy                   byte = 0x06
	MemoryParityError                  byte = 0x08
	GatewayPathUnavailable             byte = 0x0A
	GatewayTargetDeviceFailedToRespond byte = 0x0B
)

// ExceptionForParseError classifies a ParseRequest error into the wire
// exception code the server should reply with: an unsupported function
// code is IllegalFunction, everything else indicates a malformed PDU and
// is IllegalDataValue.
func ExceptionForParseError(err error) byte {
	if errors.Is(err, ErrUnsupportedFunction) {
		return IllegalFunction
	}
	return IllegalDataValue
}

// IsInternalError reports whether err indicates a codec-layer bug rather
// than a malformed wire packet.
func IsInternalError(err error) bool {
	var ie *common.InternalError
	return errors.As(err, &ie)
}

package physical

import (
	sp "github.com/goburrow/serial"
)

// Parity values accepted by SerialConfig.Parity.
const (
	ParityNone = "N"
	ParityOdd  = "O"
	ParityEven = "E"
)

// Common serial baud rates, offered as named constants for callers that
// build a SerialConfig by hand rather than through ParseSerialURI.
const (
	Baud9600   = 9600
	Baud19200  = 19200
	Baud38400  = 38400
	Baud57600  = 57600
	Baud115200 = 115200
)

// SerialConfig describes how to open a serial port, mirroring the settings
// the RTU and ASCII transports both need.
type SerialConfig struct {
	Device   string
	BaudRate int
	DataBits int
	Parity   string
	StopBits int
}

func (c SerialConfig) toPortConfig() *sp.Config {
	return &sp.Config{
		Address:  c.Device,
		BaudRate: c.BaudRate,
		DataBits: c.DataBits,
		Parity:   c.Parity,
		StopBits: c.StopBits,
	}
}

// OpenSerial opens the named serial port and wraps it as a physical Layer.
func OpenSerial(cfg SerialConfig) (Layer, error) {
	port, err := sp.Open(cfg.toPortConfig())
	if err != nil {
		return nil, err
	}
	return NewSerial(port, cfg.Device), nil
}

package physical

import (
	"time"

	"github.com/tarm/serial"
)

// OpenSerialLegacy opens a serial port through tarm/serial rather than
// goburrow/serial. The ASCII client and server (client.NewASCIISession and
// server.ServeASCII) use this opener, matching the library the original
// ASCII and RTU example binaries were built on.
func OpenSerialLegacy(cfg SerialConfig, readTimeout time.Duration) (Layer, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.BaudRate,
		Size:        byte(cfg.DataBits),
		Parity:      serial.Parity(cfg.Parity[0]),
		StopBits:    serial.StopBits(cfg.StopBits),
		ReadTimeout: readTimeout,
	})
	if err != nil {
		return nil, err
	}
	return NewSerial(port, cfg.Device), nil
}

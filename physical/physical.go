// Package physical wraps the byte streams a Modbus client or server
// transports ride on top of: a TCP socket, or a serial port. It exists so
// the frame and session layers above can stay agnostic to which one is in
// use and log a uniform remote/local description.
package physical

import (
	"io"
	"net"
)

// Layer is the minimal stream a frame transport needs: read, write, close,
// and something to put in a log line.
type Layer interface {
	io.ReadWriteCloser
	Description() string
}

// tcpLayer adapts a net.Conn (including an already-accepted or dialed TCP
// socket) to Layer.
type tcpLayer struct {
	net.Conn
}

// NewTCP wraps a net.Conn as a physical Layer.
func NewTCP(conn net.Conn) Layer {
	return &tcpLayer{Conn: conn}
}

func (t *tcpLayer) Description() string {
	return t.Conn.RemoteAddr().String()
}

// serialLayer adapts a serial port (anything satisfying io.ReadWriteCloser,
// e.g. goburrow/serial.Port or tarm/serial.Port) to Layer.
type serialLayer struct {
	io.ReadWriteCloser
	device string
}

// NewSerial wraps an open serial port as a physical Layer. device is the
// port name (e.g. "/dev/ttyUSB0") used only for logging.
func NewSerial(port io.ReadWriteCloser, device string) Layer {
	return &serialLayer{ReadWriteCloser: port, device: device}
}

func (s *serialLayer) Description() string {
	return s.device
}

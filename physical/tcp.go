package physical

import (
	"context"
	"net"
	"time"
)

// DialTCP connects to a Modbus TCP server and wraps the connection as a
// physical Layer. Cancel ctx to abandon an in-flight dial.
func DialTCP(ctx context.Context, address string) (Layer, error) {
	return DialTCPTimeout(ctx, address, 0)
}

// DialTCPTimeout is DialTCP with an additional dial timeout, used by
// endpoint URIs that carry a "dialTimeout" query parameter.
func DialTCPTimeout(ctx context.Context, address string, timeout time.Duration) (Layer, error) {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, err
	}
	return NewTCP(conn), nil
}

// ListenTCP opens a listener for a Modbus TCP server.
func ListenTCP(address string) (net.Listener, error) {
	return net.Listen("tcp", address)
}

package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/gomodbus/core/frame/mbap"
	"github.com/gomodbus/core/pdu"
	"github.com/gomodbus/core/physical"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startTestSession(t *testing.T, handlers *HandlerMap) net.Conn {
	t.Helper()
	clientConn, serverConn := net.Pipe()
	session := newSession(zap.NewNop(), physical.NewTCP(serverConn), tcpServerCodec{}, handlers, NewStats())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go session.Run(ctx)
	return clientConn
}

func TestSession_ReadHoldingRegisters(t *testing.T) {
	handlers := NewHandlerMap()
	h := NewDefaultHandler(4, 4, 4, 4)
	_, code := h.WriteSingleRegister(pdu.Indexed[uint16]{Index: 0, Value: 0x2A})
	require.Equal(t, byte(0), code)
	handlers.Register(0x01, h)

	conn := startTestSession(t, handlers)
	defer conn.Close()

	req := &pdu.ReadHoldingRegistersRequest{Range: pdu.AddressRange{Start: 0, Count: 1}}
	body, err := pdu.SerializeRequest(req)
	require.NoError(t, err)
	_, err = conn.Write(mbap.BuildFrame(7, 0x01, body))
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	buf := make([]byte, 256)
	n, err := conn.Read(buf)
	require.NoError(t, err)

	frame, _, err := mbap.NewParser().Parse(buf[:n])
	require.NoError(t, err)
	require.Equal(t, uint16(7), frame.Header.TxID)

	resp, err := pdu.ParseResponse(frame.PDU, req)
	require.NoError(t, err)
	require.Equal(t, []uint16{0x2A}, resp.(*pdu.ReadHoldingRegistersResponse).Iterator().Values())
}

func TestSession_UnknownUnitIDIsSilentlyDropped(t *testing.T) {
	handlers := NewHandlerMap()
	conn := startTestSession(t, handlers)
	defer conn.Close()

	req := &pdu.ReadCoilsRequest{Range: pdu.AddressRange{Start: 0, Count: 1}}
	body, err := pdu.SerializeRequest(req)
	require.NoError(t, err)
	_, err = conn.Write(mbap.BuildFrame(1, 0x09, body))
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	buf := make([]byte, 256)
	_, err = conn.Read(buf)
	require.Error(t, err)
	netErr, ok := err.(net.Error)
	require.True(t, ok)
	require.True(t, netErr.Timeout())

	// the session is still alive and serves a later request on a known
	// unit id over the same connection.
	h := NewDefaultHandler(4, 4, 4, 4)
	handlers.Register(0x01, h)
	body2, err := pdu.SerializeRequest(req)
	require.NoError(t, err)
	_, err = conn.Write(mbap.BuildFrame(2, 0x01, body2))
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	n, err := conn.Read(buf)
	require.NoError(t, err)
	frame, _, err := mbap.NewParser().Parse(buf[:n])
	require.NoError(t, err)
	require.Equal(t, uint16(2), frame.Header.TxID)
}

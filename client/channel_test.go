package client

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/gomodbus/core/common"
	"github.com/gomodbus/core/frame/mbap"
	"github.com/gomodbus/core/pdu"
	"github.com/gomodbus/core/physical"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeServer answers exactly one MBAP request with a canned response and
// then stops serving (the tests below only ever issue one request).
func fakeServer(t *testing.T, conn net.Conn, respond func(req *mbap.Frame) []byte) {
	t.Helper()
	go func() {
		buf := make([]byte, 256)
		n, err := conn.Read(buf)
		if err != nil {
			return
		}
		p := mbap.NewParser()
		frame, _, err := p.Parse(buf[:n])
		if err != nil {
			return
		}
		conn.Write(respond(frame))
	}()
}

func TestClientChannel_ReadHoldingRegisters_Success(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	fakeServer(t, serverConn, func(req *mbap.Frame) []byte {
		resp := pdu.NewReadHoldingRegistersResponse(0, []uint16{0x0102, 0x0304})
		body, err := pdu.SerializeResponse(resp)
		require.NoError(t, err)
		return mbap.BuildFrame(req.Header.TxID, req.Header.UnitID, body)
	})

	dial := func(ctx context.Context) (physical.Layer, error) {
		return physical.NewTCP(clientConn), nil
	}
	ch := newClientChannel(zap.NewNop(), dial, tcpCodec{}, &Config{RequestTimeout: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ch.Run(ctx)

	session := NewSession(ch, 0x01)
	values, err := session.ReadHoldingRegisters(context.Background(), 0, 2)
	require.NoError(t, err)
	require.Equal(t, []uint16{0x0102, 0x0304}, values)
}

func TestClientChannel_ExceptionResponse(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	fakeServer(t, serverConn, func(req *mbap.Frame) []byte {
		exc := pdu.NewExceptionResponse(pdu.ReadCoils, pdu.IllegalDataAddress)
		body, err := pdu.SerializeResponse(exc)
		require.NoError(t, err)
		return mbap.BuildFrame(req.Header.TxID, req.Header.UnitID, body)
	})

	dial := func(ctx context.Context) (physical.Layer, error) {
		return physical.NewTCP(clientConn), nil
	}
	ch := newClientChannel(zap.NewNop(), dial, tcpCodec{}, &Config{RequestTimeout: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ch.Run(ctx)

	session := NewSession(ch, 0x01)
	_, err := session.ReadCoils(context.Background(), 0, 1)
	require.Error(t, err)
}

func TestClientChannel_StaleTxIdIsDroppedNotDelivered(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	go func() {
		buf := make([]byte, 256)
		n, err := serverConn.Read(buf)
		if err != nil {
			return
		}
		p := mbap.NewParser()
		frame, _, err := p.Parse(buf[:n])
		if err != nil {
			return
		}
		resp := pdu.NewReadHoldingRegistersResponse(0, []uint16{0x2A})
		body, err := pdu.SerializeResponse(resp)
		require.NoError(t, err)
		// first reply with a stale, mismatched transaction id; the real
		// reply follows right behind it on the same stream.
		serverConn.Write(mbap.BuildFrame(frame.Header.TxID+99, frame.Header.UnitID, body))
		serverConn.Write(mbap.BuildFrame(frame.Header.TxID, frame.Header.UnitID, body))
	}()

	dial := func(ctx context.Context) (physical.Layer, error) {
		return physical.NewTCP(clientConn), nil
	}
	ch := newClientChannel(zap.NewNop(), dial, tcpCodec{}, &Config{RequestTimeout: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ch.Run(ctx)

	session := NewSession(ch, 0x01)
	values, err := session.ReadHoldingRegisters(context.Background(), 0, 1)
	require.NoError(t, err)
	require.Equal(t, []uint16{0x2A}, values)
}

func TestClientChannel_UnitIDMismatchTearsDownConnection(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	go func() {
		buf := make([]byte, 256)
		n, err := serverConn.Read(buf)
		if err != nil {
			return
		}
		p := mbap.NewParser()
		frame, _, err := p.Parse(buf[:n])
		if err != nil {
			return
		}
		resp := pdu.NewReadHoldingRegistersResponse(0, []uint16{0x2A})
		body, err := pdu.SerializeResponse(resp)
		require.NoError(t, err)
		// answer with the right tx id but the wrong unit id.
		serverConn.Write(mbap.BuildFrame(frame.Header.TxID, frame.Header.UnitID+1, body))
	}()

	dial := func(ctx context.Context) (physical.Layer, error) {
		return physical.NewTCP(clientConn), nil
	}
	ch := newClientChannel(zap.NewNop(), dial, tcpCodec{}, &Config{RequestTimeout: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ch.Run(ctx)

	session := NewSession(ch, 0x01)
	_, err := session.ReadHoldingRegisters(context.Background(), 0, 1)
	require.Error(t, err)
	re, ok := common.AsRequestError(err)
	require.True(t, ok)
	require.Equal(t, common.BadResponseUnitId, re.Kind)
	fe, ok := common.AsFrameError(err)
	require.True(t, ok)
	require.Equal(t, common.ResponseDesync, fe.Kind)
}

func TestClientChannel_QueuedRequestFailsFastDuringReconnectBackoff(t *testing.T) {
	dialAttempts := make(chan struct{}, 8)
	dial := func(ctx context.Context) (physical.Layer, error) {
		dialAttempts <- struct{}{}
		return nil, errConnectionLost
	}
	ch := newClientChannel(zap.NewNop(), dial, tcpCodec{}, &Config{
		Retry: NewDoublingRetryStrategy(time.Hour, time.Hour),
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ch.Run(ctx)

	<-dialAttempts // wait for the first failed connection attempt

	_, err := ch.Submit(context.Background(), 1, &pdu.ReadCoilsRequest{Range: pdu.AddressRange{Start: 0, Count: 1}})
	require.Error(t, err)
	re, ok := common.AsRequestError(err)
	require.True(t, ok)
	require.Equal(t, common.NoConnection, re.Kind)
}

func TestClientChannel_QueueFullReturnsRequestError(t *testing.T) {
	clientConn, _ := net.Pipe()
	dial := func(ctx context.Context) (physical.Layer, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	ch := newClientChannel(zap.NewNop(), dial, tcpCodec{}, &Config{QueueDepth: 1})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ch.Run(ctx)
	_ = clientConn.Close()

	// fill the one queue slot with a request nobody will ever answer
	go func() {
		_, _ = NewSession(ch, 1).ReadCoils(context.Background(), 0, 1)
	}()
	time.Sleep(20 * time.Millisecond)

	_, err := ch.Submit(context.Background(), 1, &pdu.ReadCoilsRequest{Range: pdu.AddressRange{Start: 0, Count: 1}})
	require.Error(t, err)
	re, ok := common.AsRequestError(err)
	require.True(t, ok)
	require.Equal(t, common.QueueFull, re.Kind)
}

// Package client implements the asynchronous Modbus client: a single
// background task owns the physical connection, serializes requests from a
// bounded queue onto it one at a time, and reconnects with a pluggable
// backoff when the link drops.
package client

import (
	"context"
	"errors"
	"time"

	"github.com/gomodbus/core/common"
	"github.com/gomodbus/core/iobuf"
	"github.com/gomodbus/core/pdu"
	"github.com/gomodbus/core/physical"
	"go.uber.org/zap"
)

// errConnectionLost marks a read/write failure on the physical layer
// itself, distinct from a *common.FrameError (a malformed frame on an
// otherwise healthy connection). Both are connection-fatal: the channel
// tears down and reconnects.
var errConnectionLost = errors.New("client: connection lost")

// Dialer establishes the physical connection a ClientChannel rides on. It
// is called once per connection attempt; TCP and serial constructors each
// supply their own.
type Dialer func(ctx context.Context) (physical.Layer, error)

// Config holds the tunables for a ClientChannel.
type Config struct {
	QueueDepth     int
	RequestTimeout time.Duration
	Retry          RetryStrategy
}

func (c *Config) withDefaults() *Config {
	cfg := *c
	if cfg.QueueDepth <= 0 {
		cfg.QueueDepth = 32
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 5 * time.Second
	}
	if cfg.Retry == nil {
		cfg.Retry = DefaultRetryStrategy()
	}
	return &cfg
}

// ClientChannel is the background task that owns one physical connection.
// A channel serves exactly one request at a time; concurrent callers queue
// behind whichever request is currently in flight.
type ClientChannel struct {
	logger *zap.Logger
	dial   Dialer
	codec  wireCodec
	cfg    *Config

	queue chan *pendingRequest
	done  chan struct{}
	txID  uint16
}

func newClientChannel(logger *zap.Logger, dial Dialer, codec wireCodec, cfg *Config) *ClientChannel {
	cfg = cfg.withDefaults()
	return &ClientChannel{
		logger: logger,
		dial:   dial,
		codec:  codec,
		cfg:    cfg,
		queue:  make(chan *pendingRequest, cfg.QueueDepth),
		done:   make(chan struct{}),
	}
}

// Run drives the channel's reconnect loop until ctx is cancelled or Close
// is called. Callers start it in its own goroutine.
func (c *ClientChannel) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			c.drain(common.NewRequestError(common.Shutdown))
			return
		case <-c.done:
			c.drain(common.NewRequestError(common.ChannelClosed))
			return
		default:
		}

		conn, err := c.dial(ctx)
		if err != nil {
			c.logger.Debug("connection attempt failed", zap.Error(err))
			if !c.sleep(ctx, c.cfg.Retry.AfterFailedConnect()) {
				c.drain(common.NewRequestError(common.Shutdown))
				return
			}
			continue
		}
		c.cfg.Retry.Reset()
		c.logger.Debug("connected", zap.String("remote", conn.Description()))

		shutdown := c.serve(ctx, conn)
		conn.Close()
		if shutdown {
			return
		}
		if !c.sleep(ctx, c.cfg.Retry.AfterDisconnect()) {
			c.drain(common.NewRequestError(common.Shutdown))
			return
		}
	}
}

// Close stops the channel's Run loop, failing any still-queued requests.
func (c *ClientChannel) Close() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
}

// Submit enqueues req for the given unit id and blocks until a response
// arrives, the channel shuts down, or ctx is cancelled.
func (c *ClientChannel) Submit(ctx context.Context, unitID byte, req pdu.Request) (pdu.Response, error) {
	p := &pendingRequest{unitID: unitID, request: req, reply: make(chan requestResult, 1)}

	select {
	case c.queue <- p:
	default:
		return nil, common.NewRequestError(common.QueueFull)
	}

	select {
	case <-ctx.Done():
		return nil, common.NewRequestError(common.Shutdown)
	case <-c.done:
		return nil, common.NewRequestError(common.ChannelClosed)
	case result := <-p.reply:
		return result.response, result.err
	}
}

// sleep waits out d, failing fast with NoConnection any request that arrives
// on the queue in the meantime: there is no connection to carry it until the
// retry delay elapses and Run dials again.
func (c *ClientChannel) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-c.done:
			return false
		case <-t.C:
			return true
		case p := <-c.queue:
			p.reply <- requestResult{err: common.NewRequestError(common.NoConnection)}
		}
	}
}

func (c *ClientChannel) drain(err error) {
	for {
		select {
		case p := <-c.queue:
			p.reply <- requestResult{err: err}
		default:
			return
		}
	}
}

// serve runs the single-connection request loop: pull one request at a
// time off the queue, write it, read until a response decodes. It returns
// true if the channel itself was asked to shut down (so Run should not
// reconnect), false if the connection simply dropped and a reconnect
// should follow.
func (c *ClientChannel) serve(ctx context.Context, conn physical.Layer) bool {
	buf := iobuf.New(256)
	for {
		var p *pendingRequest
		select {
		case <-ctx.Done():
			return true
		case <-c.done:
			return true
		case p = <-c.queue:
		}

		resp, err := c.exchange(ctx, conn, buf, p)
		p.reply <- requestResult{response: resp, err: err}
		if isConnectionFatal(err) {
			return false
		}
	}
}

func isConnectionFatal(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, errConnectionLost) {
		return true
	}
	_, ok := common.AsFrameError(err)
	return ok
}

// exchange writes one request and reads until its response decodes or the
// per-request timeout elapses. A *common.FrameError or errConnectionLost
// return is fatal to the connection; any other error is scoped to this
// request only.
func (c *ClientChannel) exchange(ctx context.Context, conn physical.Layer, buf *iobuf.GrowingBuffer, p *pendingRequest) (pdu.Response, error) {
	c.txID++
	txID := c.txID

	frame, err := c.codec.Encode(txID, p.unitID, p.request)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Write(frame); err != nil {
		return nil, errConnectionLost
	}

	deadline := time.Now().Add(c.cfg.RequestTimeout)
	if deadliner, ok := conn.(interface{ SetReadDeadline(time.Time) error }); ok {
		_ = deadliner.SetReadDeadline(deadline)
	}

	for {
		// Decode from a copy: a decoded response aliases the bytes it was
		// parsed from, and the caller reads it after this goroutine has moved
		// on to reading the next reply into buf.
		data := append([]byte(nil), buf.Bytes()...)
		resp, consumed, needMore, decodeErr := c.codec.Decode(data, txID, p.unitID, p.request)
		if !needMore {
			if consumed > 0 {
				buf.Consume(consumed)
			}
			if re, ok := common.AsRequestError(decodeErr); ok && re.Kind == common.BadResponseTxId {
				// A stale reply for an earlier, already-abandoned request.
				// Drop it and keep waiting for the one that matches txID.
				continue
			}
			if decodeErr != nil {
				return nil, decodeErr
			}
			return resp, nil
		}

		if ctx.Err() != nil {
			return nil, common.NewRequestError(common.Shutdown)
		}
		if !time.Now().Before(deadline) {
			return nil, common.NewRequestError(common.ResponseTimeout)
		}

		if _, err := buf.ReadSome(conn); err != nil {
			if netErr, ok := err.(interface{ Timeout() bool }); ok && netErr.Timeout() {
				return nil, common.NewRequestError(common.ResponseTimeout)
			}
			return nil, errConnectionLost
		}
	}
}

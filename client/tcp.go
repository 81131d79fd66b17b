package client

import (
	"context"
	"time"

	"github.com/gomodbus/core/physical"
	"go.uber.org/zap"
)

// NewTCPSession dials a Modbus TCP server and returns a running Session
// addressed to unitID. TCP usually ignores the unit id (it is forwarded
// to a bridged serial device), but some servers still key on it.
func NewTCPSession(ctx context.Context, logger *zap.Logger, address string, unitID byte, cfg Config) *Session {
	return NewTCPSessionTimeout(ctx, logger, address, 0, unitID, cfg)
}

// NewTCPSessionTimeout is NewTCPSession with an additional per-dial
// timeout, used by NewSessionFromURI for endpoints that set dialTimeout.
func NewTCPSessionTimeout(ctx context.Context, logger *zap.Logger, address string, dialTimeout time.Duration, unitID byte, cfg Config) *Session {
	logger = logger.Named("modbus.client.tcp")
	dial := func(ctx context.Context) (physical.Layer, error) {
		return physical.DialTCPTimeout(ctx, address, dialTimeout)
	}
	channel := newClientChannel(logger, dial, tcpCodec{}, &cfg)
	go channel.Run(ctx)
	return NewSession(channel, unitID)
}

package client

import (
	"context"
	"time"

	"github.com/gomodbus/core/physical"
	"go.uber.org/zap"
)

// NewASCIISession opens a serial port for ASCII framing and returns a
// running Session addressed to unitID. ASCII ports are opened through
// tarm/serial, matching the original ASCII example tooling.
func NewASCIISession(ctx context.Context, logger *zap.Logger, serialCfg physical.SerialConfig, unitID byte, cfg Config) *Session {
	logger = logger.Named("modbus.client.ascii")
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	dial := func(ctx context.Context) (physical.Layer, error) {
		return physical.OpenSerialLegacy(serialCfg, timeout)
	}
	channel := newClientChannel(logger, dial, asciiCodec{}, &cfg)
	go channel.Run(ctx)
	return NewSession(channel, unitID)
}

package client

import (
	"context"

	"github.com/gomodbus/core/physical"
	"go.uber.org/zap"
)

// NewRTUSession opens a serial port for RTU framing and returns a running
// Session addressed to unitID.
func NewRTUSession(ctx context.Context, logger *zap.Logger, serialCfg physical.SerialConfig, unitID byte, cfg Config) *Session {
	logger = logger.Named("modbus.client.rtu")
	dial := func(ctx context.Context) (physical.Layer, error) {
		return physical.OpenSerial(serialCfg)
	}
	channel := newClientChannel(logger, dial, rtuCodec{}, &cfg)
	go channel.Run(ctx)
	return NewSession(channel, unitID)
}

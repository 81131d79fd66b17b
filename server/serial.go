package server

import (
	"context"
	"time"

	"github.com/gomodbus/core/physical"
	"go.uber.org/zap"
)

// ServeRTU opens a serial port and runs a single RTU session against
// handlers until ctx is cancelled or the port errors. Unlike TCP there is
// no accept loop: one serial line is one session for the life of the
// process.
func ServeRTU(ctx context.Context, logger *zap.Logger, cfg physical.SerialConfig, handlers *HandlerMap) error {
	return serveSerial(ctx, logger, cfg, handlers, rtuServerCodec{}, false)
}

// ServeASCII is ServeRTU's ASCII counterpart, opened through tarm/serial
// to match the original ASCII tooling.
func ServeASCII(ctx context.Context, logger *zap.Logger, cfg physical.SerialConfig, handlers *HandlerMap) error {
	return serveSerial(ctx, logger, cfg, handlers, asciiServerCodec{}, true)
}

func serveSerial(ctx context.Context, logger *zap.Logger, cfg physical.SerialConfig, handlers *HandlerMap, codec serverCodec, legacyOpen bool) error {
	var port physical.Layer
	var err error
	if legacyOpen {
		port, err = physical.OpenSerialLegacy(cfg, 5*time.Second)
	} else {
		port, err = physical.OpenSerial(cfg)
	}
	if err != nil {
		return err
	}
	session := newSession(logger, port, codec, handlers, NewStats())
	session.Run(ctx)
	return nil
}

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/gomodbus/core/physical"
	"github.com/gomodbus/core/server"
	"go.uber.org/zap"
)

// server_bridge exposes one shared register table over both an RTU serial
// line and a TCP listener, letting a TCP SCADA client reach an RTU-only
// field device through this process.
func main() {
	// RTU traffic is chatty when partial frames arrive; Production trims
	// that down to INFO and above.
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}

	handlers := server.NewHandlerMap()
	handler := server.NewDefaultHandler(65535, 65535, 65535, 65535)
	handlers.Register(91, handler)
	handlers.Register(1, handler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serialCfg := physical.SerialConfig{
		Device:   "/dev/ttyUSB0",
		BaudRate: physical.Baud19200,
		DataBits: 8,
		Parity:   physical.ParityNone,
		StopBits: 2,
	}
	go func() {
		if err := server.ServeRTU(ctx, logger, serialCfg, handlers); err != nil {
			logger.Error("rtu session exited", zap.Error(err))
		}
	}()

	if _, err := server.ListenAndServeTCP(ctx, logger, ":8502", handlers, 32); err != nil {
		logger.Error("failed to start tcp server", zap.Error(err))
		return
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
}

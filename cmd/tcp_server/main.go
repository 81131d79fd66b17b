package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/gomodbus/core/pdu"
	"github.com/gomodbus/core/server"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	handlers := server.NewHandlerMap()
	handler := server.NewDefaultHandler(65535, 65535, 65535, 65535)
	handler.WriteSingleCoil(pdu.Indexed[pdu.CoilState]{Index: 0, Value: pdu.NewCoilState(true)})
	handler.WriteSingleCoil(pdu.Indexed[pdu.CoilState]{Index: 8, Value: pdu.NewCoilState(true)})
	handler.WriteSingleCoil(pdu.Indexed[pdu.CoilState]{Index: 15, Value: pdu.NewCoilState(true)})
	// TCP clients commonly leave the unit id at its default of 1.
	handlers.Register(1, handler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err = server.ListenAndServeTCP(ctx, logger, ":502", handlers, 32)
	if err != nil {
		logger.Error("failed to start tcp server", zap.Error(err))
		return
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
}

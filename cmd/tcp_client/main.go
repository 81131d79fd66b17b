package main

import (
	"context"

	"github.com/gomodbus/core/client"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session := client.NewTCPSession(ctx, logger, "127.0.0.1:502", 1, client.Config{})
	defer session.Close()

	coils, err := session.ReadCoils(ctx, 0, 16)
	if err != nil {
		logger.Error("failed to read coils", zap.Error(err))
		return
	}
	logger.Info("read coils", zap.Bools("coils", coils))
}

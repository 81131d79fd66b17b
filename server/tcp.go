package server

import (
	"context"

	"github.com/gomodbus/core/physical"
	"go.uber.org/zap"
)

// ListenAndServeTCP listens on address and runs an Acceptor against
// handlers until ctx is cancelled.
func ListenAndServeTCP(ctx context.Context, logger *zap.Logger, address string, handlers *HandlerMap, maxSessions int) (*Acceptor, error) {
	listener, err := physical.ListenTCP(address)
	if err != nil {
		return nil, err
	}
	acceptor := NewAcceptor(logger, listener, handlers, maxSessions)
	go acceptor.Run(ctx)
	return acceptor, nil
}

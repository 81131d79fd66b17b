package server

import (
	"context"
	"net"
	"sync"

	"github.com/gomodbus/core/physical"
	"go.uber.org/zap"
)

// Acceptor runs a TCP accept loop gated by maxSessions: once that many
// sessions are active, Accept keeps pulling connections off the listener
// backlog but closes them immediately rather than blocking new clients out
// entirely, matching a bounded-concurrency server rather than one that
// stops accepting.
type Acceptor struct {
	logger      *zap.Logger
	listener    net.Listener
	codec       serverCodec
	handlers    *HandlerMap
	stats       *Stats
	maxSessions int

	mu sync.Mutex
	wg sync.WaitGroup
}

// NewAcceptor wraps an already-listening net.Listener.
func NewAcceptor(logger *zap.Logger, listener net.Listener, handlers *HandlerMap, maxSessions int) *Acceptor {
	if maxSessions <= 0 {
		maxSessions = 32
	}
	return &Acceptor{
		logger:      logger.Named("modbus.server.acceptor"),
		listener:    listener,
		codec:       tcpServerCodec{},
		handlers:    handlers,
		stats:       NewStats(),
		maxSessions: maxSessions,
	}
}

// Stats returns the acceptor's running counters.
func (a *Acceptor) Stats() *Stats { return a.stats }

// Run accepts connections until ctx is cancelled or the listener errors.
func (a *Acceptor) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		a.listener.Close()
	}()

	for {
		conn, err := a.listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			a.logger.Error("accept failed", zap.Error(err))
			continue
		}
		if a.stats.ActiveSessions() >= int64(a.maxSessions) {
			a.logger.Warn("max sessions reached, rejecting connection")
			conn.Close()
			continue
		}
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			session := newSession(a.logger, physical.NewTCP(conn), a.codec, a.handlers, a.stats)
			session.Run(ctx)
		}()
	}
}

// Wait blocks until every in-flight session has returned, used after Run's
// ctx is cancelled to know the listener and all its clients are done.
func (a *Acceptor) Wait() {
	a.wg.Wait()
}

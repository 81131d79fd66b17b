package server

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gomodbus/core/physical"
	"go.uber.org/zap"
)

// ServeURI dispatches to ListenAndServeTCP, ServeRTU or ServeASCII based on
// the endpoint's scheme. TCP returns immediately with a running Acceptor.
// The serial transports start their session in a background goroutine and
// return immediately with a nil Acceptor, since a serial line has no accept
// loop to hand back; an error opening the port is logged, not returned.
func ServeURI(ctx context.Context, logger *zap.Logger, endpoint string, handlers *HandlerMap, maxSessions int) (*Acceptor, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", physical.ErrInvalidURI, err)
	}

	switch u.Scheme {
	case "tcp":
		address, _, err := physical.ParseTCPURI(endpoint)
		if err != nil {
			return nil, err
		}
		return ListenAndServeTCP(ctx, logger, address, handlers, maxSessions)
	case "rtu":
		serialCfg, _, err := physical.ParseSerialURI(endpoint)
		if err != nil {
			return nil, err
		}
		go func() {
			if err := ServeRTU(ctx, logger, serialCfg, handlers); err != nil {
				logger.Error("rtu serial session exited", zap.Error(err))
			}
		}()
		return nil, nil
	case "ascii":
		serialCfg, _, err := physical.ParseSerialURI(endpoint)
		if err != nil {
			return nil, err
		}
		go func() {
			if err := ServeASCII(ctx, logger, serialCfg, handlers); err != nil {
				logger.Error("ascii serial session exited", zap.Error(err))
			}
		}()
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", physical.ErrInvalidURI, u.Scheme)
	}
}

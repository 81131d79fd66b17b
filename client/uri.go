package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gomodbus/core/physical"
	"go.uber.org/zap"
)

// NewSessionFromURI dispatches to NewTCPSession, NewRTUSession or
// NewASCIISession based on the endpoint's scheme, so callers that take a
// Modbus endpoint as a single connection string do not need a transport
// switch of their own.
func NewSessionFromURI(ctx context.Context, logger *zap.Logger, endpoint string, unitID byte, cfg Config) (*Session, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", physical.ErrInvalidURI, err)
	}

	switch u.Scheme {
	case "tcp":
		address, dialTimeout, err := physical.ParseTCPURI(endpoint)
		if err != nil {
			return nil, err
		}
		return NewTCPSessionTimeout(ctx, logger, address, dialTimeout, unitID, cfg), nil
	case "rtu":
		serialCfg, _, err := physical.ParseSerialURI(endpoint)
		if err != nil {
			return nil, err
		}
		return NewRTUSession(ctx, logger, serialCfg, unitID, cfg), nil
	case "ascii":
		serialCfg, _, err := physical.ParseSerialURI(endpoint)
		if err != nil {
			return nil, err
		}
		return NewASCIISession(ctx, logger, serialCfg, unitID, cfg), nil
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", physical.ErrInvalidURI, u.Scheme)
	}
}

package physical

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// ErrInvalidURI is wrapped by every URI parsing failure in this file, so
// callers can errors.Is against it regardless of which field was bad.
var ErrInvalidURI = errors.New("physical: invalid URI")

// ParseSerialURI parses a "rtu://" or "ascii://" endpoint URI such as
// "rtu:///dev/ttyUSB0?baud=9600&dataBits=8&parity=N&stopBits=1" into a
// SerialConfig, returning the scheme as the transport name so callers can
// pick RTU versus ASCII framing.
func ParseSerialURI(uri string) (cfg SerialConfig, transport string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return SerialConfig{}, "", fmt.Errorf("%w: %v", ErrInvalidURI, err)
	}
	switch u.Scheme {
	case "rtu", "ascii":
		transport = u.Scheme
	default:
		return SerialConfig{}, "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURI, u.Scheme)
	}

	cfg.Device = u.Path
	if cfg.BaudRate, err = intParam(u, "baud", 9600); err != nil {
		return SerialConfig{}, "", err
	}
	if cfg.DataBits, err = intParam(u, "dataBits", 8); err != nil {
		return SerialConfig{}, "", err
	}
	if cfg.StopBits, err = intParam(u, "stopBits", 1); err != nil {
		return SerialConfig{}, "", err
	}
	cfg.Parity, err = parityParam(u, "parity", "N")
	if err != nil {
		return SerialConfig{}, "", err
	}
	return cfg, transport, nil
}

// ParseTCPURI parses a "tcp://" endpoint URI into a dial address and an
// optional dial timeout, the network counterpart to ParseSerialURI.
func ParseTCPURI(uri string) (address string, dialTimeout time.Duration, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrInvalidURI, err)
	}
	if u.Scheme != "tcp" {
		return "", 0, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURI, u.Scheme)
	}
	dialTimeout = 5 * time.Second
	if v := u.Query().Get("dialTimeout"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return "", 0, fmt.Errorf("%w: dialTimeout=%q", ErrInvalidURI, v)
		}
		dialTimeout = d
	}
	return u.Host, dialTimeout, nil
}

func intParam(u *url.URL, field string, def int) (int, error) {
	v := u.Query().Get(field)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidURI, field, v)
	}
	return n, nil
}

func parityParam(u *url.URL, field, def string) (string, error) {
	v := u.Query().Get(field)
	if v == "" {
		return def, nil
	}
	switch v {
	case "N", "E", "O":
		return v, nil
	default:
		return "", fmt.Errorf("%w: %s=%q", ErrInvalidURI, field, v)
	}
}

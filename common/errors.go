// Package common holds the shared error taxonomy used across the codec,
// framing, client and server layers.
package common

import (
	"errors"
	"fmt"
)

// InternalError indicates an invariant was violated inside the codec layer
// itself (bad cursor math, a slice that should never be the wrong size).
// It is always treated as session-fatal because it indicates a bug rather
// than a malformed wire packet.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string { return "internal error: " + e.Msg }

func NewInternalError(msg string) error { return &InternalError{Msg: msg} }

var (
	// ErrInsufficientBytes is returned by a read cursor when a read would
	// advance past the end of the backing slice. The slice holds received
	// wire bytes, so this marks a truncated packet, not a codec bug.
	ErrInsufficientBytes = &RequestError{Kind: InsufficientBytes}
	// ErrInsufficientBuffer is returned by a write cursor when a write
	// would overflow the backing slice.
	ErrInsufficientBuffer = &InternalError{Msg: "insufficient buffer"}
)

// FrameErrorKind enumerates the fatal-to-the-connection frame errors.
type FrameErrorKind int

const (
	CrcMismatch FrameErrorKind = iota
	LrcMismatch
	UnknownProtocolId
	FrameLengthOutOfRange
	UnexpectedBroadcastResponse
	MbapLengthTooSmall
	// ResponseDesync marks a response whose unit id or function code did
	// not correspond to the in-flight request once the transaction id
	// already matched: the physical connection can no longer be trusted
	// to be carrying replies in lockstep with requests.
	ResponseDesync
)

func (k FrameErrorKind) String() string {
	switch k {
	case CrcMismatch:
		return "CrcMismatch"
	case LrcMismatch:
		return "LrcMismatch"
	case UnknownProtocolId:
		return "UnknownProtocolId"
	case FrameLengthOutOfRange:
		return "FrameLengthOutOfRange"
	case UnexpectedBroadcastResponse:
		return "UnexpectedBroadcastResponse"
	case MbapLengthTooSmall:
		return "MbapLengthTooSmall"
	case ResponseDesync:
		return "ResponseDesync"
	default:
		return "UnknownFrameError"
	}
}

// FrameError is fatal to the current connection: the channel or session
// task tears down the transport and, on the client side, lets the retry
// strategy decide when to reconnect.
type FrameError struct {
	Kind FrameErrorKind
}

func (e *FrameError) Error() string { return "frame error: " + e.Kind.String() }

func NewFrameError(kind FrameErrorKind) error { return &FrameError{Kind: kind} }

// AsFrameError reports whether err is a *FrameError and returns it.
func AsFrameError(err error) (*FrameError, bool) {
	var fe *FrameError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// RequestErrorKind enumerates the request-scoped errors delivered to a
// single caller without tearing down the channel (except where noted).
type RequestErrorKind int

const (
	ResponseTimeout RequestErrorKind = iota
	NoConnection
	BadResponseTxId
	BadResponseUnitId
	BadResponseFunction
	ByteCountMismatch
	TrailingBytes
	Shutdown
	ChannelClosed
	QueueFull
	InsufficientBytes
)

func (k RequestErrorKind) String() string {
	switch k {
	case ResponseTimeout:
		return "ResponseTimeout"
	case NoConnection:
		return "NoConnection"
	case BadResponseTxId:
		return "BadResponseTxId"
	case BadResponseUnitId:
		return "BadResponseUnitId"
	case BadResponseFunction:
		return "BadResponseFunction"
	case ByteCountMismatch:
		return "ByteCountMismatch"
	case TrailingBytes:
		return "TrailingBytes"
	case Shutdown:
		return "Shutdown"
	case ChannelClosed:
		return "ChannelClosed"
	case QueueFull:
		return "QueueFull"
	case InsufficientBytes:
		return "InsufficientBytes"
	default:
		return "UnknownRequestError"
	}
}

// RequestError is delivered through a request's reply channel to the
// caller that issued it. A mismatched transaction id (BadResponseTxId) is
// dropped silently by the channel and never reaches a caller at all. A
// mismatched unit id or function code (BadResponseUnitId,
// BadResponseFunction) means the connection itself can no longer be
// trusted, so those kinds are always joined with a *FrameError by
// NewFatalResponseError and torn down by ClientChannel; every other kind
// is scoped to the one request that produced it.
type RequestError struct {
	Kind RequestErrorKind
}

func (e *RequestError) Error() string { return "request error: " + e.Kind.String() }

func NewRequestError(kind RequestErrorKind) error { return &RequestError{Kind: kind} }

// NewFatalResponseError builds the error delivered when a response's unit
// id or function code does not correspond to the request that was sent:
// it carries the descriptive RequestErrorKind for the caller and logs,
// joined with a ResponseDesync FrameError so isConnectionFatal tears the
// connection down instead of reusing a desynchronized stream.
func NewFatalResponseError(kind RequestErrorKind) error {
	return errors.Join(&RequestError{Kind: kind}, &FrameError{Kind: ResponseDesync})
}

func AsRequestError(err error) (*RequestError, bool) {
	var re *RequestError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// BadRequestError wraps a client-side validation failure (e.g. a quantity
// over the function's limit) detected before anything is sent on the wire.
type BadRequestError struct {
	Reason string
}

func (e *BadRequestError) Error() string { return "bad request: " + e.Reason }

func NewBadRequestError(reason string) error { return &BadRequestError{Reason: reason} }

// ExceptionError wraps a Modbus exception response delivered to the caller.
type ExceptionError struct {
	Code byte
}

func (e *ExceptionError) Error() string {
	return fmt.Sprintf("modbus exception: %s", ExceptionCodeName(e.Code))
}

func NewExceptionError(code byte) error { return &ExceptionError{Code: code} }

// ExceptionCodeName returns the canonical name for the nine standard
// exception codes, or "Unknown(0xHH)" for any other value.
func ExceptionCodeName(code byte) string {
	switch code {
	case 0x01:
		return "IllegalFunction"
	case 0x02:
		return "IllegalDataAddress"
	case 0x03:
		return "IllegalDataValue"
	case 0x04:
		return "ServerDeviceFailure"
	case 0x05:
		return "Acknowledge"
	case 0x06:
		return "ServerDeviceBusy"
	case 0x08:
		return "MemoryParityError"
	case 0x0A:
		return "GatewayPathUnavailable"
	case 0x0B:
		return "GatewayTargetDeviceFailedToRespond"
	default:
		return fmt.Sprintf("Unknown(0x%02X)", code)
	}
}

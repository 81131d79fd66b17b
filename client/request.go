package client

import (
	"github.com/gomodbus/core/pdu"
)

// pendingRequest is one entry in the channel's FIFO queue: a request to
// send, the unit id to address it to, and the channel its result is
// delivered on. The result is always exactly one send, since a session's
// ReadCoils et al. block on a single reply.
type pendingRequest struct {
	unitID  byte
	request pdu.Request
	reply   chan requestResult
}

// requestResult is the one value ever sent on a pendingRequest's reply
// channel: either a parsed response or the error that prevented one.
type requestResult struct {
	response pdu.Response
	err      error
}

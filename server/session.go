package server

import (
	"context"

	"github.com/gomodbus/core/iobuf"
	"github.com/gomodbus/core/pdu"
	"github.com/gomodbus/core/physical"
	"go.uber.org/zap"
)

// Session is the per-connection task: read frames, resolve the addressed
// handler, dispatch, write the response. One Session owns one connection
// for its entire lifetime; a malformed frame or a connection error ends it.
type Session struct {
	logger   *zap.Logger
	conn     physical.Layer
	codec    serverCodec
	handlers *HandlerMap
	stats    *Stats
}

func newSession(logger *zap.Logger, conn physical.Layer, codec serverCodec, handlers *HandlerMap, stats *Stats) *Session {
	return &Session{logger: logger, conn: conn, codec: codec, handlers: handlers, stats: stats}
}

// Run serves requests until ctx is cancelled or the connection fails.
func (s *Session) Run(ctx context.Context) {
	defer s.conn.Close()
	s.stats.sessionStarted()
	defer s.stats.sessionEnded()

	buf := iobuf.New(256)
	for {
		if ctx.Err() != nil {
			return
		}
		if err := s.serveOne(buf); err != nil {
			s.logger.Debug("session ending", zap.Error(err))
			return
		}
	}
}

// serveOne reads until one request frame decodes, dispatches it, and
// writes the response (unless the request was an RTU broadcast). A
// returned error always ends the session.
func (s *Session) serveOne(buf *iobuf.GrowingBuffer) error {
	var txID uint16
	var unitID byte
	var pduBytes []byte

	for {
		id, uid, body, consumed, needMore, err := s.codec.Decode(buf.Bytes())
		if err != nil {
			return err
		}
		if !needMore {
			txID, unitID, pduBytes = id, uid, body
			buf.Consume(consumed)
			break
		}
		if _, err := buf.ReadSome(s.conn); err != nil {
			return err
		}
	}

	handler, ok := s.resolveHandler(unitID)
	if !ok {
		// An unrecognized unit id is silently ignored, before its PDU is
		// even parsed: no exception, no reply at all. The requester (or
		// nobody, on RTU broadcast) is left to time out rather than being
		// told anything.
		return nil
	}

	req, err := pdu.ParseRequest(pduBytes)
	var respBytes []byte
	if err != nil {
		if pdu.IsInternalError(err) {
			return err
		}
		exc := pdu.NewExceptionResponse(guessFunctionCode(pduBytes), pdu.ExceptionForParseError(err))
		respBytes, err = pdu.SerializeResponse(exc)
		s.stats.requestHandled(false)
		if err != nil {
			return err
		}
	} else {
		resp := dispatch(handler, req)
		_, isException := resp.(*pdu.ExceptionResponse)
		s.stats.requestHandled(!isException)
		respBytes, err = pdu.SerializeResponse(resp)
		if err != nil {
			return err
		}
	}

	if s.codec.IsBroadcast(unitID) {
		return nil
	}
	_, err = s.conn.Write(s.codec.Encode(txID, unitID, respBytes))
	return err
}

func (s *Session) resolveHandler(unitID byte) (RequestHandler, bool) {
	if s.codec.IsBroadcast(unitID) {
		return s.handlers.Broadcast()
	}
	return s.handlers.Lookup(unitID)
}

// guessFunctionCode recovers the function code from a PDU that failed to
// parse, so the exception response still echoes it (with the high bit
// set) as the protocol requires. A completely empty PDU has no function
// code to echo; a raw function code is used as written.
func guessFunctionCode(pduBytes []byte) pdu.FunctionCode {
	if len(pduBytes) == 0 {
		return 0
	}
	return pdu.FunctionCode(pduBytes[0])
}

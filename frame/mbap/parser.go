package mbap

import (
	"errors"

	"github.com/gomodbus/core/common"
	"github.com/gomodbus/core/cursor"
)

// ErrNeedMore is returned when the buffered data does not yet contain a
// complete frame; the caller should read more bytes and call Parse again.
var ErrNeedMore = errors.New("mbap: need more data")

const minLength = 2
const maxLength = 254

// Parser recognizes MBAP frames in accumulated stream data. It conceptually
// moves between an AwaitHeader state (fewer than 7 bytes buffered) and an
// AwaitBody state (header parsed, waiting on Length-1 more PDU bytes); it is
// implemented by re-deriving that state from the buffered slice on every
// call rather than storing it, which is equivalent since the caller always
// presents the same still-buffered prefix until a frame is consumed.
type Parser struct{}

// NewParser constructs an MBAP frame parser.
func NewParser() *Parser { return &Parser{} }

// Parse inspects data (the bytes currently buffered by the transport) and
// either returns a complete frame plus the number of bytes it consumed, or
// ErrNeedMore if data does not yet hold a full frame. It never returns a
// partial frame.
func (p *Parser) Parse(data []byte) (*Frame, int, error) {
	if len(data) < headerSize {
		return nil, 0, ErrNeedMore
	}
	r := cursor.NewRead(data[:headerSize])
	txID, _ := r.ReadU16BE()
	protocolID, _ := r.ReadU16BE()
	length, _ := r.ReadU16BE()
	unitID, _ := r.ReadU8()

	if protocolID != 0 {
		return nil, 0, common.NewFrameError(common.UnknownProtocolId)
	}
	if length < minLength || length > maxLength {
		return nil, 0, common.NewFrameError(common.FrameLengthOutOfRange)
	}

	total := headerSize + int(length) - 1 // length counts unit id (already read) + PDU
	if len(data) < total {
		return nil, 0, ErrNeedMore
	}

	frame := &Frame{
		Header: Header{TxID: txID, ProtocolID: protocolID, Length: length, UnitID: unitID},
		PDU:    data[headerSize:total],
	}
	return frame, total, nil
}

// Package ascii implements ASCII framing: a ':'-prefixed, hex-encoded frame
// terminated by CRLF, checksummed with an LRC rather than a CRC.
package ascii

import (
	"encoding/hex"
	"errors"

	"github.com/gomodbus/core/common"
)

// ErrNeedMore is returned when the buffered data does not yet contain a
// complete CRLF-terminated frame.
var ErrNeedMore = errors.New("ascii: need more data")

const (
	startChar = ':'
	cr        = '\r'
	lf        = '\n'
)

// Frame is a parsed ASCII ADU. UnitID and PDU are freshly decoded (ASCII
// frames cannot be handed out as zero-copy views over the wire bytes, since
// the wire form is hex text rather than binary).
type Frame struct {
	UnitID byte
	PDU    []byte
}

// lrc computes the longitudinal redundancy check used by ASCII framing:
// the two's-complement of the sum of all preceding bytes.
func lrc(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return ^sum + 1
}

// BuildFrame assembles a ':'-prefixed, hex-encoded, CRLF-terminated ASCII
// frame from a unit id and PDU.
func BuildFrame(unitID byte, pdu []byte) []byte {
	body := make([]byte, 0, 1+len(pdu))
	body = append(body, unitID)
	body = append(body, pdu...)
	checksum := lrc(body)
	body = append(body, checksum)

	encoded := make([]byte, hex.EncodedLen(len(body)))
	hex.Encode(encoded, body)

	out := make([]byte, 0, 1+len(encoded)+2)
	out = append(out, startChar)
	out = append(out, encoded...)
	out = append(out, cr, lf)
	return out
}

// Parser recognizes ASCII frames in accumulated stream data.
type Parser struct{}

// NewParser constructs an ASCII frame parser.
func NewParser() *Parser { return &Parser{} }

// Parse reads a ':'-prefixed, CRLF-terminated frame from the start of data.
// It returns ErrNeedMore until a full line is buffered, and also whenever
// data does not begin with ':'; leading bytes before a ':' are not skipped.
func (p *Parser) Parse(data []byte) (*Frame, int, error) {
	if len(data) == 0 || data[0] != startChar {
		return nil, 0, ErrNeedMore
	}
	end := -1
	for i := 1; i+1 < len(data); i++ {
		if data[i] == cr && data[i+1] == lf {
			end = i
			break
		}
	}
	if end == -1 {
		return nil, 0, ErrNeedMore
	}

	hexBytes := data[1:end]
	body := make([]byte, hex.DecodedLen(len(hexBytes)))
	if _, err := hex.Decode(body, hexBytes); err != nil {
		return nil, 0, common.NewFrameError(common.LrcMismatch)
	}
	if len(body) < 2 {
		return nil, 0, common.NewFrameError(common.FrameLengthOutOfRange)
	}

	payload, checksum := body[:len(body)-1], body[len(body)-1]
	if lrc(payload) != checksum {
		return nil, 0, common.NewFrameError(common.LrcMismatch)
	}

	frame := &Frame{UnitID: payload[0], PDU: payload[1:]}
	return frame, end + 2, nil
}

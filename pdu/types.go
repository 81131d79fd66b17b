package pdu

import "github.com/gomodbus/core/common"

// AddressRange is a contiguous span of coils or registers.
type AddressRange struct {
	Start uint16
	Count uint16
}

// validate enforces start+count <= 0x10000 and count >= 1.
func (r AddressRange) validate() error {
	if r.Count == 0 {
		return common.NewBadRequestError("address range count must be >= 1")
	}
	if int(r.Start)+int(r.Count) > 0x10000 {
		return common.NewBadRequestError("address range overflows 16-bit address space")
	}
	return nil
}

// NewReadBitsRange validates a coil/discrete-input read range (count <= 2000).
func NewReadBitsRange(start, count uint16) (AddressRange, error) {
	r := AddressRange{Start: start, Count: count}
	if err := r.validate(); err != nil {
		return r, err
	}
	if count > MaxReadCoilsCount {
		return r, common.NewBadRequestError("read bit count exceeds maximum of 2000")
	}
	return r, nil
}

// NewReadRegistersRange validates a holding/input register read range (count <= 125).
func NewReadRegistersRange(start, count uint16) (AddressRange, error) {
	r := AddressRange{Start: start, Count: count}
	if err := r.validate(); err != nil {
		return r, err
	}
	if count > MaxReadRegistersCount {
		return r, common.NewBadRequestError("read register count exceeds maximum of 125")
	}
	return r, nil
}

// NewWriteBitsRange validates a write-multiple-coils range (count <= 1968).
func NewWriteBitsRange(start uint16, count uint16) (AddressRange, error) {
	r := AddressRange{Start: start, Count: count}
	if err := r.validate(); err != nil {
		return r, err
	}
	if count > MaxWriteCoilsCount {
		return r, common.NewBadRequestError("write coil count exceeds maximum of 1968")
	}
	return r, nil
}

// NewWriteRegistersRange validates a write-multiple-registers range (count <= 123).
func NewWriteRegistersRange(start uint16, count uint16) (AddressRange, error) {
	r := AddressRange{Start: start, Count: count}
	if err := r.validate(); err != nil {
		return r, err
	}
	if count > MaxWriteRegistersCount {
		return r, common.NewBadRequestError("write register count exceeds maximum of 123")
	}
	return r, nil
}

// Indexed pairs a single point value with its absolute address.
type Indexed[T any] struct {
	Index uint16
	Value T
}

// CoilState is a wire-level coil write value: exactly CoilOn or CoilOff.
type CoilState struct {
	on bool
}

// NewCoilState constructs a CoilState from a boolean.
func NewCoilState(on bool) CoilState {
	return CoilState{on: on}
}

// Bool returns the logical value.
func (c CoilState) Bool() bool { return c.on }

// Wire returns the two-byte-wide encoding (CoilOn or CoilOff).
func (c CoilState) Wire() uint16 {
	if c.on {
		return CoilOn
	}
	return CoilOff
}

// ParseCoilState decodes the wire encoding, rejecting any value other than
// CoilOn/CoilOff per the Modbus spec.
func ParseCoilState(wire uint16) (CoilState, error) {
	switch wire {
	case CoilOn:
		return CoilState{on: true}, nil
	case CoilOff:
		return CoilState{on: false}, nil
	default:
		return CoilState{}, common.NewBadRequestError("coil value must be 0xFF00 or 0x0000")
	}
}

// numBytesForBits returns ceil(count/8), matching the original source's
// util::bits::num_bytes_for_bits.
func numBytesForBits(count uint16) int {
	return (int(count) + 7) / 8
}

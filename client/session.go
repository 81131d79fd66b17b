package client

import (
	"context"

	"github.com/gomodbus/core/pdu"
)

// Session is the public, synchronous-looking façade over a ClientChannel:
// each method enqueues one request and blocks for its one reply, matching
// the per-call shape (address, quantity) a caller expects from a
// Modbus client regardless of which wire format backs it.
type Session struct {
	channel *ClientChannel
	unitID  byte
}

// NewSession wraps an already-constructed ClientChannel as a Session
// addressed to unitID. Call channel.Run in its own goroutine before using
// the session.
func NewSession(channel *ClientChannel, unitID byte) *Session {
	return &Session{channel: channel, unitID: unitID}
}

func (s *Session) do(ctx context.Context, req pdu.Request) (pdu.Response, error) {
	return s.channel.Submit(ctx, s.unitID, req)
}

// ReadCoils reads quantity coils starting at address.
func (s *Session) ReadCoils(ctx context.Context, address, quantity uint16) ([]bool, error) {
	rng, err := pdu.NewReadBitsRange(address, quantity)
	if err != nil {
		return nil, err
	}
	resp, err := s.do(ctx, &pdu.ReadCoilsRequest{Range: rng})
	if err != nil {
		return nil, err
	}
	return resp.(*pdu.ReadCoilsResponse).Iterator().Values(), nil
}

// ReadDiscreteInputs reads quantity discrete inputs starting at address.
func (s *Session) ReadDiscreteInputs(ctx context.Context, address, quantity uint16) ([]bool, error) {
	rng, err := pdu.NewReadBitsRange(address, quantity)
	if err != nil {
		return nil, err
	}
	resp, err := s.do(ctx, &pdu.ReadDiscreteInputsRequest{Range: rng})
	if err != nil {
		return nil, err
	}
	return resp.(*pdu.ReadDiscreteInputsResponse).Iterator().Values(), nil
}

// ReadHoldingRegisters reads quantity holding registers starting at address.
func (s *Session) ReadHoldingRegisters(ctx context.Context, address, quantity uint16) ([]uint16, error) {
	rng, err := pdu.NewReadRegistersRange(address, quantity)
	if err != nil {
		return nil, err
	}
	resp, err := s.do(ctx, &pdu.ReadHoldingRegistersRequest{Range: rng})
	if err != nil {
		return nil, err
	}
	return resp.(*pdu.ReadHoldingRegistersResponse).Iterator().Values(), nil
}

// ReadInputRegisters reads quantity input registers starting at address.
func (s *Session) ReadInputRegisters(ctx context.Context, address, quantity uint16) ([]uint16, error) {
	rng, err := pdu.NewReadRegistersRange(address, quantity)
	if err != nil {
		return nil, err
	}
	resp, err := s.do(ctx, &pdu.ReadInputRegistersRequest{Range: rng})
	if err != nil {
		return nil, err
	}
	return resp.(*pdu.ReadInputRegistersResponse).Iterator().Values(), nil
}

// WriteSingleCoil writes a single coil at address.
func (s *Session) WriteSingleCoil(ctx context.Context, address uint16, value bool) error {
	req := &pdu.WriteSingleCoilRequest{Point: pdu.Indexed[pdu.CoilState]{Index: address, Value: pdu.NewCoilState(value)}}
	_, err := s.do(ctx, req)
	return err
}

// WriteSingleRegister writes a single holding register at address.
func (s *Session) WriteSingleRegister(ctx context.Context, address, value uint16) error {
	req := &pdu.WriteSingleRegisterRequest{Point: pdu.Indexed[uint16]{Index: address, Value: value}}
	_, err := s.do(ctx, req)
	return err
}

// WriteMultipleCoils writes values starting at address.
func (s *Session) WriteMultipleCoils(ctx context.Context, address uint16, values []bool) error {
	rng, err := pdu.NewWriteBitsRange(address, uint16(len(values)))
	if err != nil {
		return err
	}
	_, err = s.do(ctx, &pdu.WriteMultipleCoilsRequest{Range: rng, Values: values})
	return err
}

// WriteMultipleRegisters writes values starting at address.
func (s *Session) WriteMultipleRegisters(ctx context.Context, address uint16, values []uint16) error {
	rng, err := pdu.NewWriteRegistersRange(address, uint16(len(values)))
	if err != nil {
		return err
	}
	_, err = s.do(ctx, &pdu.WriteMultipleRegistersRequest{Range: rng, Values: values})
	return err
}

// Close stops the underlying channel.
func (s *Session) Close() error {
	s.channel.Close()
	return nil
}

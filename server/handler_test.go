package server

import (
	"path/filepath"
	"testing"

	"github.com/gomodbus/core/pdu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultHandler_ReadWriteCoils(t *testing.T) {
	h := NewDefaultHandler(10, 10, 10, 10)

	resp, code := h.WriteSingleCoil(pdu.Indexed[pdu.CoilState]{Index: 3, Value: pdu.NewCoilState(true)})
	require.Equal(t, byte(0), code)
	require.NotNil(t, resp)

	resp, code = h.ReadCoils(pdu.AddressRange{Start: 0, Count: 5})
	require.Equal(t, byte(0), code)
	values := resp.(*pdu.ReadCoilsResponse).Iterator().Values()
	assert.Equal(t, []bool{false, false, false, true, false}, values)
}

func TestDefaultHandler_ReadCoils_OutOfRangeIsIllegalDataAddress(t *testing.T) {
	h := NewDefaultHandler(4, 4, 4, 4)
	_, code := h.ReadCoils(pdu.AddressRange{Start: 0, Count: 10})
	assert.Equal(t, pdu.IllegalDataAddress, code)
}

func TestDefaultHandler_WriteMultipleRegistersThenReadBack(t *testing.T) {
	h := NewDefaultHandler(4, 4, 4, 4)
	_, code := h.WriteMultipleRegisters(pdu.AddressRange{Start: 1, Count: 2}, []uint16{0xAAAA, 0xBBBB})
	require.Equal(t, byte(0), code)

	resp, code := h.ReadHoldingRegisters(pdu.AddressRange{Start: 0, Count: 4})
	require.Equal(t, byte(0), code)
	assert.Equal(t, []uint16{0, 0xAAAA, 0xBBBB, 0}, resp.(*pdu.ReadHoldingRegistersResponse).Iterator().Values())
}

func TestDefaultHandler_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	h := NewDefaultHandler(4, 4, 4, 4)
	_, code := h.WriteSingleRegister(pdu.Indexed[uint16]{Index: 2, Value: 0x1234})
	require.Equal(t, byte(0), code)
	_, code = h.WriteSingleCoil(pdu.Indexed[pdu.CoilState]{Index: 1, Value: pdu.NewCoilState(true)})
	require.Equal(t, byte(0), code)

	require.NoError(t, h.Save(dir))

	loaded := NewDefaultHandler(4, 4, 4, 4)
	require.NoError(t, loaded.Load(dir))
	assert.Equal(t, h.HoldingRegisters, loaded.HoldingRegisters)
	assert.Equal(t, h.Coils, loaded.Coils)
}

func TestDefaultHandler_LoadMissingDirLeavesDefaults(t *testing.T) {
	h := NewDefaultHandler(4, 4, 4, 4)
	require.NoError(t, h.Load(filepath.Join(t.TempDir(), "missing")))
	assert.Equal(t, make([]uint16, 4), h.HoldingRegisters)
}

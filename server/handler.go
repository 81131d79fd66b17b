// Package server implements the Modbus server side: an Acceptor that
// gates concurrent connections, one ServerSession task per connection that
// decodes frames and dispatches them to a RequestHandler, and the
// in-memory DefaultHandler with optional gob persistence.
package server

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"sync"

	"github.com/gomodbus/core/pdu"
)

const (
	DefaultCoilCount            = 65535
	DefaultDiscreteInputCount   = 65535
	DefaultHoldingRegisterCount = 65535
	DefaultInputRegisterCount   = 65535

	coilsFile             = "coils.dat"
	discreteInputsFile    = "discrete_inputs.dat"
	holdingRegistersFile  = "holding_registers.dat"
	inputRegistersFile    = "input_registers.dat"
)

// RequestHandler answers one parsed request with a response or an
// exception code, addressing a single data model.
type RequestHandler interface {
	ReadCoils(rng pdu.AddressRange) (pdu.Response, byte)
	ReadDiscreteInputs(rng pdu.AddressRange) (pdu.Response, byte)
	ReadHoldingRegisters(rng pdu.AddressRange) (pdu.Response, byte)
	ReadInputRegisters(rng pdu.AddressRange) (pdu.Response, byte)
	WriteSingleCoil(point pdu.Indexed[pdu.CoilState]) (pdu.Response, byte)
	WriteSingleRegister(point pdu.Indexed[uint16]) (pdu.Response, byte)
	WriteMultipleCoils(rng pdu.AddressRange, values []bool) (pdu.Response, byte)
	WriteMultipleRegisters(rng pdu.AddressRange, values []uint16) (pdu.Response, byte)
}

// PersistableRequestHandler additionally supports loading and saving its
// data model to disk.
type PersistableRequestHandler interface {
	RequestHandler
	Load(dataPath string) error
	Save(dataPath string) error
}

// DefaultHandler is an in-memory PersistableRequestHandler: four flat
// tables, guarded by one RWMutex so reads can proceed concurrently.
type DefaultHandler struct {
	mu               sync.RWMutex
	Coils            []bool
	DiscreteInputs   []bool
	HoldingRegisters []uint16
	InputRegisters   []uint16
}

// NewDefaultHandler creates a DefaultHandler with the given register
// counts. A zero count selects the corresponding Default*Count.
func NewDefaultHandler(coilCount, discreteInputCount, holdingRegisterCount, inputRegisterCount uint32) *DefaultHandler {
	if coilCount == 0 {
		coilCount = DefaultCoilCount
	}
	if discreteInputCount == 0 {
		discreteInputCount = DefaultDiscreteInputCount
	}
	if holdingRegisterCount == 0 {
		holdingRegisterCount = DefaultHoldingRegisterCount
	}
	if inputRegisterCount == 0 {
		inputRegisterCount = DefaultInputRegisterCount
	}
	return &DefaultHandler{
		Coils:            make([]bool, coilCount),
		DiscreteInputs:   make([]bool, discreteInputCount),
		HoldingRegisters: make([]uint16, holdingRegisterCount),
		InputRegisters:   make([]uint16, inputRegisterCount),
	}
}

func (h *DefaultHandler) ReadCoils(rng pdu.AddressRange) (pdu.Response, byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	end := int(rng.Start) + int(rng.Count)
	if end > len(h.Coils) {
		return nil, pdu.IllegalDataAddress
	}
	return pdu.NewReadCoilsResponse(rng.Start, h.Coils[rng.Start:end]), 0
}

func (h *DefaultHandler) ReadDiscreteInputs(rng pdu.AddressRange) (pdu.Response, byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	end := int(rng.Start) + int(rng.Count)
	if end > len(h.DiscreteInputs) {
		return nil, pdu.IllegalDataAddress
	}
	return pdu.NewReadDiscreteInputsResponse(rng.Start, h.DiscreteInputs[rng.Start:end]), 0
}

func (h *DefaultHandler) ReadHoldingRegisters(rng pdu.AddressRange) (pdu.Response, byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	end := int(rng.Start) + int(rng.Count)
	if end > len(h.HoldingRegisters) {
		return nil, pdu.IllegalDataAddress
	}
	return pdu.NewReadHoldingRegistersResponse(rng.Start, h.HoldingRegisters[rng.Start:end]), 0
}

func (h *DefaultHandler) ReadInputRegisters(rng pdu.AddressRange) (pdu.Response, byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	end := int(rng.Start) + int(rng.Count)
	if end > len(h.InputRegisters) {
		return nil, pdu.IllegalDataAddress
	}
	return pdu.NewReadInputRegistersResponse(rng.Start, h.InputRegisters[rng.Start:end]), 0
}

func (h *DefaultHandler) WriteSingleCoil(point pdu.Indexed[pdu.CoilState]) (pdu.Response, byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if int(point.Index) >= len(h.Coils) {
		return nil, pdu.IllegalDataAddress
	}
	h.Coils[point.Index] = point.Value.Bool()
	return pdu.NewWriteSingleCoilResponse(point.Index, point.Value), 0
}

func (h *DefaultHandler) WriteSingleRegister(point pdu.Indexed[uint16]) (pdu.Response, byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if int(point.Index) >= len(h.HoldingRegisters) {
		return nil, pdu.IllegalDataAddress
	}
	h.HoldingRegisters[point.Index] = point.Value
	return pdu.NewWriteSingleRegisterResponse(point.Index, point.Value), 0
}

func (h *DefaultHandler) WriteMultipleCoils(rng pdu.AddressRange, values []bool) (pdu.Response, byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	end := int(rng.Start) + int(rng.Count)
	if end > len(h.Coils) {
		return nil, pdu.IllegalDataAddress
	}
	for i, v := range values {
		h.Coils[int(rng.Start)+i] = v
	}
	return pdu.NewWriteMultipleCoilsResponse(rng), 0
}

func (h *DefaultHandler) WriteMultipleRegisters(rng pdu.AddressRange, values []uint16) (pdu.Response, byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	end := int(rng.Start) + int(rng.Count)
	if end > len(h.HoldingRegisters) {
		return nil, pdu.IllegalDataAddress
	}
	for i, v := range values {
		h.HoldingRegisters[int(rng.Start)+i] = v
	}
	return pdu.NewWriteMultipleRegistersResponse(rng), 0
}

// Load populates the handler's tables from dataPath, leaving any table
// whose file is absent at its current (zero) value.
func (h *DefaultHandler) Load(dataPath string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := loadBoolArray(filepath.Join(dataPath, coilsFile), &h.Coils); err != nil {
		return err
	}
	if err := loadBoolArray(filepath.Join(dataPath, discreteInputsFile), &h.DiscreteInputs); err != nil {
		return err
	}
	if err := loadUint16Array(filepath.Join(dataPath, holdingRegistersFile), &h.HoldingRegisters); err != nil {
		return err
	}
	if err := loadUint16Array(filepath.Join(dataPath, inputRegistersFile), &h.InputRegisters); err != nil {
		return err
	}
	return nil
}

// Save writes the handler's tables to dataPath, creating it if needed.
func (h *DefaultHandler) Save(dataPath string) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if err := os.MkdirAll(dataPath, 0o755); err != nil {
		return err
	}
	if err := saveArray(filepath.Join(dataPath, coilsFile), h.Coils); err != nil {
		return err
	}
	if err := saveArray(filepath.Join(dataPath, discreteInputsFile), h.DiscreteInputs); err != nil {
		return err
	}
	if err := saveArray(filepath.Join(dataPath, holdingRegistersFile), h.HoldingRegisters); err != nil {
		return err
	}
	return saveArray(filepath.Join(dataPath, inputRegistersFile), h.InputRegisters)
}

func saveArray[T any](filename string, data []T) error {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()
	return gob.NewEncoder(file).Encode(data)
}

func loadBoolArray(filename string, out *[]bool) error {
	return loadArray(filename, out)
}

func loadUint16Array(filename string, out *[]uint16) error {
	return loadArray(filename, out)
}

func loadArray[T any](filename string, out *[]T) error {
	file, err := os.Open(filename)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()
	var decoded []T
	if err := gob.NewDecoder(file).Decode(&decoded); err != nil {
		return err
	}
	if len(decoded) > len(*out) {
		*out = make([]T, len(decoded))
	}
	copy(*out, decoded)
	return nil
}

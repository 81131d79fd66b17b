package server

import "github.com/gomodbus/core/pdu"

// dispatch routes a parsed request to the matching RequestHandler method
// and normalizes its result into a response PDU, building an
// ExceptionResponse when the handler reports a non-zero exception code.
func dispatch(handler RequestHandler, req pdu.Request) pdu.Response {
	var resp pdu.Response
	var code byte

	switch r := req.(type) {
	case *pdu.ReadCoilsRequest:
		resp, code = handler.ReadCoils(r.Range)
	case *pdu.ReadDiscreteInputsRequest:
		resp, code = handler.ReadDiscreteInputs(r.Range)
	case *pdu.ReadHoldingRegistersRequest:
		resp, code = handler.ReadHoldingRegisters(r.Range)
	case *pdu.ReadInputRegistersRequest:
		resp, code = handler.ReadInputRegisters(r.Range)
	case *pdu.WriteSingleCoilRequest:
		resp, code = handler.WriteSingleCoil(r.Point)
	case *pdu.WriteSingleRegisterRequest:
		resp, code = handler.WriteSingleRegister(r.Point)
	case *pdu.WriteMultipleCoilsRequest:
		resp, code = handler.WriteMultipleCoils(r.Range, r.Values)
	case *pdu.WriteMultipleRegistersRequest:
		resp, code = handler.WriteMultipleRegisters(r.Range, r.Values)
	default:
		return pdu.NewExceptionResponse(req.FunctionCode(), pdu.IllegalFunction)
	}

	if code != 0 {
		return pdu.NewExceptionResponse(req.FunctionCode(), code)
	}
	return resp
}

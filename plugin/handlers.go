package plugin

import (
	"context"
	"encoding/json"
	"fmt"
)

// HandleRequest processes a raw action payload and returns a raw response
// payload. This is the entry point for host runtimes that speak JSON
// envelopes rather than calling the typed Bridge methods directly.
func (b *Bridge) HandleRequest(ctx context.Context, requestPayload []byte) []byte {
	var req Request
	if err := json.Unmarshal(requestPayload, &req); err != nil {
		return marshalErrorResponse(fmt.Sprintf("failed to unmarshal request: %v", err))
	}

	var opErr error

	switch req.Action {
	case "open":
		if req.Spatial {
			opErr = b.OpenSpatial(req.Name, req.Path)
		} else {
			opErr = b.Open(req.Name, req.Path)
		}
	case "close":
		b.Close(req.Name)
	case "delete":
		opErr = b.Delete(req.Name, req.Path)
	case "executeSqlBatch":
		if req.Batch == nil {
			return marshalErrorResponse("executeSqlBatch requires a batch")
		}
		var sink captureSink
		b.ExecuteSqlBatch(ctx, req.Name, *req.Batch, &sink)
		if sink.errMsg != "" {
			return marshalErrorResponse(sink.errMsg)
		}
		return marshalResponse(Response{Result: sink.result})
	default:
		opErr = fmt.Errorf("unknown action: %s", req.Action)
	}

	if opErr != nil {
		return marshalErrorResponse(opErr.Error())
	}
	return marshalResponse(Response{})
}

// captureSink adapts the single-delivery Sink contract to a synchronous
// request/response exchange.
type captureSink struct {
	result json.RawMessage
	errMsg string
}

func (s *captureSink) Success(result json.RawMessage) {
	s.result = result
}

func (s *captureSink) Error(message string) {
	s.errMsg = message
}

func marshalResponse(resp Response) []byte {
	payload, err := json.Marshal(resp)
	if err != nil {
		return marshalErrorResponse(fmt.Sprintf("failed to marshal response: %v", err))
	}
	return payload
}

func marshalErrorResponse(errMsg string) []byte {
	payload, err := json.Marshal(Response{Error: errMsg})
	if err != nil {
		// Critical failure: can't even marshal the error response.
		return []byte(fmt.Sprintf(`{"error":%q}`, errMsg))
	}
	return payload
}

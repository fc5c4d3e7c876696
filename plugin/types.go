package plugin

import "encoding/json"

// --- JSON structures for host runtime communication ---

// BatchRequest is a batch of statements as submitted by the host runtime:
// three parallel lists, one entry per statement. Params and QueryIDs may be
// nil or shorter than Queries; missing parameter lists mean no bound
// parameters and missing identifiers are generated.
type BatchRequest struct {
	Queries  []string `json:"queries"`
	Params   [][]any  `json:"params,omitempty"`
	QueryIDs []string `json:"qids,omitempty"`
}

// EntryResult is the per-statement entry of the aggregated batch response.
// Result holds the statement payload for "success" entries and an
// ErrorResult for "error" entries.
type EntryResult struct {
	QueryID string          `json:"qid"`
	Type    string          `json:"type"`
	Result  json.RawMessage `json:"result"`
}

// ErrorResult carries the engine's message text for a failed statement.
type ErrorResult struct {
	Message string `json:"message"`
}

// Request is the raw-payload action envelope accepted by
// Bridge.HandleRequest.
type Request struct {
	Action  string        `json:"action"`
	Name    string        `json:"name"`
	Path    string        `json:"path,omitempty"`
	Spatial bool          `json:"spatial,omitempty"`
	Batch   *BatchRequest `json:"batch,omitempty"`
}

// Response is the raw-payload reply of Bridge.HandleRequest. Result is only
// set for executeSqlBatch and holds the aggregated entry list.
type Response struct {
	Error  string          `json:"error,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
}

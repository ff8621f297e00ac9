// Package envelope collapses the backend's optional response wrapper at a
// single point. Some endpoints wrap payloads in {success, data, message,
// timestamp}; others return the payload bare.
package envelope

import "encoding/json"

type wrapper struct {
	Success   *bool           `json:"success"`
	Data      json.RawMessage `json:"data"`
	Message   string          `json:"message"`
	Timestamp string          `json:"timestamp"`
}

// Unwrap returns the payload of body and the backend message, if any. A body
// is treated as enveloped only when it carries the "success" marker field;
// everything else passes through untouched.
func Unwrap(body []byte) (payload json.RawMessage, message string) {
	var w wrapper
	if err := json.Unmarshal(body, &w); err != nil {
		return body, ""
	}
	if w.Success == nil {
		return body, w.Message
	}
	return w.Data, w.Message
}

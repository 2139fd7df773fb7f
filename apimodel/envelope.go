package apimodel

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Envelope is the {data, message, success} wrapper some endpoints answer with.
type Envelope[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
	Success bool   `json:"success"`
}

var envelopeKeys = map[string]struct{}{"data": {}, "message": {}, "success": {}}

// Unwrap decodes raw into out. raw may be the payload itself or an Envelope
// around it; an object whose only keys are data, message and success counts
// as an envelope.
func Unwrap(raw json.RawMessage, out any) error {
	if payload, ok := envelopeData(raw); ok {
		raw = payload
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("[apimodel.Unwrap] %w", err)
	}
	return nil
}

func envelopeData(raw json.RawMessage) (json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, false
	}
	data, ok := fields["data"]
	if !ok {
		return nil, false
	}
	for k := range fields {
		if _, known := envelopeKeys[k]; !known {
			return nil, false
		}
	}
	return data, true
}

// ErrorMessage extracts the server's message from an error body: "message",
// then a string FastAPI "detail", then "error". It returns "" when none is
// present.
func ErrorMessage(raw []byte) string {
	var body struct {
		Message string          `json:"message"`
		Detail  json.RawMessage `json:"detail"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	for _, candidate := range []json.RawMessage{body.Detail, body.Error} {
		var s string
		if len(candidate) > 0 && json.Unmarshal(candidate, &s) == nil && s != "" {
			return s
		}
	}
	return ""
}

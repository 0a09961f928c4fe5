package mailgateway

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownListShape is returned when a list response matches none of the
// envelope shapes the gateway has ever been observed to produce. Callers
// get a loud failure instead of a silently empty list.
var ErrUnknownListShape = errors.New("unrecognized list response shape")

// DecodeBody parses a response body, unwrapping the API-Gateway envelope
// where the real JSON is double-encoded under a "body" string field.
// Unparsable text comes back as {"raw": <original text>} so callers always
// receive a document.
func DecodeBody(data []byte) map[string]interface{} {
	var outer map[string]interface{}
	if err := json.Unmarshal(data, &outer); err != nil {
		return map[string]interface{}{"raw": string(data)}
	}

	inner, ok := outer["body"].(string)
	if !ok {
		return outer
	}

	var unwrapped map[string]interface{}
	if err := json.Unmarshal([]byte(inner), &unwrapped); err != nil {
		return map[string]interface{}{"raw": inner}
	}
	return unwrapped
}

// ErrorMessage extracts the most specific error message a failed response
// offers: payload.message, payload.error, payload.errors[0].message, the
// raw text, then "HTTP <status>" as the last resort.
func ErrorMessage(status int, body []byte) string {
	payload := DecodeBody(body)

	if msg, ok := payload["message"].(string); ok && msg != "" {
		return msg
	}
	if msg, ok := payload["error"].(string); ok && msg != "" {
		return msg
	}
	if errs, ok := payload["errors"].([]interface{}); ok && len(errs) > 0 {
		if first, ok := errs[0].(map[string]interface{}); ok {
			if msg, ok := first["message"].(string); ok && msg != "" {
				return msg
			}
		}
	}
	if raw, ok := payload["raw"].(string); ok && raw != "" {
		return raw
	}
	return fmt.Sprintf("HTTP %d", status)
}

// NormalizeList maps the gateway's drifting list envelopes onto one slice.
// Known shapes: bare array, {items}, {Items}, {data}, {records}.
func NormalizeList(data []byte) ([]map[string]interface{}, error) {
	var bare []map[string]interface{}
	if err := json.Unmarshal(data, &bare); err == nil {
		return bare, nil
	}

	payload := DecodeBody(data)
	for _, key := range []string{"items", "Items", "data", "records"} {
		items, ok := payload[key].([]interface{})
		if !ok {
			continue
		}
		out := make([]map[string]interface{}, 0, len(items))
		for _, item := range items {
			if m, ok := item.(map[string]interface{}); ok {
				out = append(out, m)
			}
		}
		return out, nil
	}

	return nil, ErrUnknownListShape
}

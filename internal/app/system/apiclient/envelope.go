// internal/app/system/apiclient/envelope.go
package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The API answers in several shapes. A list may be a bare array or an object
// holding the array under "data" or a resource key; a single record may be a
// bare object or nested the same way. Everything above this file sees plain
// []R and R.

// statusOnlyKeys are object keys that carry no record data.
var statusOnlyKeys = map[string]bool{"success": true, "message": true, "error": true}

func decodeList[R any](body []byte, key string) ([]R, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return []R{}, nil
	}

	switch body[0] {
	case '[':
		var out []R
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return out, nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(body, &obj); err != nil {
			return nil, fmt.Errorf("decode list envelope: %w", err)
		}
		for _, k := range candidateKeys(key) {
			raw, ok := obj[k]
			if !ok {
				continue
			}
			raw = bytes.TrimSpace(raw)
			if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
				return []R{}, nil
			}
			if raw[0] == '[' {
				return decodeList[R](raw, "")
			}
			if raw[0] == '{' {
				return decodeList[R](raw, "")
			}
		}
		if onlyStatusKeys(obj) {
			return []R{}, nil
		}
		// A singleton resource answers its list call with the record itself.
		var one R
		if err := json.Unmarshal(body, &one); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		return []R{one}, nil
	}
	return nil, fmt.Errorf("decode list: unexpected body starting with %q", body[0])
}

func decodeOne[R any](body []byte, key string) (R, error) {
	var zero R
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return zero, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return zero, fmt.Errorf("decode record envelope: %w", err)
	}
	for _, k := range candidateKeys(key) {
		if raw, ok := obj[k]; ok {
			raw = bytes.TrimSpace(raw)
			if len(raw) > 0 && raw[0] == '{' {
				return decodeOne[R](raw, "")
			}
		}
	}
	if onlyStatusKeys(obj) {
		return zero, nil
	}
	var out R
	if err := json.Unmarshal(body, &out); err != nil {
		return zero, fmt.Errorf("decode record: %w", err)
	}
	return out, nil
}

func candidateKeys(key string) []string {
	if key == "" || key == "data" {
		return []string{"data"}
	}
	return []string{key, "data"}
}

func onlyStatusKeys(obj map[string]json.RawMessage) bool {
	for k := range obj {
		if !statusOnlyKeys[k] {
			return false
		}
	}
	return true
}

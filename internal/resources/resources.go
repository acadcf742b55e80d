// Package resources groups the typed endpoint wrappers, one service per
// backend entity. Services hold no view state; they translate Go calls
// into API requests and keep the short-lived client caches honest.
package resources

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// decodeList tolerates the three collection shapes the backend emits: a
// bare array, a paginated envelope under "results", or a wrapper under
// "data". Returns the items plus the total count when one was present.
func decodeList[T any](raw json.RawMessage) ([]T, int, error) {
	if len(raw) == 0 {
		return nil, 0, nil
	}

	var list []T
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, len(list), nil
	}

	var envelope struct {
		Count   int             `json:"count"`
		Results json.RawMessage `json:"results"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, 0, errors.Wrap(err, "decode collection")
	}
	inner := envelope.Results
	if inner == nil {
		inner = envelope.Data
	}
	if inner == nil {
		return nil, 0, nil
	}
	if err := json.Unmarshal(inner, &list); err != nil {
		return nil, 0, errors.Wrap(err, "decode collection items")
	}
	count := envelope.Count
	if count == 0 {
		count = len(list)
	}
	return list, count, nil
}

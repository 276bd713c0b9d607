package api

import (
	"encoding/json"
	"strings"
)

// DecodeEnum decodes a JSON string enum value and folds it to lower case. The
// API returns the same values both as SCREAMING_CASE and snake_case.
func DecodeEnum(data []byte) (string, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", err
	}
	return strings.ToLower(s), nil
}

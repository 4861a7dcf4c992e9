package users

import (
	"encoding/json"
	"fmt"
)

func encodeProfile(p map[string]any) ([]byte, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	return b, nil
}

func decodeProfile(b []byte) (map[string]any, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var p map[string]any
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if len(p) == 0 {
		return nil, nil
	}
	return p, nil
}

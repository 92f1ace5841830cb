package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// enumName returns the display name of an enum value, or a placeholder when out of range
func enumName(names []string, kind string, i int) string {
	if i >= 0 && i < len(names) {
		return names[i]
	}
	return fmt.Sprintf("%s(%d)", kind, i)
}

// parseEnum finds name in names, ignoring case
func parseEnum(names []string, kind, name string) (int, error) {
	for i, n := range names {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s: %q", kind, name)
}

func marshalEnum(names []string, kind string, i int) ([]byte, error) {
	if i < 0 || i >= len(names) {
		return nil, fmt.Errorf("invalid %s: %d", kind, i)
	}
	return json.Marshal(names[i])
}

func unmarshalEnum(data []byte, names []string, kind string) (int, error) {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return 0, err
	}
	return parseEnum(names, kind, name)
}

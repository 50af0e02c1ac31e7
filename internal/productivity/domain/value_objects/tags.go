package value_objects

import (
	"encoding/json"
	"strings"
)

// Tags is an ordered list of free-text labels.
type Tags []string

// NewTags copies labels, dropping nothing and preserving order.
func NewTags(labels []string) Tags {
	if len(labels) == 0 {
		return Tags{}
	}
	out := make(Tags, len(labels))
	copy(out, labels)
	return out
}

// Serialize returns the JSON text stored for the tags. Nil tags serialize as "[]".
func (t Tags) Serialize() (string, error) {
	if t == nil {
		t = Tags{}
	}
	raw, err := json.Marshal([]string(t))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// ParseTags decodes stored tag text. Empty text yields an empty list.
// Rows written as a single-quoted list literal, e.g. ['a', 'b'], are accepted too;
// anything else undecodable yields an empty list.
func ParseTags(raw string) Tags {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Tags{}
	}

	var labels []string
	if err := json.Unmarshal([]byte(raw), &labels); err == nil {
		return NewTags(labels)
	}

	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		quoted := strings.ReplaceAll(raw, "'", `"`)
		if err := json.Unmarshal([]byte(quoted), &labels); err == nil {
			return NewTags(labels)
		}
	}
	return Tags{}
}

// Strings returns the labels as a plain slice, never nil.
func (t Tags) Strings() []string {
	if t == nil {
		return []string{}
	}
	return []string(t)
}

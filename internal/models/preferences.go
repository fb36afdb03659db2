package models

import "strings"

// Preferences is the stored per-session topic/region record
type Preferences struct {
	Topics []string `json:"topics,omitempty"`
	Region string   `json:"region,omitempty"`
}

// PreferenceHint is the best-effort output of preference inference.
// Any field may be empty.
type PreferenceHint struct {
	Topics []string `json:"topics,omitempty"`
	Region string   `json:"region,omitempty"`
}

// IsEmpty reports whether the hint carries no topic and no region
func (h PreferenceHint) IsEmpty() bool {
	return len(h.Topics) == 0 && strings.TrimSpace(h.Region) == ""
}

// IsEmpty reports whether no preference is set
func (p Preferences) IsEmpty() bool {
	return len(p.Topics) == 0 && p.Region == ""
}

// Effective combines stored preferences with a fresh hint for a single request.
// Each hint field wins when present, otherwise the stored field is used.
func (p Preferences) Effective(hint PreferenceHint) Preferences {
	eff := Preferences{Topics: p.Topics, Region: p.Region}
	if len(hint.Topics) > 0 {
		eff.Topics = hint.Topics
	}
	if r := strings.TrimSpace(hint.Region); r != "" {
		eff.Region = r
	}
	return eff
}

// Merge unions hint topics into the stored topics and replaces the region
// when the hint has one. Topic comparison is case-insensitive and the first
// spelling seen is kept.
func (p Preferences) Merge(hint PreferenceHint) Preferences {
	merged := Preferences{
		Topics: UnionFold(p.Topics, hint.Topics),
		Region: p.Region,
	}
	if r := strings.TrimSpace(hint.Region); r != "" {
		merged.Region = r
	}
	return merged
}

// UnionFold returns the case-insensitive union of a and b in first-occurrence order.
// Blank labels are dropped.
func UnionFold(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, label := range list {
			label = strings.TrimSpace(label)
			if label == "" {
				continue
			}
			key := strings.ToLower(label)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, label)
		}
	}
	return out
}

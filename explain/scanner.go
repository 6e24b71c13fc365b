package explain

import (
	"encoding/json"
	"strings"
)

// Item is one explanation produced for a matched policy.
type Item struct {
	Title    string `json:"title"`
	Analysis string `json:"analysis"`
}

type scanState int

const (
	stateOutside scanState = iota
	stateInside
)

// ScanObjects splits text into its complete top-level {...} substrings.
// Text between objects and a stray '}' outside an object are skipped; an
// object still open at the end of input is dropped.
func ScanObjects(text string) []string {
	var (
		out   []string
		state = stateOutside
		depth int
		start int
	)
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch state {
		case stateOutside:
			if c == '{' {
				state, depth, start = stateInside, 1, i
			}
		case stateInside:
			switch c {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					out = append(out, text[start:i+1])
					state = stateOutside
				}
			}
		}
	}
	return out
}

// ParseItems decodes every scanned object that carries a title or an analysis.
func ParseItems(text string) []Item {
	var items []Item
	for _, obj := range ScanObjects(text) {
		var it Item
		if err := json.Unmarshal([]byte(obj), &it); err != nil {
			continue
		}
		it.Title = strings.TrimSpace(it.Title)
		it.Analysis = strings.TrimSpace(it.Analysis)
		if it.Title == "" && it.Analysis == "" {
			continue
		}
		items = append(items, it)
	}
	return items
}

package repos

import (
	"encoding/json"
	"html"
	"sort"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// rejectionMessages pulls displayable messages out of an API error body.
// Recognised shapes, in order of preference:
//
//	{"error":{"errors":X}}  {"error":{"message":"..."}}
//	{"errors":X}  {"message":"..."}  {"error":"..."}
//
// where X is a string, a list, or an object of field -> string/list.
func rejectionMessages(body []byte) ([]string, bool) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, false
	}

	var candidates []json.RawMessage
	if raw, ok := top["error"]; ok {
		var nested map[string]json.RawMessage
		if json.Unmarshal(raw, &nested) == nil {
			candidates = append(candidates, nested["errors"], nested["message"])
		}
	}
	candidates = append(candidates, top["errors"], top["message"], top["error"])

	for _, raw := range candidates {
		if len(raw) == 0 {
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			continue
		}
		if msgs := normalizeMessages(flatten(v)); len(msgs) > 0 {
			return msgs, true
		}
	}
	return nil, false
}

// flatten walks strings, lists and objects; object keys are visited in
// sorted order so the result is stable.
func flatten(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		var out []string
		for _, x := range t {
			out = append(out, flatten(x)...)
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var out []string
		for _, k := range keys {
			out = append(out, flatten(t[k])...)
		}
		return out
	}
	return nil
}

// normalizeMessages strips markup, trims and drops blanks and duplicates
// while keeping order.
func normalizeMessages(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, m := range in {
		m = plainText(m)
		if m == "" {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

func plainText(s string) string {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

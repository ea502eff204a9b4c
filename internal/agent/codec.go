package agent

import "encoding/json"

func decode(in any, out any) { b, _ := json.Marshal(in); _ = json.Unmarshal(b, out) }

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, _ := json.Marshal(v)
	return string(b)
}

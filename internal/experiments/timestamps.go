package experiments

import (
	"encoding/json"
	"time"
)

// TimestampLayout renders epoch timestamps reported by REST servers.
const TimestampLayout = "2006/01/02 15:04:05"

var timestampFields = []string{"startTime", "endTime"}

// ConvertTimestamps rewrites non-zero epoch-millisecond startTime and endTime
// fields of doc as UTC dates. Other values are left untouched.
func ConvertTimestamps(doc map[string]any) map[string]any {
	for _, field := range timestampFields {
		ms, ok := epochMillis(doc[field])
		if !ok || ms == 0 {
			continue
		}
		doc[field] = FormatEpochMillis(ms)
	}
	return doc
}

// FormatEpochMillis formats ms, truncated to whole seconds, in UTC.
func FormatEpochMillis(ms int64) string {
	return time.Unix(ms/1000, 0).UTC().Format(TimestampLayout)
}

func epochMillis(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil {
			return int64(f), true
		}
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}

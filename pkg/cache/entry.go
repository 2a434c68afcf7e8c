package cache

import (
	"encoding/json"
	"time"

	"github.com/matzehuels/repometa/pkg/model"
)

// entry is the persisted form of a cached record.
type entry struct {
	Timestamp string        `json:"timestamp"`
	Content   *model.Record `json:"content"`
}

// Layouts accepted when reading a timestamp without a zone offset. Such
// entries are interpreted as UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func encodeEntry(rec *model.Record, now time.Time) ([]byte, error) {
	return json.Marshal(entry{
		Timestamp: now.UTC().Format(time.RFC3339Nano),
		Content:   rec,
	})
}

// decodeEntry parses data and reports whether it holds a usable record.
func decodeEntry(data []byte) (*model.Record, time.Time, bool) {
	var e entry
	if err := json.Unmarshal(data, &e); err != nil || e.Content == nil {
		return nil, time.Time{}, false
	}
	ts, ok := parseTimestamp(e.Timestamp)
	if !ok {
		return nil, time.Time{}, false
	}
	e.Content.Normalize()
	return e.Content, ts, true
}

func parseTimestamp(s string) (time.Time, bool) {
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts.UTC(), true
	}
	for _, layout := range naiveLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// expired reports whether an entry written at ts is stale at now.
func expired(ts, now time.Time, ttl time.Duration) bool {
	return now.Sub(ts) > ttl
}

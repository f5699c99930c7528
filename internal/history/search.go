package history

import (
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"capture-gpt/backend/internal/model"
)

// Filter is a parsed sidebar search query.
type Filter struct {
	Query     string    `json:"query"`
	After     time.Time `json:"after,omitempty"`
	Before    time.Time `json:"before,omitempty"`
	HasAfter  bool      `json:"hasAfter"`
	HasBefore bool      `json:"hasBefore"`
}

var isoFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
}

// ParseQuery splits query into free text and date filters. Supported tokens:
//
//	after:yesterday   after:2024-11-01   before:last-week
//
// Dates use ISO forms or natural language relative to now (hyphens read as
// spaces). Unparseable filter tokens are dropped.
func ParseQuery(query string, now time.Time) Filter {
	var f Filter
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	var text []string
	for _, token := range strings.Fields(query) {
		switch {
		case strings.HasPrefix(token, "after:"):
			if t, ok := parseDate(w, strings.TrimPrefix(token, "after:"), now); ok {
				f.After, f.HasAfter = t, true
			}
		case strings.HasPrefix(token, "before:"):
			if t, ok := parseDate(w, strings.TrimPrefix(token, "before:"), now); ok {
				f.Before, f.HasBefore = t, true
			}
		default:
			text = append(text, token)
		}
	}
	f.Query = strings.Join(text, " ")
	return f
}

func parseDate(w *when.Parser, value string, now time.Time) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range isoFormats {
		if t, err := time.ParseInLocation(layout, value, now.Location()); err == nil {
			return t, true
		}
	}
	r, err := w.Parse(strings.ReplaceAll(value, "-", " "), now)
	if err != nil || r == nil {
		return time.Time{}, false
	}
	return r.Time, true
}

// Empty reports whether the filter matches every session.
func (f Filter) Empty() bool {
	return f.Query == "" && !f.HasAfter && !f.HasBefore
}

// Match reports whether the session title contains the query text
// (case-insensitive) and its last activity lies within the date range.
func (f Filter) Match(s model.Session) bool {
	if f.Query != "" && !strings.Contains(strings.ToLower(s.Title), strings.ToLower(f.Query)) {
		return false
	}
	last := s.LastActivity()
	if f.HasAfter && last.Before(f.After) {
		return false
	}
	if f.HasBefore && !last.Before(f.Before) {
		return false
	}
	return true
}

// Apply returns the sessions matching f, preserving order.
func (f Filter) Apply(sessions []model.Session) []model.Session {
	if f.Empty() {
		return sessions
	}
	out := make([]model.Session, 0, len(sessions))
	for _, s := range sessions {
		if f.Match(s) {
			out = append(out, s)
		}
	}
	return out
}

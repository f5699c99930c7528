package history

import (
	"math"
	"sort"
	"time"

	"capture-gpt/backend/internal/model"
)

// Bucket is a coarse recency category used to group sessions.
type Bucket string

const (
	BucketToday     Bucket = "Today"
	BucketYesterday Bucket = "Yesterday"
	BucketLastWeek  Bucket = "Previous 7 Days"
	BucketLastMonth Bucket = "Previous 30 Days"
	BucketOlder     Bucket = "Older"
)

// BucketOrder lists the buckets from most to least recent.
var BucketOrder = []Bucket{BucketToday, BucketYesterday, BucketLastWeek, BucketLastMonth, BucketOlder}

const day = 24 * time.Hour

// RecencyBucket classifies instant by the whole days elapsed until now.
// Instants in the future count as Today.
func RecencyBucket(instant, now time.Time) Bucket {
	days := math.Floor(float64(now.Sub(instant)) / float64(day))
	switch {
	case days <= 0:
		return BucketToday
	case days == 1:
		return BucketYesterday
	case days <= 7:
		return BucketLastWeek
	case days <= 30:
		return BucketLastMonth
	default:
		return BucketOlder
	}
}

// Group is one non-empty recency bucket of session summaries.
type Group struct {
	Bucket   Bucket                 `json:"bucket"`
	Sessions []model.SessionSummary `json:"sessions"`
}

// Summarize derives the list-view summary of a session at now.
func Summarize(s model.Session, now time.Time) model.SessionSummary {
	last := s.LastActivity()
	return model.SessionSummary{
		ID:           s.ID,
		Title:        s.Title,
		MessageCount: len(s.Messages),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		Bucket:       string(RecencyBucket(last, now)),
		Updated:      Relative(last, now),
	}
}

// Summaries returns the summaries of sessions ordered most recent first.
func Summaries(sessions []model.Session, now time.Time) []model.SessionSummary {
	out := make([]model.SessionSummary, 0, len(sessions))
	for _, s := range sortedByActivity(sessions) {
		out = append(out, Summarize(s, now))
	}
	return out
}

// GroupSessions buckets sessions in BucketOrder, omitting empty buckets.
// Sessions within a bucket are ordered by last activity, newest first.
func GroupSessions(sessions []model.Session, now time.Time) []Group {
	byBucket := make(map[Bucket][]model.SessionSummary, len(BucketOrder))
	for _, s := range sortedByActivity(sessions) {
		sum := Summarize(s, now)
		b := Bucket(sum.Bucket)
		byBucket[b] = append(byBucket[b], sum)
	}

	groups := make([]Group, 0, len(byBucket))
	for _, b := range BucketOrder {
		if items := byBucket[b]; len(items) > 0 {
			groups = append(groups, Group{Bucket: b, Sessions: items})
		}
	}
	return groups
}

func sortedByActivity(sessions []model.Session) []model.Session {
	sorted := append([]model.Session(nil), sessions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LastActivity().After(sorted[j].LastActivity())
	})
	return sorted
}

package models

import (
	"time"
)

// TaskOrigin marks how a task entered the system.
type TaskOrigin string

const (
	TaskOriginSlack  TaskOrigin = "slack"
	TaskOriginManual TaskOrigin = "manual"
)

// FallbackTaskTitle is used when title generation fails or returns an empty
// result.
const FallbackTaskTitle = "Slack reaction task"

type Task struct {
	ID         string     `db:"id"          json:"id"`
	UserID     string     `db:"user_id"     json:"user_id"`
	Title      string     `db:"title"       json:"title"`
	Body       string     `db:"body"        json:"body"`
	Urgency    Urgency    `db:"urgency"     json:"urgency"`
	Deadline   *time.Time `db:"deadline"    json:"deadline"`
	CreatedVia TaskOrigin `db:"created_via" json:"created_via"`
	CreatedAt  time.Time  `db:"created_at"  json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"  json:"updated_at"`
}

// DeadlineForUrgency derives the default deadline for an urgency bucket when
// the upstream source provides none: end of today, end of tomorrow, or one
// week out for "later".
func DeadlineForUrgency(urgency Urgency, now time.Time) time.Time {
	endOfDay := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
	}

	switch urgency {
	case UrgencyToday:
		return endOfDay(now)
	case UrgencyTomorrow:
		return endOfDay(now.AddDate(0, 0, 1))
	default:
		return endOfDay(now.AddDate(0, 0, 7))
	}
}

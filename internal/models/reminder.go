package models

import "time"

// Reminder is a single future notification moment.
type Reminder struct {
	ID      string    `json:"id" db:"id"`
	Kind    Kind      `json:"kind" db:"kind"`
	FireAt  time.Time `json:"fire_at" db:"fire_at"`
	Title   string    `json:"title" db:"title"`
	Message string    `json:"message" db:"message"`
}

// ReminderPlan is an ordered list of reminders for one kind. A newer plan fully
// replaces an older one.
type ReminderPlan struct {
	Kind        Kind
	GeneratedAt time.Time
	Reminders   []Reminder
}

// Empty reports whether the plan has nothing to deliver.
func (p ReminderPlan) Empty() bool {
	return len(p.Reminders) == 0
}

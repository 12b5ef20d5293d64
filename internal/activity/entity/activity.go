package entity

import "time"

// Activity is a row in the `activities` table. Category and difficulty are
// carried as opaque numeric ids; their legends live with the data owner.
type Activity struct {
	ID              int64  `db:"id" json:"activityId"`
	Title           string `db:"title" json:"title"`
	CategoryID      int64  `db:"activity_category_id" json:"activityCategoryId"`
	DurationMinutes int64  `db:"duration_minutes" json:"durationMinutes"`
	DifficultyID    int64  `db:"activity_difficulty_id" json:"activityDifficultyId"`
	Content         string `db:"content" json:"content"`
}

// CompletedActivity is an activity joined with the requesting account's
// completion record.
type CompletedActivity struct {
	Activity
	CompletedAt time.Time `db:"completed_at" json:"completedAt"`
}

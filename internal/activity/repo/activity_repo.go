package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-activity-go-stdlib/internal/activity/entity"
)

// ActivityRepo provides data access for activities and completion records
// using sqlx. Admin checks are embedded in the statements themselves, the
// way the data owner exposes them: a mutation by a non-admin account simply
// affects no rows. Methods return those raw sentinels unclassified; the
// service layer owns the mapping.
type ActivityRepo struct {
	db *sqlx.DB
}

func NewActivityRepo(db *sqlx.DB) *ActivityRepo { return &ActivityRepo{db: db} }

// EnsureTables creates the activities and activity_completions tables if
// not exists (idempotent).
func (r *ActivityRepo) EnsureTables(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS activities (
  id BIGSERIAL PRIMARY KEY,
  title TEXT NOT NULL,
  activity_category_id BIGINT NOT NULL,
  duration_minutes BIGINT NOT NULL,
  activity_difficulty_id BIGINT NOT NULL,
  content TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS activity_completions (
  id BIGSERIAL PRIMARY KEY,
  account_id BIGINT NOT NULL,
  activity_id BIGINT NOT NULL,
  completed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_activity_completions_account ON activity_completions(account_id);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// List returns all activities.
func (r *ActivityRepo) List(ctx context.Context) ([]entity.Activity, error) {
	const q = `SELECT id, title, activity_category_id, duration_minutes, activity_difficulty_id, content
	  FROM activities ORDER BY id`
	var rows []entity.Activity
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// SetCompleted records a completion for the given account.
func (r *ActivityRepo) SetCompleted(ctx context.Context, accountID, activityID int64) error {
	const q = `INSERT INTO activity_completions (account_id, activity_id) VALUES ($1, $2)`
	_, err := r.db.ExecContext(ctx, q, accountID, activityID)
	return err
}

// ListCompleted returns the account's completed activities, most recent
// completion first.
func (r *ActivityRepo) ListCompleted(ctx context.Context, accountID int64) ([]entity.CompletedActivity, error) {
	const q = `SELECT a.id, a.title, a.activity_category_id, a.duration_minutes, a.activity_difficulty_id, a.content, c.completed_at
	  FROM activity_completions c
	  JOIN activities a ON a.id = c.activity_id
	  WHERE c.account_id = $1
	  ORDER BY c.completed_at DESC`
	var rows []entity.CompletedActivity
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// Upsert creates (activityID == 0) or updates an activity on behalf of the
// given account. Returns the affected id, or 0 when the statement matched
// no rows: the account is not an admin, or the target id does not exist.
func (r *ActivityRepo) Upsert(ctx context.Context, activityID, accountID int64, a entity.Activity) (int64, error) {
	if activityID == 0 {
		const q = `INSERT INTO activities (title, activity_category_id, duration_minutes, activity_difficulty_id, content)
		  SELECT $1, $2, $3, $4, $5
		  WHERE EXISTS (SELECT 1 FROM accounts WHERE id = $6 AND is_admin)
		  RETURNING id`
		return r.scanOptionalID(ctx, q, a.Title, a.CategoryID, a.DurationMinutes, a.DifficultyID, a.Content, accountID)
	}
	const q = `UPDATE activities SET title=$1, activity_category_id=$2, duration_minutes=$3, activity_difficulty_id=$4, content=$5
	  WHERE id = $6 AND EXISTS (SELECT 1 FROM accounts WHERE id = $7 AND is_admin)
	  RETURNING id`
	return r.scanOptionalID(ctx, q, a.Title, a.CategoryID, a.DurationMinutes, a.DifficultyID, a.Content, activityID, accountID)
}

// Get returns one activity for the given account, or an empty slice when
// the account is not an admin or the id does not exist.
func (r *ActivityRepo) Get(ctx context.Context, activityID, accountID int64) ([]entity.Activity, error) {
	const q = `SELECT id, title, activity_category_id, duration_minutes, activity_difficulty_id, content
	  FROM activities
	  WHERE id = $1 AND EXISTS (SELECT 1 FROM accounts WHERE id = $2 AND is_admin)`
	var rows []entity.Activity
	if err := r.db.SelectContext(ctx, &rows, q, activityID, accountID); err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete removes an activity on behalf of the given account and reports the
// number of rows removed (0 when not admin or not found).
func (r *ActivityRepo) Delete(ctx context.Context, activityID, accountID int64) (int64, error) {
	const q = `DELETE FROM activities
	  WHERE id = $1 AND EXISTS (SELECT 1 FROM accounts WHERE id = $2 AND is_admin)`
	res, err := r.db.ExecContext(ctx, q, activityID, accountID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// scanOptionalID runs a RETURNING-id statement and maps "no rows came back"
// to the raw zero sentinel instead of an error.
func (r *ActivityRepo) scanOptionalID(ctx context.Context, q string, args ...any) (int64, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	if !rows.Next() {
		return 0, rows.Err()
	}
	var id int64
	if err := rows.Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

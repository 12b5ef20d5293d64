package activity

import (
	"context"
	"errors"
	"strconv"

	"github.com/ovaphlow/pitchfork/service-activity-go-stdlib/internal/activity/entity"
	"github.com/ovaphlow/pitchfork/service-activity-go-stdlib/internal/auth"
)

// ActivityStore is the backend contract the service needs. Implementations
// report raw sentinel results (zero id, empty rows, zero rows affected);
// this layer maps each one onto an unambiguous error per operation.
type ActivityStore interface {
	List(ctx context.Context) ([]entity.Activity, error)
	SetCompleted(ctx context.Context, accountID, activityID int64) error
	ListCompleted(ctx context.Context, accountID int64) ([]entity.CompletedActivity, error)
	Upsert(ctx context.Context, activityID, accountID int64, a entity.Activity) (int64, error)
	Get(ctx context.Context, activityID, accountID int64) ([]entity.Activity, error)
	Delete(ctx context.Context, activityID, accountID int64) (int64, error)
}

// ErrNotAuthorized means the backend rejected the caller for the operation.
// For single-entity admin reads it also covers a missing id: the two cases
// are kept indistinguishable so activity ids cannot be enumerated without
// admin rights.
var ErrNotAuthorized = errors.New("not authorized")

// ActivityService wraps the activity backend operations. Every mutation
// takes the caller's identity resolved by the gate, never an identity from
// the request payload, and calls the backend at most once.
type ActivityService struct {
	store ActivityStore
}

func NewActivityService(store ActivityStore) *ActivityService {
	return &ActivityService{store: store}
}

// accountID resolves the numeric account id from a verified identity.
// Subjects that are not account ids (test-family tokens never reach here,
// but a stale or foreign subject could) read as not authorized.
func accountID(identity auth.Identity) (int64, error) {
	id, err := strconv.ParseInt(identity.Subject, 10, 64)
	if err != nil {
		return 0, ErrNotAuthorized
	}
	return id, nil
}

// List returns all activities. An empty table is a success with an empty
// list, never a not-found.
func (s *ActivityService) List(ctx context.Context) ([]entity.Activity, error) {
	rows, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []entity.Activity{}
	}
	return rows, nil
}

// Complete records a completion for the authenticated account. The record
// is always scoped to the gate-resolved identity; there is no way to
// complete on behalf of another account.
func (s *ActivityService) Complete(ctx context.Context, identity auth.Identity, activityID int64) error {
	acct, err := accountID(identity)
	if err != nil {
		return err
	}
	return s.store.SetCompleted(ctx, acct, activityID)
}

// Completed returns the authenticated account's completed activities,
// most recent first. Empty is a success with an empty list.
func (s *ActivityService) Completed(ctx context.Context, identity auth.Identity) ([]entity.CompletedActivity, error) {
	acct, err := accountID(identity)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ListCompleted(ctx, acct)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []entity.CompletedActivity{}
	}
	return rows, nil
}

// Save creates (activityID == 0) or updates an activity.
// Backend mapping: a zero id back from the upsert means the backend's admin
// check rejected the caller (or, on update, the id does not exist) ->
// ErrNotAuthorized. Any store error is an operation failure passed up.
func (s *ActivityService) Save(ctx context.Context, identity auth.Identity, activityID int64, in entity.Activity) (int64, error) {
	acct, err := accountID(identity)
	if err != nil {
		return 0, err
	}
	id, err := s.store.Upsert(ctx, activityID, acct, in)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, ErrNotAuthorized
	}
	return id, nil
}

// Get returns one activity for an admin caller.
// Backend mapping: an empty result set means non-admin caller or missing
// id, deliberately conflated -> ErrNotAuthorized.
func (s *ActivityService) Get(ctx context.Context, identity auth.Identity, activityID int64) (*entity.Activity, error) {
	acct, err := accountID(identity)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.Get(ctx, activityID, acct)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotAuthorized
	}
	return &rows[0], nil
}

// Delete removes an activity for an admin caller.
// Backend mapping: zero rows affected -> ErrNotAuthorized (non-admin or
// missing id, same conflation as Get).
func (s *ActivityService) Delete(ctx context.Context, identity auth.Identity, activityID int64) error {
	acct, err := accountID(identity)
	if err != nil {
		return err
	}
	affected, err := s.store.Delete(ctx, activityID, acct)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotAuthorized
	}
	return nil
}

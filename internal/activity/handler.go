package activity

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-activity-go-stdlib/internal/activity/entity"
	"github.com/ovaphlow/pitchfork/service-activity-go-stdlib/internal/auth"
	"github.com/ovaphlow/pitchfork/service-activity-go-stdlib/internal/respond"
	"github.com/ovaphlow/pitchfork/service-activity-go-stdlib/internal/validate"
)

// Handler exposes the activity endpoints. Validation and the auth gate run
// as router stages before any of these methods; handlers read the identity
// from the request context and pass it to the service explicitly.
type Handler struct {
	svc    *ActivityService
	logger *zap.SugaredLogger
}

func NewHandler(svc *ActivityService, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// ActivityIDRules validates the {activityId} path parameter.
var ActivityIDRules = []validate.Rule{
	{Field: "activityId", Message: "activityId must be a valid number", Check: validate.Numeric},
}

// SaveRules validates the admin create/update body.
var SaveRules = []validate.Rule{
	{Field: "title", Message: "title must be at least 1 character long", Check: validate.NonEmpty},
	{Field: "activityCategoryId", Message: "activityCategoryId must be a valid number", Check: validate.Numeric},
	{Field: "durationMinutes", Message: "durationMinutes must be a valid number", Check: validate.Numeric},
	{Field: "activityDifficultyId", Message: "activityDifficultyId must be a valid number", Check: validate.Numeric},
	{Field: "content", Message: "content must be at least 1 character long", Check: validate.NonEmpty},
}

// identity pulls the gate-resolved identity. The gate runs before every
// handler in this package, so a missing identity is a wiring bug; answer
// with the same generic rejection rather than panic.
func (h *Handler) identity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		h.logger.Errorw("handler reached without identity", "path", r.URL.Path)
		respond.Message(w, http.StatusUnauthorized, "Unauthorized")
	}
	return id, ok
}

func pathActivityID(r *http.Request) int64 {
	// the validation stage guarantees the parameter is numeric
	id, _ := strconv.ParseInt(r.PathValue("activityId"), 10, 64)
	return id
}

// Activities lists all activities available to the user.
func (h *Handler) Activities(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Warnw("list activities failed", "err", err)
		respond.Message(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"activities": rows})
}

// Complete marks an activity as completed for the authenticated account.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	if err := h.svc.Complete(r.Context(), identity, pathActivityID(r)); err != nil {
		if errors.Is(err, ErrNotAuthorized) {
			respond.Message(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		h.logger.Warnw("set completed failed", "err", err)
		respond.Message(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond.Message(w, http.StatusCreated, "Activity set as completed")
}

// Completed lists the authenticated account's completed activities.
func (h *Handler) Completed(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	rows, err := h.svc.Completed(r.Context(), identity)
	if err != nil {
		if errors.Is(err, ErrNotAuthorized) {
			respond.Message(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		h.logger.Warnw("list completed failed", "err", err)
		respond.Message(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"activities": rows})
}

// SaveActivityRequest is the admin create/update body. Numeric fields decode
// as json.Number; the validation stage has already vetted them. There is
// deliberately no account id field: the acting identity always comes from
// the gate.
type SaveActivityRequest struct {
	Title                string      `json:"title"`
	ActivityCategoryID   json.Number `json:"activityCategoryId"`
	DurationMinutes      json.Number `json:"durationMinutes"`
	ActivityDifficultyID json.Number `json:"activityDifficultyId"`
	Content              string      `json:"content"`
}

func (req *SaveActivityRequest) toEntity() entity.Activity {
	category, _ := req.ActivityCategoryID.Int64()
	duration, _ := req.DurationMinutes.Int64()
	difficulty, _ := req.ActivityDifficultyID.Int64()
	return entity.Activity{
		Title:           req.Title,
		CategoryID:      category,
		DurationMinutes: duration,
		DifficultyID:    difficulty,
		Content:         req.Content,
	}
}

// AdminCreate creates a new activity. The admin check belongs to the
// backend operation; a rejected caller gets the same 401 as an invalid
// token, never a validation failure.
func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	h.adminSave(w, r, 0, "Could not create activity", "Activity created")
}

// AdminUpdate updates an existing activity.
func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	h.adminSave(w, r, pathActivityID(r), "Could not update activity", "Activity updated")
}

func (h *Handler) adminSave(w http.ResponseWriter, r *http.Request, activityID int64, failMessage, okMessage string) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	var req SaveActivityRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		h.logger.Debugw("invalid activity payload", "err", err)
		respond.Message(w, http.StatusBadRequest, failMessage)
		return
	}
	if _, err := h.svc.Save(r.Context(), identity, activityID, req.toEntity()); err != nil {
		if errors.Is(err, ErrNotAuthorized) {
			respond.Message(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		h.logger.Warnw("save activity failed", "err", err)
		respond.Message(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond.Message(w, http.StatusCreated, okMessage)
}

// AdminGet returns a single activity. A missing id and a non-admin caller
// are answered identically (401) so ids cannot be probed.
func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	row, err := h.svc.Get(r.Context(), identity, pathActivityID(r))
	if err != nil {
		if errors.Is(err, ErrNotAuthorized) {
			respond.Message(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		h.logger.Warnw("get activity failed", "err", err)
		respond.Message(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"activity": row})
}

// AdminDelete removes an activity.
func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), identity, pathActivityID(r)); err != nil {
		if errors.Is(err, ErrNotAuthorized) {
			respond.Message(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		h.logger.Warnw("delete activity failed", "err", err)
		respond.Message(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond.NoContent(w)
}

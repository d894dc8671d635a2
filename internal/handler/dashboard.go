package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/project-tracker/internal/repo"
	"github.com/BuzzLyutic/project-tracker/internal/service"
	"github.com/BuzzLyutic/project-tracker/internal/session"
	"github.com/BuzzLyutic/project-tracker/internal/view"
	"github.com/BuzzLyutic/project-tracker/pkg/respond"
)

// DashboardHandler turns HTTP requests into tracker intents. Sort, scope and
// pending confirmations live in the session and are never persisted.
type DashboardHandler struct {
	tracker *service.Tracker
	session *session.Session
	logger  *zap.Logger
}

func NewDashboardHandler(tracker *service.Tracker, sess *session.Session, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		tracker: tracker,
		session: sess,
		logger:  logger,
	}
}

func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	scope := h.session.Scope()
	if q := r.URL.Query().Get("project"); q != "" {
		scope = q
	}
	respond.JSON(w, r, http.StatusOK, h.tracker.Dashboard(scope, h.session.Sort()))
}

func (h *DashboardHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, h.tracker.Snapshot())
}

func (h *DashboardHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req service.ProjectInput
	if !h.decode(w, r, &req) {
		return
	}

	project, err := h.tracker.CreateProject(req)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/projects/%s", project.ID))
	respond.JSON(w, r, http.StatusCreated, project)
}

func (h *DashboardHandler) ArchiveProject(w http.ResponseWriter, r *http.Request) {
	project, ok := h.tracker.ArchiveProject(chi.URLParam(r, "id"))
	if !ok {
		h.handleErrors(w, r, service.ErrNotFound)
		return
	}
	respond.JSON(w, r, http.StatusOK, project)
}

type workflowRequest struct {
	Draft string `json:"draft"`
}

func (h *DashboardHandler) SaveWorkflow(w http.ResponseWriter, r *http.Request) {
	var req workflowRequest
	if !h.decode(w, r, &req) {
		return
	}

	project, err := h.tracker.SaveWorkflow(chi.URLParam(r, "id"), req.Draft)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, project)
}

func (h *DashboardHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req service.TaskInput
	if !h.decode(w, r, &req) {
		return
	}

	task, err := h.tracker.CreateTask(req)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/tasks/%s", task.ID))
	respond.JSON(w, r, http.StatusCreated, task)
}

// RequestAdvance is the first half of advancing a task: it records the target
// and answers with the "from -> to" preview to confirm.
func (h *DashboardHandler) RequestAdvance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	preview, err := h.tracker.PreviewAdvance(id)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	h.session.Confirmation(session.ActionAdvance).Request(id)
	respond.JSON(w, r, http.StatusAccepted, preview)
}

type removalPreview struct {
	TaskID string `json:"taskId"`
	Title  string `json:"title"`
}

func (h *DashboardHandler) RequestRemove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	task, ok := h.tracker.Snapshot().Task(id)
	if !ok {
		h.handleErrors(w, r, service.ErrNotFound)
		return
	}

	h.session.Confirmation(session.ActionRemove).Request(id)
	respond.JSON(w, r, http.StatusAccepted, removalPreview{TaskID: task.ID, Title: task.Title})
}

func (h *DashboardHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	action := session.Action(chi.URLParam(r, "action"))
	c := h.session.Confirmation(action)
	if c == nil {
		respond.Error(w, r, http.StatusNotFound, "unknown action")
		return
	}

	id, err := c.Resolve()
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	// цель могла исчезнуть между запросом и подтверждением: это no-op
	switch action {
	case session.ActionAdvance:
		task, ok := h.tracker.AdvanceTask(id)
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		respond.JSON(w, r, http.StatusOK, task)
	case session.ActionRemove:
		h.tracker.RemoveTask(id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *DashboardHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	c := h.session.Confirmation(session.Action(chi.URLParam(r, "action")))
	if c == nil {
		respond.Error(w, r, http.StatusNotFound, "unknown action")
		return
	}
	c.Cancel()
	w.WriteHeader(http.StatusNoContent)
}

type userRequest struct {
	User string `json:"user"`
}

func (h *DashboardHandler) SetCurrentUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.tracker.SetCurrentUser(req.User); err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, userRequest{User: h.tracker.CurrentUser()})
}

type sortRequest struct {
	Key string `json:"key"`
}

func (h *DashboardHandler) ToggleSort(w http.ResponseWriter, r *http.Request) {
	var req sortRequest
	if !h.decode(w, r, &req) {
		return
	}

	key, err := view.ParseSortKey(req.Key)
	if err != nil {
		respond.FieldError(w, r, http.StatusBadRequest, "key", err.Error())
		return
	}
	respond.JSON(w, r, http.StatusOK, h.session.ToggleSort(key))
}

type scopeRequest struct {
	ProjectID string `json:"projectId"`
}

func (h *DashboardHandler) SetScope(w http.ResponseWriter, r *http.Request) {
	var req scopeRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.session.SetScope(req.ProjectID)
	respond.JSON(w, r, http.StatusOK, scopeRequest{ProjectID: h.session.Scope()})
}

func (h *DashboardHandler) Reset(w http.ResponseWriter, r *http.Request) {
	snap := h.tracker.ResetDemoData()
	h.session.ResetSort()
	h.session.Confirmation(session.ActionAdvance).Cancel()
	h.session.Confirmation(session.ActionRemove).Cancel()
	respond.JSON(w, r, http.StatusOK, snap)
}

func (h *DashboardHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := respond.Decode(r, v); err != nil {
		if errors.Is(err, respond.ErrEmptyBody) {
			respond.Error(w, r, http.StatusBadRequest, "empty request body")
			return false
		}
		h.logger.Debug("failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return false
	}
	return true
}

func (h *DashboardHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		respond.FieldError(w, r, http.StatusBadRequest, verr.Field, verr.Message)
	case errors.Is(err, service.ErrNotFound), errors.Is(err, repo.ErrorNotFound):
		respond.Error(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrFinalStep):
		respond.Error(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrNothingPending):
		respond.Error(w, r, http.StatusConflict, "nothing to confirm")
	case errors.Is(err, service.ErrValidation):
		respond.Error(w, r, http.StatusBadRequest, "validation error")
	default:
		h.logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}

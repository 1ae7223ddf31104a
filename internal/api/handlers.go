package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type resetRequest struct {
	Hours int `json:"hours" validate:"required,min=1,max=24"`
}

type insertRequest struct {
	Hour   *int `json:"hour" validate:"required,min=0"`
	Minute *int `json:"minute" validate:"required,min=0,max=5"`
}

type addTaskRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

type placeRequest struct {
	SlotID string `json:"slot_id" validate:"required"`
	Title  string `json:"title" validate:"max=200"`
}

type reorderRequest struct {
	SlotID string `json:"slot_id" validate:"required"`
}

func (s *Server) getSchedule(w http.ResponseWriter, r *http.Request) {
	snap, err := s.engine.Snapshot(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "", snap)
}

func (s *Server) getPlanText(w http.ResponseWriter, r *http.Request) {
	text, err := s.engine.PlanText(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeText(w, text)
}

func (s *Server) getNotices(w http.ResponseWriter, r *http.Request) {
	notices, err := s.engine.RecentNotices(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "", notices)
}

func (s *Server) resetWindow(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.engine.Reset(r.Context(), req.Hours)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "window reset", res)
}

func (s *Server) tick(w http.ResponseWriter, r *http.Request) {
	res, err := s.engine.Tick(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "", res)
}

func (s *Server) undo(w http.ResponseWriter, r *http.Request) {
	op, err := s.engine.Undo(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "undid "+op, map[string]string{"undone": op})
}

func (s *Server) insertSlot(w http.ResponseWriter, r *http.Request) {
	var req insertRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.engine.InsertSlotAfter(r.Context(), *req.Hour, *req.Minute)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, "", res)
}

func (s *Server) deleteColumn(w http.ResponseWriter, r *http.Request) {
	hour, err := strconv.Atoi(chi.URLParam(r, "hour"))
	if err != nil || hour < 0 {
		writeError(w, r, fmt.Errorf("%w: hour must be a non-negative integer", ErrBadRequest))
		return
	}
	res, err := s.engine.DeleteColumn(r.Context(), hour)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "", res)
}

func (s *Server) addTask(w http.ResponseWriter, r *http.Request) {
	var req addTaskRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.engine.AddToPool(r.Context(), req.Title)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, "", res)
}

func (s *Server) removeTask(w http.ResponseWriter, r *http.Request) {
	res, err := s.engine.Remove(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "", res)
}

// placeTask drops a task onto a slot. An id the engine has never seen
// creates the task there.
func (s *Server) placeTask(w http.ResponseWriter, r *http.Request) {
	var req placeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.engine.Place(r.Context(), chi.URLParam(r, "id"), req.SlotID, req.Title)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "", res)
}

func (s *Server) reorderTask(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.engine.Reorder(r.Context(), chi.URLParam(r, "id"), req.SlotID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "", res)
}

func (s *Server) unscheduleTask(w http.ResponseWriter, r *http.Request) {
	res, err := s.engine.Unschedule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "", res)
}

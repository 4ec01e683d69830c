package handlers

import (
	"errors"
	"net/http"

	"github.com/silverbeer/swimcuttimes/models"
	"github.com/silverbeer/swimcuttimes/repositories"
)

// EventHandler serves the event catalog. Events are created implicitly by
// imports and standard seeding, so the HTTP surface is read-only.
type EventHandler struct {
	eventRepo repositories.EventRepository
}

func NewEventHandler(eventRepo repositories.EventRepository) *EventHandler {
	return &EventHandler{eventRepo: eventRepo}
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		events []models.Event
		err    error
	)
	if course := r.URL.Query().Get("course"); course != "" {
		events, err = h.eventRepo.ListByCourse(r.Context(), models.Course(course))
	} else {
		events, err = h.eventRepo.List(r.Context())
	}
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	response := jsonResponse{"events": events}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.eventRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			notFoundResponse(w, r)
			return
		}
		serverErrorResponse(w, r, err)
		return
	}

	response := jsonResponse{"event": event}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

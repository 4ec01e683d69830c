package handlers

import (
	"net/http"

	"github.com/silverbeer/swimcuttimes/services"
)

type MeetHandler struct {
	meetService     services.MeetService
	swimTimeService services.SwimTimeService
}

func NewMeetHandler(meetService services.MeetService, swimTimeService services.SwimTimeService) *MeetHandler {
	return &MeetHandler{meetService: meetService, swimTimeService: swimTimeService}
}

func (h *MeetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateMeetInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	meet, err := h.meetService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"meet": meet}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MeetHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "meetID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	meet, err := h.meetService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"meet": meet}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MeetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "meetID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateMeetInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	meet, err := h.meetService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"meet": meet}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MeetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "meetID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.meetService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// List returns meets, optionally filtered by a name substring via ?name=.
func (h *MeetHandler) List(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("name"); name != "" {
		meets, err := h.meetService.Search(r.Context(), name)
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		response := jsonResponse{"meets": meets}
		if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
		return
	}

	limit, offset := paginationParams(r, 50)
	meets, err := h.meetService.List(r.Context(), limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"meets": meets}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MeetHandler) ListTimes(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "meetID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	times, err := h.swimTimeService.ListByMeet(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"swim_times": times}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

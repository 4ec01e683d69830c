package handlers

import (
	"net/http"

	"github.com/silverbeer/swimcuttimes/services"
)

type SwimTimeHandler struct {
	swimTimeService services.SwimTimeService
}

func NewSwimTimeHandler(swimTimeService services.SwimTimeService) *SwimTimeHandler {
	return &SwimTimeHandler{swimTimeService: swimTimeService}
}

func (h *SwimTimeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateSwimTimeInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	swimTime, err := h.swimTimeService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"swim_time": swimTime}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SwimTimeHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "swimTimeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	swimTime, err := h.swimTimeService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"swim_time": swimTime}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SwimTimeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "swimTimeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.swimTimeService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StandardsCheck compares one swim against every applicable time standard.
func (h *SwimTimeHandler) StandardsCheck(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "swimTimeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	comparisons, err := h.swimTimeService.StandardsCheck(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"standards": comparisons}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

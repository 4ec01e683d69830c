package handlers

import (
	"net/http"
	"strconv"

	"github.com/silverbeer/swimcuttimes/models"
	"github.com/silverbeer/swimcuttimes/repositories"
	"github.com/silverbeer/swimcuttimes/services"
)

type SwimmerHandler struct {
	swimmerService  services.SwimmerService
	swimTimeService services.SwimTimeService
}

func NewSwimmerHandler(swimmerService services.SwimmerService, swimTimeService services.SwimTimeService) *SwimmerHandler {
	return &SwimmerHandler{
		swimmerService:  swimmerService,
		swimTimeService: swimTimeService,
	}
}

func (h *SwimmerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateSwimmerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	swimmer, err := h.swimmerService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"swimmer": swimmer}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SwimmerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "swimmerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	swimmer, err := h.swimmerService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"swimmer": swimmer}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SwimmerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "swimmerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateSwimmerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	swimmer, err := h.swimmerService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"swimmer": swimmer}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SwimmerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "swimmerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.swimmerService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search filters swimmers by name, gender, and age range via query params.
func (h *SwimmerHandler) Search(w http.ResponseWriter, r *http.Request) {
	filter := repositories.SwimmerFilter{Limit: 50}

	query := r.URL.Query()
	filter.Name = query.Get("name")
	filter.Gender = models.Gender(query.Get("gender"))
	if minAge := query.Get("min_age"); minAge != "" {
		n, err := strconv.Atoi(minAge)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		filter.MinAge = n
	}
	if maxAge := query.Get("max_age"); maxAge != "" {
		n, err := strconv.Atoi(maxAge)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		filter.MaxAge = n
	}
	if limit := query.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		filter.Limit = n
	}

	swimmers, err := h.swimmerService.Search(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"swimmers": swimmers}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SwimmerHandler) ListTimes(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "swimmerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	times, err := h.swimTimeService.ListBySwimmer(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"times": times}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SwimmerHandler) BestTimes(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "swimmerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	times, err := h.swimTimeService.BestTimes(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"best_times": times}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

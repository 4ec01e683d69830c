package handlers

import (
	"net/http"
	"strconv"

	"github.com/silverbeer/swimcuttimes/models"
	"github.com/silverbeer/swimcuttimes/repositories"
	"github.com/silverbeer/swimcuttimes/services"
)

// SuitHandler serves the racing suit catalog and swimmer inventories.
type SuitHandler struct {
	suitService services.SuitService
}

func NewSuitHandler(suitService services.SuitService) *SuitHandler {
	return &SuitHandler{suitService: suitService}
}

func (h *SuitHandler) CreateModel(w http.ResponseWriter, r *http.Request) {
	var input services.CreateSuitModelInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	model, err := h.suitService.CreateModel(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"suit_model": model}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SuitHandler) GetModel(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "modelID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	model, err := h.suitService.GetModelByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"suit_model": model}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SuitHandler) UpdateModel(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "modelID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateSuitModelInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	model, err := h.suitService.UpdateModel(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"suit_model": model}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SuitHandler) DeleteModel(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "modelID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.suitService.DeleteModel(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SuitHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := repositories.SuitModelFilter{
		Brand:     query.Get("brand"),
		ModelName: query.Get("model_name"),
	}
	if v := query.Get("suit_type"); v != "" {
		suitType := models.SuitType(v)
		filter.SuitType = &suitType
	}
	if v := query.Get("is_tech_suit"); v != "" {
		isTech := v == "true" || v == "1"
		filter.IsTechSuit = &isTech
	}
	if v := query.Get("gender"); v != "" {
		gender := models.Gender(v)
		filter.Gender = &gender
	}
	if v := query.Get("fina_approved"); v != "" {
		approved := v == "true" || v == "1"
		filter.FINAApproved = &approved
	}
	if v := query.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Limit = n
		}
	}

	results, err := h.suitService.SearchModels(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"suit_models": results}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SuitHandler) AddToInventory(w http.ResponseWriter, r *http.Request) {
	var input services.AddSwimmerSuitInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	suit, err := h.suitService.AddToInventory(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"suit": suit}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SuitHandler) GetSuit(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "suitID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	suit, err := h.suitService.GetSuitByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"suit": suit}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SuitHandler) UpdateSuit(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "suitID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateSwimmerSuitInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	suit, err := h.suitService.UpdateSuit(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"suit": suit}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SuitHandler) DeleteSuit(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "suitID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.suitService.DeleteSuit(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Inventory lists a swimmer's suits with lifespan stats derived from the
// catalog model. Retired suits are hidden unless ?active_only=false.
func (h *SuitHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	swimmerID, err := getIDFromURL(r, "swimmerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	activeOnly := r.URL.Query().Get("active_only") != "false"

	suits, err := h.suitService.Inventory(r.Context(), swimmerID, activeOnly)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"suits": suits}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SuitHandler) RecordWear(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "suitID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.suitService.RecordWear(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SuitHandler) Retire(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "suitID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Reason *string `json:"reason,omitempty"`
	}
	if r.ContentLength > 0 {
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}

	suit, err := h.suitService.Retire(r.Context(), id, input.Reason)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"suit": suit}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"

	"github.com/silverbeer/swimcuttimes/live"
	"github.com/silverbeer/swimcuttimes/models"
	"github.com/silverbeer/swimcuttimes/services"
)

const (
	maxImportUploadBytes = 10 << 20 // 10 MB

	defaultImportTeamType        = models.TeamTypeClub
	defaultImportSanctioningBody = "USA Swimming"
)

// ImportHandler accepts CSV uploads, validates them, runs the import
// engine and streams per-row outcomes to websocket watchers of the run.
type ImportHandler struct {
	importService services.ImportService
	hub           *live.Hub
}

func NewImportHandler(importService services.ImportService, hub *live.Hub) *ImportHandler {
	return &ImportHandler{importService: importService, hub: hub}
}

// importRunID returns the run identifier for this upload. Clients that
// want the live feed generate one, open the websocket, then send it
// along as the run_id form field; otherwise a fresh one is assigned.
func importRunID(r *http.Request) string {
	if v := r.FormValue("run_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			return id.String()
		}
	}
	return uuid.New().String()
}

func importRoom(runID string) string {
	return "import_" + runID
}

func (h *ImportHandler) openUpload(w http.ResponseWriter, r *http.Request) (multipart.File, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportUploadBytes)
	if err := r.ParseMultipartForm(maxImportUploadBytes); err != nil {
		badRequestResponse(w, r, fmt.Errorf("parsing multipart form: %w", err))
		return nil, false
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("form file %q is required", "file"))
		return nil, false
	}
	return file, true
}

func (h *ImportHandler) publish(runID string, result *services.ImportResult) {
	room := importRoom(runID)
	for _, item := range result.Items {
		h.hub.BroadcastToRoom(room, "row", item)
	}
	h.hub.BroadcastToRoom(room, "summary", result)
}

func (h *ImportHandler) ImportRoster(w http.ResponseWriter, r *http.Request) {
	file, ok := h.openUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	runID := importRunID(r)

	rows, validation, err := services.ReadRosterCSV(file)
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("reading roster csv: %w", err))
		return
	}
	validation.Merge(services.ValidateRoster(rows))
	if !validation.Valid() {
		response := jsonResponse{"run_id": runID, "validation": validation}
		if err := writeJSON(w, http.StatusUnprocessableEntity, response, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
		return
	}

	result := h.importService.ImportRoster(r.Context(), rows)
	h.publish(runID, result)

	response := jsonResponse{"run_id": runID, "validation": validation, "result": result}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ImportHandler) ImportMeets(w http.ResponseWriter, r *http.Request) {
	file, ok := h.openUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	runID := importRunID(r)

	rows, validation, err := services.ReadMeetsCSV(file)
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("reading meets csv: %w", err))
		return
	}
	validation.Merge(services.ValidateMeets(rows))
	if !validation.Valid() {
		response := jsonResponse{"run_id": runID, "validation": validation}
		if err := writeJSON(w, http.StatusUnprocessableEntity, response, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
		return
	}

	result := h.importService.ImportMeets(r.Context(), rows)
	h.publish(runID, result)

	response := jsonResponse{"run_id": runID, "validation": validation, "result": result}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ImportHandler) ImportTimes(w http.ResponseWriter, r *http.Request) {
	file, ok := h.openUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	runID := importRunID(r)

	rows, validation, err := services.ReadTimesCSV(file)
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("reading times csv: %w", err))
		return
	}
	validation.Merge(services.ValidateTimes(rows, nil, nil))
	if !validation.Valid() {
		response := jsonResponse{"run_id": runID, "validation": validation}
		if err := writeJSON(w, http.StatusUnprocessableEntity, response, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
		return
	}

	teamType := defaultImportTeamType
	switch models.TeamType(r.FormValue("team_type")) {
	case models.TeamTypeClub, models.TeamTypeHighSchool, models.TeamTypeCollege,
		models.TeamTypeNational, models.TeamTypeOlympic:
		teamType = models.TeamType(r.FormValue("team_type"))
	}
	sanctioningBody := r.FormValue("sanctioning_body")
	if sanctioningBody == "" {
		sanctioningBody = defaultImportSanctioningBody
	}

	result := h.importService.ImportTimes(r.Context(), rows, teamType, sanctioningBody)
	h.publish(runID, result)

	response := jsonResponse{"run_id": runID, "validation": validation, "result": result}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ValidateTimes runs the times CSV through the readers and validators
// without touching the database. Useful as a pre-flight before import.
func (h *ImportHandler) ValidateTimes(w http.ResponseWriter, r *http.Request) {
	file, ok := h.openUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	rows, validation, err := services.ReadTimesCSV(file)
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("reading times csv: %w", err))
		return
	}
	validation.Merge(services.ValidateTimes(rows, nil, nil))

	status := http.StatusOK
	if !validation.Valid() {
		status = http.StatusUnprocessableEntity
	}
	response := jsonResponse{"rows": len(rows), "validation": validation}
	if err := writeJSON(w, status, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

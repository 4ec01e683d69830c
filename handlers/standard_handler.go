package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/silverbeer/swimcuttimes/models"
	"github.com/silverbeer/swimcuttimes/repositories"
	"github.com/silverbeer/swimcuttimes/services"
	"github.com/silverbeer/swimcuttimes/storage"
)

const maxSheetUploadBytes = 20 << 20 // 20 MB

// StandardHandler manages time standards, including seeding them from a
// photographed or scanned cut sheet via the vision extractor.
type StandardHandler struct {
	standardService services.TimeStandardService
	visionService   services.VisionService
	uploader        storage.FileUploader
	logger          *slog.Logger
}

func NewStandardHandler(
	standardService services.TimeStandardService,
	visionService services.VisionService,
	uploader storage.FileUploader,
	logger *slog.Logger,
) *StandardHandler {
	return &StandardHandler{
		standardService: standardService,
		visionService:   visionService,
		uploader:        uploader,
		logger:          logger,
	}
}

func (h *StandardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTimeStandardInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standard, err := h.standardService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"time_standard": standard}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StandardHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "standardID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standard, err := h.standardService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"time_standard": standard}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StandardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "standardID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.standardService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *StandardHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := standardFilterFromQuery(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standards, err := h.standardService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"time_standards": standards}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SeedFromSheet accepts a multipart image upload of a cut sheet, archives
// the raw image, extracts the standards with the vision model and bulk-
// creates them. Entry-level failures are reported, not fatal.
func (h *StandardHandler) SeedFromSheet(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSheetUploadBytes)
	if err := r.ParseMultipartForm(maxSheetUploadBytes); err != nil {
		badRequestResponse(w, r, fmt.Errorf("parsing multipart form: %w", err))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("form file %q is required", "image"))
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(image)
	}

	runID := uuid.New().String()

	// Archive the raw sheet so a seeding run can be audited later. A
	// storage failure should not block the extraction itself.
	var imageURL string
	key := storage.StandardSheetKey(runID, header.Filename)
	if uploaded, err := h.uploader.Upload(r.Context(), key, contentType, bytes.NewReader(image)); err != nil {
		h.logger.WarnContext(r.Context(), "failed to archive standard sheet image",
			slog.String("key", key), slog.String("error", err.Error()))
	} else {
		imageURL = uploaded.Location
	}

	sheet, err := h.visionService.ParseSheet(r.Context(), image, contentType)
	if err != nil {
		serverErrorResponse(w, r, fmt.Errorf("extracting standards from sheet: %w", err))
		return
	}

	result := h.standardService.SeedFromSheet(r.Context(), sheet)

	response := jsonResponse{
		"run_id":    runID,
		"image_url": imageURL,
		"sheet":     sheet,
		"result":    result,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func standardFilterFromQuery(r *http.Request) (repositories.TimeStandardFilter, error) {
	var filter repositories.TimeStandardFilter
	query := r.URL.Query()

	if v := query.Get("event_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, fmt.Errorf("invalid event_id: %w", err)
		}
		filter.EventID = &id
	}
	if v := query.Get("gender"); v != "" {
		gender := models.Gender(v)
		filter.Gender = &gender
	}
	if v := query.Get("age_group"); v != "" {
		filter.AgeGroup = &v
	}
	if v := query.Get("standard_name"); v != "" {
		filter.StandardName = &v
	}
	if v := query.Get("effective_year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return filter, fmt.Errorf("invalid effective_year: %w", err)
		}
		filter.EffectiveYear = &year
	}
	return filter, nil
}

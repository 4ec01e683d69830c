package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/silverbeer/swimcuttimes/services"
)

type jsonResponse map[string]interface{}

func getIDFromURL(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %q", param, raw)
	}
	return id, nil
}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		slog.ErrorContext(r.Context(), "failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "internal server error", slog.Any("error", err), slog.String("path", r.URL.Path))
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, http.StatusInternalServerError, message)
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func notFoundResponse(w http.ResponseWriter, r *http.Request) {
	errorResponse(w, r, http.StatusNotFound, "the requested resource could not be found")
}

func conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusConflict, message)
}

func unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnauthorized, message)
}

func forbiddenResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusForbidden, message)
}

// mapServiceErrorToHTTP translates service-layer sentinels into HTTP responses.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrSwimmerNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrMeetNotFound),
		errors.Is(err, services.ErrEventNotFound),
		errors.Is(err, services.ErrSwimTimeNotFound),
		errors.Is(err, services.ErrTimeStandardNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrFollowNotFound),
		errors.Is(err, services.ErrSuitModelNotFound),
		errors.Is(err, services.ErrSwimmerSuitNotFound):
		notFoundResponse(w, r)

	case errors.Is(err, services.ErrSwimmerUSAIDConflict),
		errors.Is(err, services.ErrTeamNameConflict),
		errors.Is(err, services.ErrMeetConflict),
		errors.Is(err, services.ErrEventConflict),
		errors.Is(err, services.ErrSwimTimeConflict),
		errors.Is(err, services.ErrStandardConflict),
		errors.Is(err, services.ErrAlreadyFollowing),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrSuitModelConflict),
		errors.Is(err, services.ErrSuitAlreadyRetired):
		conflictResponse(w, r, err.Error())

	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrSwimmerNameRequired),
		errors.Is(err, services.ErrTeamNameRequired),
		errors.Is(err, services.ErrMeetNameRequired),
		errors.Is(err, services.ErrMeetInvalidDateRange),
		errors.Is(err, services.ErrMeetInvalidLanes),
		errors.Is(err, services.ErrInvalidEventDefinition),
		errors.Is(err, services.ErrInvalidGender),
		errors.Is(err, services.ErrBirthDateInFuture),
		errors.Is(err, services.ErrTimeNotPositive),
		errors.Is(err, services.ErrInvalidLane),
		errors.Is(err, services.ErrStandardYearRequired),
		errors.Is(err, services.ErrSuitBrandRequired),
		errors.Is(err, services.ErrSuitInvalidLifespan):
		badRequestResponse(w, r, err)

	case errors.Is(err, services.ErrInvalidCredentials):
		unauthorizedResponse(w, r, err.Error())
	case errors.Is(err, services.ErrForbiddenOperation):
		forbiddenResponse(w, r, err.Error())

	default:
		serverErrorResponse(w, r, err)
	}
}

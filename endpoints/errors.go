package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/EasterCompany/package-builder-service/internal/auth"
	"github.com/EasterCompany/package-builder-service/internal/builder"
	"github.com/EasterCompany/package-builder-service/internal/pricing"
	"github.com/EasterCompany/package-builder-service/internal/session"
	"github.com/EasterCompany/package-builder-service/internal/wizard"
	"github.com/EasterCompany/package-builder-service/templates"
	"github.com/EasterCompany/package-builder-service/utils"
)

type errorResponse struct {
	Error  string                      `json:"error"`
	Fields []templates.ValidationError `json:"fields,omitempty"`
}

// writeServiceError maps builder errors onto status codes. Input problems
// carry the offending fields so forms can show them inline.
func writeServiceError(w http.ResponseWriter, err error) {
	var (
		invalid    builder.ValidationErrors
		incomplete *wizard.IncompleteError
		fieldErr   *auth.FieldError
	)
	switch {
	case errors.Is(err, session.ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, "session not found")
	case errors.As(err, &invalid):
		utils.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: invalid})
	case errors.As(err, &incomplete):
		fields := make([]templates.ValidationError, 0, len(incomplete.Missing))
		for _, f := range incomplete.Missing {
			fields = append(fields, templates.ValidationError{Field: f, Message: "required"})
		}
		utils.WriteJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Fields: fields})
	case errors.As(err, &fieldErr):
		utils.WriteJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  "registration failed",
			Fields: []templates.ValidationError{{Field: fieldErr.Field, Message: fieldErr.Err.Error()}},
		})
	case errors.Is(err, pricing.ErrUnknownFeature):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, wizard.ErrStepLocked),
		errors.Is(err, wizard.ErrAtFirstStep),
		errors.Is(err, wizard.ErrTerminal),
		errors.Is(err, pricing.ErrFeatureLocked),
		errors.Is(err, builder.ErrNotAtRegistration):
		utils.WriteError(w, http.StatusConflict, err.Error())
	default:
		utils.Logger().Sugar().Errorf("HTTP: request failed: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

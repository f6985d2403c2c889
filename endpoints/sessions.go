package endpoints

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/EasterCompany/package-builder-service/internal/builder"
	"github.com/EasterCompany/package-builder-service/internal/wizard"
	"github.com/EasterCompany/package-builder-service/utils"
)

// StartSessionHandler opens a new journey.
func StartSessionHandler(svc *builder.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := svc.Start(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusCreated, rec)
	}
}

// SessionHandler loads or clears one journey.
func SessionHandler(svc *builder.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		switch r.Method {
		case http.MethodGet:
			rec, err := svc.Get(r.Context(), id)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			utils.WriteJSON(w, http.StatusOK, rec)
		case http.MethodDelete:
			if err := svc.Clear(r.Context(), id); err != nil {
				writeServiceError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// UpdateAnswerHandler applies {field, value}, or toggles one option of a
// preference set when {field, toggle} is sent instead.
func UpdateAnswerHandler(svc *builder.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Field  string      `json:"field"`
			Value  interface{} `json:"value"`
			Toggle string      `json:"toggle,omitempty"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		id := mux.Vars(r)["id"]

		var err error
		var result interface{}
		if req.Toggle != "" {
			result, err = svc.ToggleTag(r.Context(), id, req.Field, req.Toggle)
		} else {
			result, err = svc.UpdateField(r.Context(), id, req.Field, req.Value)
		}
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, result)
	}
}

// NavigateHandler runs one journey move: next, back, jump or start-over.
func NavigateHandler(svc *builder.Service, action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		ctx := r.Context()

		var (
			result interface{}
			err    error
		)
		switch action {
		case "next":
			result, err = svc.Next(ctx, id)
		case "back":
			result, err = svc.Back(ctx, id)
		case "jump":
			var req struct {
				Step json.RawMessage `json:"step"`
			}
			if !decodeBody(w, r, &req) {
				return
			}
			step, ok := parseStep(req.Step)
			if !ok {
				utils.WriteError(w, http.StatusBadRequest, "unknown step")
				return
			}
			result, err = svc.JumpTo(ctx, id, step)
		case "start-over":
			result, err = svc.StartOver(ctx, id)
		default:
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, result)
	}
}

// parseStep accepts a step index or its name.
func parseStep(raw json.RawMessage) (wizard.Step, bool) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		if n, err := strconv.Atoi(name); err == nil {
			return wizard.Step(n), wizard.Step(n).Valid()
		}
		return wizard.ParseStep(name)
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return wizard.Step(n), wizard.Step(n).Valid()
}

// ProgressHandler reports per-step completion for the step indicator.
func ProgressHandler(svc *builder.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := svc.Progress(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, report)
	}
}

// RegisterHandler completes the registration step.
func RegisterHandler(svc *builder.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Password        string `json:"password"`
			ConfirmPassword string `json:"confirm_password"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		reg, err := svc.Register(r.Context(), mux.Vars(r)["id"], req.Password, req.ConfirmPassword)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusCreated, reg)
	}
}

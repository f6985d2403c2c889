package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/EasterCompany/package-builder-service/internal/builder"
	"github.com/EasterCompany/package-builder-service/internal/wizard"
	"github.com/EasterCompany/package-builder-service/templates"
	"github.com/EasterCompany/package-builder-service/utils"
)

// PackageHandler returns the session's package, generating it if needed.
// ?format=text returns the printable summary instead of JSON.
func PackageHandler(svc *builder.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pkg, err := svc.Package(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if r.URL.Query().Get("format") == "text" {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = w.Write([]byte(templates.FormatPackage(pkg)))
			return
		}
		utils.WriteJSON(w, http.StatusOK, pkg)
	}
}

// ToggleFeatureHandler adds or removes one package feature.
func ToggleFeatureHandler(svc *builder.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Feature string `json:"feature"`
			Enabled bool   `json:"enabled"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		pkg, err := svc.ToggleFeature(r.Context(), mux.Vars(r)["id"], req.Feature, req.Enabled)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, pkg)
	}
}

// QuoteHandler prices a set of answers without a session.
func QuoteHandler(svc *builder.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var answers wizard.Answers
		if !decodeBody(w, r, &answers) {
			return
		}
		utils.WriteJSON(w, http.StatusOK, svc.Quote(answers))
	}
}

// FieldsHandler lists the answer fields and their rules.
func FieldsHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, templates.GetFields())
}

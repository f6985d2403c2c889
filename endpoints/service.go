package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/EasterCompany/package-builder-service/utils"
)

// ServiceHandler provides a status report for the service.
func ServiceHandler(metrics *utils.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := utils.GetVersion()

		// Shortened version string for the report.
		displayVersion := utils.VersionReport{
			Str: version.Obj.Short(),
			Obj: version.Obj,
		}

		report := utils.ServiceReport{
			Version: displayVersion,
			Health:  utils.GetHealth(),
			Metrics: metrics.Summary(),
		}

		w.Header().Set("Content-Type", "application/json")

		// Check health status to set the correct HTTP status code
		if report.Health.Status == "OK" {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		if err := json.NewEncoder(w).Encode(report); err != nil {
			utils.Logger().Sugar().Errorf("Failed to encode service report: %v", err)
		}
	}
}

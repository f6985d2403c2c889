package utils

// ServiceReport defines the structure for the /service endpoint response.
type ServiceReport struct {
	Version VersionReport          `json:"version"`
	Health  Health                 `json:"health"`
	Metrics map[string]interface{} `json:"metrics"`
}

// VersionReport holds all version-related information for a service.
type VersionReport struct {
	Str string  `json:"str"`
	Obj Version `json:"obj"`
}

// Version holds the components of a build version.
type Version struct {
	Major     string `json:"major"`
	Minor     string `json:"minor"`
	Patch     string `json:"patch"`
	Branch    string `json:"branch"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	Arch      string `json:"arch"`
	BuildHash string `json:"build_hash,omitempty"`
}

// Health represents the health status of the service.
type Health struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Message string `json:"message"`
}

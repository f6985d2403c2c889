package utils

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// These are set at build time using -ldflags
var (
	VersionStr = "0.1.0"
	Branch     = "main"
	Commit     = "dev"
	BuildDate  = "unknown"
	BuildHash  = ""
)

// SetVersion overrides the build information, ignoring empty values.
func SetVersion(version, branch, commit, buildDate, buildHash string) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&VersionStr, version)
	set(&Branch, branch)
	set(&Commit, commit)
	set(&BuildDate, buildDate)
	set(&BuildHash, buildHash)
}

// GetVersion constructs and returns the version information for the service.
func GetVersion() VersionReport {
	commitShort := Commit
	if len(Commit) > 7 {
		commitShort = Commit[:7]
	}
	major, minor, patch := parseVersionTag(VersionStr)

	v := Version{
		Major:     major,
		Minor:     minor,
		Patch:     patch,
		Branch:    Branch,
		Commit:    commitShort,
		BuildDate: BuildDate,
		Arch:      fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		BuildHash: BuildHash,
	}

	str := fmt.Sprintf("%s.%s.%s.%s.%s.%s.%s", v.Major, v.Minor, v.Patch, v.Branch, v.Commit, v.BuildDate, v.Arch)
	if v.BuildHash != "" {
		str += "." + v.BuildHash
	}
	return VersionReport{Str: str, Obj: v}
}

// Short returns the MAJOR.MINOR.PATCH part of the version.
func (v Version) Short() string {
	return fmt.Sprintf("%s.%s.%s", v.Major, v.Minor, v.Patch)
}

// parseVersionTag splits "v1.2.3" into its parts, using 0 for anything
// missing or non-numeric.
func parseVersionTag(tag string) (string, string, string) {
	parts := strings.SplitN(strings.TrimPrefix(strings.TrimSpace(tag), "v"), ".", 3)
	out := [3]string{"0", "0", "0"}
	for i, p := range parts {
		if _, err := strconv.Atoi(p); err == nil {
			out[i] = p
		}
	}
	return out[0], out[1], out[2]
}

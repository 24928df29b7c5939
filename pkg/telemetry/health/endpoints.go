package health

import (
	"encoding/json"
	"net/http"
	"runtime"
	"strings"
)

// VersionInfo contains build and version information.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// LivenessHandler serves the liveness report. It always answers 200.
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		writeJSON(w, r, http.StatusOK, c.CheckLiveness(r.Context()))
	}
}

// ReadinessHandler serves the readiness report.
//
// Returns:
//   - 200 OK: all checks passed and the last run succeeded
//   - 503 Service Unavailable: a check failed or the last run errored
//
// Example response:
//
//	{
//	    "status": "degraded",
//	    "checks": {"findings_store": {"status": "unhealthy", "message": "database is locked"}},
//	    "last_run": {"run_id": "...", "findings": 3, "completed_at": "..."},
//	    "timestamp": "2026-01-01T10:30:00Z"
//	}
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		status := c.CheckReadiness(r.Context())

		code := http.StatusOK
		if status.Status != StatusReady {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, r, code, status)
	}
}

// VersionHandler serves build information.
func VersionHandler(version, commit, buildTime string) http.HandlerFunc {
	info := VersionInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		writeJSON(w, r, http.StatusOK, info)
	}
}

// Mount registers the liveness handler at healthPath and the readiness and
// version handlers below it:
//
//	/health          liveness
//	/health/ready    readiness
//	/health/version  version
func Mount(mux *http.ServeMux, checker *Checker, healthPath string, info VersionInfo) {
	base := strings.TrimSuffix(healthPath, "/")
	if base == "" {
		base = "/health"
	}

	mux.HandleFunc(base, checker.LivenessHandler())
	mux.HandleFunc(base+"/ready", checker.ReadinessHandler())
	mux.HandleFunc(base+"/version", VersionHandler(info.Version, info.Commit, info.BuildTime))
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if r.Method != http.MethodHead {
		_ = json.NewEncoder(w).Encode(body)
	}
}

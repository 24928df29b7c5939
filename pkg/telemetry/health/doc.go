// Package health provides the HTTP health endpoints served in watch mode.
//
// Liveness always reports ok together with the last lint run. Readiness runs
// the registered component checks (for example a findings store ping) and is
// degraded when any check fails or the most recent lint run returned an error.
// Findings themselves never make the service unhealthy.
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("findings_store", store.Ping)
//	health.Mount(mux, checker, "/health", health.VersionInfo{Version: version})
package health

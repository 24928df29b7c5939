// Package server runs the HTTP endpoint that watch mode exposes for
// Prometheus scrapes and health probes.
//
//	mux := http.NewServeMux()
//	mux.Handle("/metrics", collector.Handler())
//	health.Mount(mux, checker, "/health", info)
//
//	srv := server.New(cfg.Watch, tracer.HTTPMiddleware(mux), logger)
//	go srv.Start(ctx)
//
// Every request gets an X-Request-ID, is logged, and is protected against
// handler panics. Start returns after a graceful shutdown once ctx is done.
package server

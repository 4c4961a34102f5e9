// Package httpserver is the admin REST gateway over the command log, routed
// with chi.
//
//	GET  /v1/healthz
//	GET  /v1/stats
//	GET  /v1/log?offset=N
//	GET  /v1/commands?filter=<CEL>
//	POST /v1/commands        raw newline-terminated body
//	GET  /v1/seek?cmd=K&offset=J
//
// Example:
//
//	s := httpserver.New(commandsvc.New(rt), logger, httpserver.Options{})
//	_ = s.ListenAndServe(ctx, ":8080")
package httpserver

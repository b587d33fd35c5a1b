// Package api hosts the optional debug HTTP listener. Notable routes:
//   - GET /healthz for liveness probes.
//   - GET /metrics for Prometheus scraping.
//   - GET /runs for recent run summaries when a run store is configured.
package api

// Package telemetry defines the documents exchanged with the metrics backend:
// push Events delivered one per websocket message, and pull Snapshots
// returned by GET /api/metrics.
//
// Snapshots fully replace each other. Nothing in this package merges or
// aggregates; the backend is the source of truth.
package telemetry

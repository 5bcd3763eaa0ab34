/*
Package metrics defines Prometheus instrumentation for the gateway,
cache and timer. Metrics are registered at init; Handler exposes the
standard scrape endpoint for anyone who wants to mount it.
*/
package metrics

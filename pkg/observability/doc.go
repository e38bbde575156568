/*
Package observability turns the engine's lifecycle hooks into structured logs
and Prometheus metrics.
*/
package observability

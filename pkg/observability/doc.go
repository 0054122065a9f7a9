/*
Package observability binds the engine's lifecycle hooks to monitoring backends.

Metrics exports Prometheus counters, gauges and a latency histogram for gate and
connection churn and for evaluation passes. LoggingHooks traces the same events
through slog, and Combine fans one event out to several hook sets.
*/
package observability

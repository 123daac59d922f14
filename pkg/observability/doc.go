/*
Package observability provides tools for monitoring the questflow engine.

It turns engine lifecycle hooks into Prometheus metrics and structured log lines,
and merges several hook sets into one so hosts can attach both.
*/
package observability

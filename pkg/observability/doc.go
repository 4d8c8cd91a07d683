/*
Package observability provides lifecycle hooks for monitoring the Arbor engine.

Metrics exposes expansion counters and size histograms for Prometheus, and
LoggingHooks writes one structured log record per expansion event. Both
return domain.LifecycleHooks and can be combined with domain.ChainHooks.
*/
package observability

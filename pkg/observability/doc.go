/*
Package observability turns the conversation loop's lifecycle events into
Prometheus metrics.

A Recorder exposes LifecycleHooks that the agent invokes as it works; wire
them in via voyant.WithLifecycleHooks and mount the registry on an HTTP
server with promhttp. Hooks from multiple sources can be combined with
Combine, so metrics and event streaming coexist on the same loop.
*/
package observability

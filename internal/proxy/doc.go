// Package proxy implements the module object handed to callers in place of
// an introspected namespace. A Proxy resolves names in two tiers: its own
// attributes (override-provided values, some of them intercepted to emit
// deprecation warnings) and then the wrapped module. A miss on both tiers is
// reported exactly as the wrapped module reports it.
package proxy

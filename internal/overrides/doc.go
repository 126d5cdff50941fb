// Package overrides binds hand-written override units onto introspected
// namespaces.
//
// For each namespace the Loader creates a proxy.Proxy around the raw
// module, registers it under every configured prefix, and asks its Finder
// for the namespace's override unit. A namespace without a unit falls back
// to the raw module. Otherwise every name in the unit's export list is copied
// onto the proxy, and attributes the unit flagged with
// RegisterDeprecatedAttribute are replaced by warning interceptors.
//
// Only ErrNoOverride from a Finder is recovered from. A unit that exists but
// fails to evaluate, or whose exports are inconsistent, aborts the bind.
package overrides

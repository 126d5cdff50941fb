// Package app contains the core application logic. It wires the override
// loader to its unit sources and the namespace repository, and describes
// the resulting effective modules, decoupled from any specific entrypoint
// like a CLI.
package app

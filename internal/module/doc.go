// Package module describes the introspected API surface that the override
// layer wraps. A Module is an opaque, read-only collaborator: attributes are
// looked up by name and enumerated with Dir. Func and Class carry the
// explicit metadata (name and origin namespace) that override helpers rely on.
package module

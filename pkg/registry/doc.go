// Package registry provides a generic, thread-safe name -> item registry.
// The engine keeps one per-rig state record in it, created when a rig is
// registered and dropped when the rig is removed.
package registry

// Package testutil provides utilities for testing rigkit components.
//
// Key components:
//   - TestEnvironment: isolated config and captured log output per test
//   - RigBuilder: declarative rig setup
//   - CiriScene: the shared fixture used across packages
//
// Usage guidelines:
//   - Build scenes inline with the builders, not from files on disk
//   - Each test should be completely isolated with no shared state
package testutil

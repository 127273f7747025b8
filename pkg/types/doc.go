// Package types holds the value model shared by every rigkit package:
// typed property values, ordered property scopes and the per-rig selection.
package types

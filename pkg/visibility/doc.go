// Package visibility decides whether objects, vertex groups and shape keys
// apply under the current character, outfit and hair selection.
package visibility

// Package scene models the parts of the host scene graph rigkit reads and
// writes: rigs with their property scopes and bones, object hierarchies with
// vertex groups, shape keys and modifiers, shader node trees, collections and
// stepped animation keys.
//
// The model stands in for the host application. Writes the host would
// re-evaluate advance Scene.Epoch, which the depsgraph driver in pkg/host
// uses to detect feedback loops.
package scene

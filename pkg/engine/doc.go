// Package engine keeps one state record per registered rig and runs the
// two-phase update around the host's scene evaluation.
//
// PreUpdate captures a property snapshot of every rig. When the snapshot
// differs from the last one, materials are synced immediately and the rig is
// marked dirty and queued. PostUpdate, which the host fires after its own
// evaluation, runs the mesh pipeline on queued dirty rigs. Hide flags, vertex
// weights and shape keys are only written in the post phase or from UI
// setters, never during PreUpdate.
//
// Rigs register and unregister through scene.Listener events. The setters
// are safe to call from other goroutines.
package engine

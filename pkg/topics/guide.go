package topics

import (
	"embed"
	"io/fs"
)

//go:embed guide/*.md
var guide embed.FS

// Guide returns the embedded rig authoring guide
func Guide() fs.FS {
	sub, err := fs.Sub(guide, "guide")
	if err != nil {
		panic(err)
	}
	return sub
}

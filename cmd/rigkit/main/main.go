package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/rigkit/cmd/rigkit"
	"github.com/arthur-debert/rigkit/pkg/output/styles"
)

func main() {
	rootCmd := rigkit.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		errorStyle := styles.GetStyle("Error")
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	databag "github.com/provisio/databag/cmd/databag"
)

func main() {
	rootCmd := databag.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

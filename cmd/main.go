package main

import (
	"fmt"
	"os"
)

// zksum - proves the sum of two private u32 values and manages the proof artifacts
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

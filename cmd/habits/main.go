package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError prints err for the user. Rejected input is expected and gets
// only the message; anything else is also logged as a fault.
func reportError(w io.Writer, err error) {
	var r rejected
	if errors.As(err, &r) {
		fmt.Fprintf(w, "✗ %v\n", err)
		return
	}

	slog.Error("habits failed", "error", err)
	fmt.Fprintf(w, "Error: %v\n", err)
}

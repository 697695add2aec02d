package main

import (
	"errors"
	"fmt"
	"os"
)

// reportedError marks an error already printed by the console report.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

func main() {
	if err := rootCmd.Execute(); err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintf(os.Stderr, "Error! %v\n", err)
		}
		os.Exit(1)
	}
}

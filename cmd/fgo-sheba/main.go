package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Exit codes
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitInvalidArgs  = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		if errors.Is(err, errUsage) {
			return ExitInvalidArgs
		}
		return ExitGeneralError
	}
	return ExitSuccess
}

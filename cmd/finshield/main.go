package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/vvka-141/finshield/internal/cli"
	"github.com/vvka-141/finshield/pkg/finshield"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(finshield.ExitPanic)
		}
	}()

	if err := cli.Execute(); err != nil {
		os.Exit(finshield.ExitCodeForError(err))
	}
}

package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/vvka-141/fxload/internal/cli"
	"github.com/vvka-141/fxload/pkg/fxload"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(fxload.ExitPanic)
		}
	}()

	if os.Getenv("FXLOAD_TEST_PANIC") == "1" {
		panic("intentional test panic")
	}

	if err := cli.Execute(); err != nil {
		os.Exit(fxload.ExitCodeForError(err))
	}
}

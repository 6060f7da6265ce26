package main

import (
	"errors"
	"fmt"
	"os"

	"rowpool/internal/faults"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, faults.ErrCanceled) {
			fmt.Fprintln(os.Stderr, err)
		} else {
			fmt.Fprintln(os.Stderr, "canceled")
		}
		os.Exit(faults.ExitCode(err))
	}
}

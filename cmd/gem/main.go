// Package main is the entry point for the gem CLI.
package main

import (
	"fmt"
	"os"

	"github.com/f3rmion/gematria/cmd/gem/cmd"
	"github.com/f3rmion/gematria/internal/errors"
	"github.com/f3rmion/gematria/internal/logger"
)

func main() {
	err := cmd.Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintln(os.Stderr, "Hint:", hint)
		}
		os.Exit(1)
	}
}

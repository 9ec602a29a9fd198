package main

import (
	"os"

	"github.com/lcpu-club/openvscode-farm/cmd"
	"github.com/lcpu-club/openvscode-farm/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}

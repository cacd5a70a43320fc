package main

import (
	"os"

	"ghforecast/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		cmd.PrintError(err)
		os.Exit(cmd.ExitCode(err))
	}
}

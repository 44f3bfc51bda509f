package main

import (
	"os"

	"github.com/solatis/seedkeeper/cmd/seedkeeper/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

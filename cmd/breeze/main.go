// Package main provides the entry point for the breeze CLI, a front end
// for managing a SummerCart64 through the sc64deployer binary.
package main

import (
	"os"

	"github.com/breeze64/breeze/pkg/breeze/logging"
)

func main() {
	err := Execute()
	_ = logging.Close()
	if err != nil {
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/signalsfoundry/orbit-simulator/internal/cli"
)

func main() {
	if err := cli.Execute(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "orbitsim:", err)
		os.Exit(1)
	}
}

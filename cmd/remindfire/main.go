package main

import (
	"fmt"
	"github.com/RezaEskandarii/remindfire/internal/cli"
	"os"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

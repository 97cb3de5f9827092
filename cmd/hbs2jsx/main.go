package main

import (
	"os"

	"github.com/gnolang/hbs2jsx/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

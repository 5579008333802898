package main

import (
	"os"

	"github.com/Nimos95/product-sandbox/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

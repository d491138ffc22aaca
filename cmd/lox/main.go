package main

import (
	"os"

	"lox/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

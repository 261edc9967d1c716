package main

import (
	"fmt"
	"os"

	"portlens/api"
	"portlens/cli"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "serve" {
		if err := api.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}

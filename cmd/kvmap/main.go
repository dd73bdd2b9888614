package main

import (
	"fmt"
	"os"
)

func main() {
	rc, err := Cli(os.Args[1:], NewCliConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "kvmap: %v\n", err)
	}
	os.Exit(rc)
}

package main

import (
	"fmt"
	"os"

	"github.com/goliatone/go-schemadoc/cmd/schemadoc/root"
)

func main() {
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/compozy/tagflat/cli"
)

func main() {
	cmd := cli.RootCmd()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		// Exit with error code 1 if command execution fails
		os.Exit(1)
	}
}

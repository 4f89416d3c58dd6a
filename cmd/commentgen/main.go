package main

import (
	"fmt"
	"os"

	"github.com/gonz247/commentgenerator/cmd"
	"github.com/gonz247/commentgenerator/config"
)

func main() {
	ctx := &config.Context{}
	if err := cmd.RootCommand(ctx).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

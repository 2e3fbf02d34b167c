package main

import (
	"context"
	"os"

	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/cmd/churnctl/cli"
)

func main() {
	if err := cli.NewCommand(cli.Config{}).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

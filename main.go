package main

import (
	"context"
	"os"

	"github.com/motorq-lab/motorq/pkg/cli"
	"github.com/motorq-lab/motorq/pkg/utils/apperr"
)

func main() {
	ctx := context.Background()
	if err := cli.Run(ctx, os.Args); err != nil {
		apperr.Handle(ctx, err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/magic-gear/calcifer/internal/commands"
	cerrors "github.com/magic-gear/calcifer/internal/errors"
	"github.com/magic-gear/calcifer/output"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := commands.RootCmd()
	rootCmd.AddCommand(commands.CreateCmd())
	rootCmd.AddCommand(commands.FeaturesCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, cerrors.ErrCancelled) {
			output.Error(err.Error())
		}
		os.Exit(1)
	}
}

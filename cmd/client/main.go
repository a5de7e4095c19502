package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"user_manager/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, cli.DefaultBuilder(os.Stderr), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

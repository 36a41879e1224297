// cmd/arsetup/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/xrdesk/arsetup/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

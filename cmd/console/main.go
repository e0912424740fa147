// evep is the terminal admin console.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/TELY01-DEV/evep-admin/console"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := console.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

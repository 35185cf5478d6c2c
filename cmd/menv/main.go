package main

import (
	"context"
	"fmt"
	"os"

	app "github.com/lwmacct/261015-go-bin-menv/internal/command/menv"
	"github.com/lwmacct/261015-go-bin-menv/internal/logging"
)

func main() {
	if err := logging.Init(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(app.Execute(context.Background(), app.Command, os.Args))
}

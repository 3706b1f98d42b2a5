// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Command avrodisiac lints Avro schema files and checks that schema sets
// stay compatible.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dacolabs/avrodisiac/cmd/internal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := internal.Run(ctx, os.Getenv)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

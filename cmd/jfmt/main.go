// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Program jfmt formats, validates, and inspects JSON documents.
//
// Usage:
//
//	jfmt format [--stream] [--write] [--save] [FILE...]
//	jfmt minify [--stream] [FILE...]
//	jfmt validate [--json] [FILE...]
//	jfmt highlight [--html] [FILE]
//	jfmt tree [--select PATH] [FILE]
//	jfmt get PATH [FILE]
//	jfmt history list|show|save|delete|clear
//
// Run "jfmt --help" for the complete list of flags.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/creachadair/jfmt/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

const (
	exitOK      = 0
	exitInvalid = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run dispatches a subcommand and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return exitUsage
	}
	cfg, err := loadConfig(".env")
	if err != nil {
		fmt.Fprintln(stderr, "okskema:", err)
		return exitUsage
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "validate":
		return validateCmd(ctx, cfg, rest, stdin, stdout, stderr)
	case "schemas":
		return schemasCmd(stdout)
	case "serve":
		return serveCmd(ctx, cfg, rest, stderr)
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return exitOK
	default:
		usage(stderr)
		return exitUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `okskema validates JSON and YAML documents against named schemas.

Usage:
  okskema validate -schema NAME [-format json|yaml] [-lang en|ja] [-concurrency N] [-json] [FILE...]
  okskema schemas
  okskema serve [-addr :8080]

Environment (also read from .env):
  OKSKEMA_LANG, OKSKEMA_FORMAT, OKSKEMA_CONCURRENCY, OKSKEMA_LOG_LEVEL,
  OKSKEMA_ADDR, OKSKEMA_MAX_BODY_BYTES

Exit status is 0 when every document is valid, 1 when any is invalid and
2 on usage or input errors.`)
}

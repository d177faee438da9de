// Command inkwell - консольный клиент Inkwell: учётная запись и заметки из терминала.
package main

import (
	"Inkwell/internal/cli/commands"
	"Inkwell/internal/config"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Заполняются при сборке: -ldflags "-X main.version=... -X main.commit=...".
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// -h печатает справку по командам, а не сырой список флагов
	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), commands.FormatGlobalUsage()) }
	cfg := config.NewConfig()

	if cfg.Version {
		writeVersion(os.Stdout, cfg)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := commands.Dispatch(ctx, cfg, flag.Args())
	stop()
	os.Exit(code)
}

// writeVersion печатает версию клиента и куда он ходит.
func writeVersion(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "inkwell %s (commit %s, built %s)\n", version, commit, buildDate)
	fmt.Fprintf(w, "  server:     %s\n", cfg.ServerURL)
	fmt.Fprintf(w, "  token file: %s\n", cfg.TokenFile)
}

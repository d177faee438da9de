package commands

import (
	"Inkwell/internal/config"
	"context"
	"errors"
	"fmt"
	"strings"
)

// Коды выхода клиента.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

func isHelpArg(a string) bool {
	return a == "-h" || a == "--help" || a == "help"
}

// Dispatch выполняет команду по args (флаги уже разобраны config.NewConfig)
// и возвращает код выхода процесса.
func Dispatch(ctx context.Context, cfg *config.Config, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return ExitUsage
	}

	name := strings.ToLower(args[0])
	if isHelpArg(name) {
		if len(args) == 1 {
			fmt.Fprint(Out, FormatGlobalUsage())
			return ExitOK
		}
		return help(args[1])
	}

	c, ok := Get(name)
	if !ok {
		unknown(name)
		return ExitUsage
	}
	// inkwell login --help
	if len(args) == 2 && isHelpArg(args[1]) {
		fmt.Fprint(Out, FormatCommandUsage(c))
		return ExitOK
	}

	err := c.Run(ctx, cfg, args[1:])
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUsage):
		fmt.Fprint(Out, FormatCommandUsage(c))
		return ExitUsage
	default:
		fmt.Fprintf(Out, "inkwell %s: %v\n", name, err)
		return ExitError
	}
}

func help(name string) int {
	c, ok := Get(strings.ToLower(name))
	if !ok {
		unknown(name)
		return ExitUsage
	}
	fmt.Fprint(Out, FormatCommandUsage(c))
	return ExitOK
}

func unknown(name string) {
	fmt.Fprintf(Out, "Unknown command: %s\n", name)
	if s := Suggest(name); len(s) > 0 {
		fmt.Fprintf(Out, "Did you mean: %s?\n", strings.Join(s, ", "))
	}
	fmt.Fprintln(Out, "Run 'inkwell help' for the list of commands.")
}

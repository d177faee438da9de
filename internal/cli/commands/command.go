package commands

import (
	"Inkwell/internal/config"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// ErrUsage - аргументы не подошли; диспетчер печатает синтаксис команды.
var ErrUsage = errors.New("usage")

// Разделы справки.
const (
	SectionAccount = "Account"
	SectionNotes   = "Notes"
	sectionOther   = "Other"
)

// Command - подкоманда клиента.
type Command interface {
	Name() string
	Description() string
	// Usage - синтаксис без имени программы, например "login <email> <password>".
	Usage() string
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

// sectioned - команда, знающая свой раздел справки. Остальные попадают в "Other".
type sectioned interface {
	Section() string
}

var registry = map[string]Command{}

// Out - куда пишет клиент; тесты подменяют его буфером.
var Out io.Writer = os.Stdout

// RegisterCmd вызывается из init() файла команды.
func RegisterCmd(cmd Command) {
	registry[cmd.Name()] = cmd
}

func Get(name string) (Command, bool) {
	c, ok := registry[name]
	return c, ok
}

// List - команды по алфавиту.
func List() []Command {
	list := make([]Command, 0, len(registry))
	for _, c := range registry {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

func sectionOf(c Command) string {
	if s, ok := c.(sectioned); ok && s.Section() != "" {
		return s.Section()
	}
	return sectionOther
}

// Suggest - команды с тем же префиксом, для подсказки при опечатке.
func Suggest(name string) []string {
	var out []string
	if name == "" {
		return out
	}
	for _, c := range List() {
		if strings.HasPrefix(c.Name(), name) || strings.HasPrefix(name, c.Name()) {
			out = append(out, c.Name())
		}
	}
	return out
}

// FormatGlobalUsage - общая справка: команды по разделам и глобальные флаги.
func FormatGlobalUsage() string {
	var b strings.Builder
	b.WriteString("inkwell - terminal client for the Inkwell notes API\n\n")
	b.WriteString("Usage:\n")
	b.WriteString("  inkwell [flags] <command> [args]\n")
	b.WriteString("  inkwell help <command>\n")

	bySection := map[string][]Command{}
	for _, c := range List() {
		s := sectionOf(c)
		bySection[s] = append(bySection[s], c)
	}
	for _, s := range []string{SectionAccount, SectionNotes, sectionOther} {
		if len(bySection[s]) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", s)
		for _, c := range bySection[s] {
			fmt.Fprintf(&b, "  %-40s %s\n", c.Usage(), c.Description())
		}
	}

	b.WriteString("\nFlags:\n")
	b.WriteString("  --base-url <host:port>   server address (env BASE_URL)\n")
	b.WriteString("  --https                  talk to the server over https\n")
	b.WriteString("  --token-file <path>      where the session token is kept (env TOKEN_FILE)\n")
	b.WriteString("  --version                print client version and exit\n")
	return b.String()
}

// FormatCommandUsage - справка по одной команде.
func FormatCommandUsage(c Command) string {
	return fmt.Sprintf("Usage: inkwell %s\n\n  %s\n", c.Usage(), c.Description())
}

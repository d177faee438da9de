package commands

import (
	"Inkwell/internal/cli/api"
	"Inkwell/internal/config"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
)

type noteView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Published bool   `json:"published"`
	LikeCount int64  `json:"likeCount"`
}

type notesPage struct {
	Data  []noteView `json:"data"`
	Page  int        `json:"page"`
	Total int64      `json:"total"`
}

type notesCmd struct{}

func (notesCmd) Name() string        { return "notes" }
func (notesCmd) Description() string { return "List notes, optionally filtered by search terms" }
func (notesCmd) Usage() string       { return "notes [search terms...]" }
func (notesCmd) Section() string     { return SectionNotes }

func (notesCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	q := url.Values{}
	if search := strings.TrimSpace(strings.Join(args, " ")); search != "" {
		q.Set("search", search)
	}
	// токен необязателен: с токеном OWNER видны и черновики
	token, _ := tokenStore(cfg).Load()
	resp, body, err := api.GetJSON(ctx, api.Endpoint(cfg.ServerURL, "/api/notes", q), token)
	if err != nil {
		return err
	}
	var page notesPage
	if err := api.Decode(resp, body, &page); err != nil {
		return err
	}
	if len(page.Data) == 0 {
		fmt.Fprintln(Out, "No notes")
		return nil
	}
	for _, n := range page.Data {
		draft := ""
		if !n.Published {
			draft = " (draft)"
		}
		fmt.Fprintf(Out, "- %s  %s  likes=%d%s\n", n.Slug, n.Title, n.LikeCount, draft)
	}
	fmt.Fprintf(Out, "Total: %d\n", page.Total)
	return nil
}

type noteAddCmd struct{}

func (noteAddCmd) Name() string        { return "note-add" }
func (noteAddCmd) Description() string { return "Create a note from a file (owner only)" }
func (noteAddCmd) Usage() string       { return "note-add <title> <content-file> [publish]" }
func (noteAddCmd) Section() string     { return SectionNotes }

func (noteAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return ErrUsage
	}
	publish := false
	if len(args) == 3 {
		if args[2] != "publish" {
			return ErrUsage
		}
		publish = true
	}
	content, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("read content: %w", err)
	}
	if len(strings.TrimSpace(string(content))) == 0 {
		return errors.New("content file is empty")
	}
	token, err := tokenStore(cfg).Load()
	if err != nil {
		return err
	}
	payload := map[string]any{"title": args[0], "content": string(content), "published": publish}
	resp, body, err := api.PostJSON(ctx, api.Endpoint(cfg.ServerURL, "/api/notes", nil), payload, token)
	if err != nil {
		return err
	}
	var n noteView
	if err := api.Decode(resp, body, &n); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Created:")
	fmt.Fprintf(Out, "  id:   %s\n", n.ID)
	fmt.Fprintf(Out, "  slug: %s\n", n.Slug)
	return nil
}

func init() {
	RegisterCmd(notesCmd{})
	RegisterCmd(noteAddCmd{})
}

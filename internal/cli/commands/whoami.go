package commands

import (
	"Inkwell/internal/cli/api"
	"Inkwell/internal/config"
	"context"
	"fmt"
)

type whoamiCmd struct{}

func (whoamiCmd) Name() string        { return "whoami" }
func (whoamiCmd) Description() string { return "Show the current account" }
func (whoamiCmd) Usage() string       { return "whoami" }
func (whoamiCmd) Section() string     { return SectionAccount }

func (whoamiCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	token, err := tokenStore(cfg).Load()
	if err != nil {
		return err
	}
	resp, body, err := api.GetJSON(ctx, api.Endpoint(cfg.ServerURL, "/api/auth/me", nil), token)
	if err != nil {
		return err
	}
	var u userView
	if err := api.Decode(resp, body, &u); err != nil {
		return err
	}
	fmt.Fprintf(Out, "%s <%s>\n  id:   %s\n  role: %s\n", u.Name, u.Email, u.ID, u.Role)
	return nil
}

func init() { RegisterCmd(whoamiCmd{}) }

package commands

import (
	"Inkwell/internal/cli/api"
	"Inkwell/internal/config"
	"context"
	"fmt"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type registerCmd struct{}

func (registerCmd) Name() string        { return "register" }
func (registerCmd) Description() string { return "Create an account and store the token" }
func (registerCmd) Usage() string       { return "register <email> <password> [name]" }
func (registerCmd) Section() string     { return SectionAccount }

func (registerCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return ErrUsage
	}
	req := RegisterRequest{Email: args[0], Password: args[1]}
	if len(args) == 3 {
		req.Name = args[2]
	}
	resp, body, err := api.PostJSON(ctx, api.Endpoint(cfg.ServerURL, "/api/auth/register", nil), req, "")
	if err != nil {
		return err
	}
	v, err := persistAuth(cfg, resp, body)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Registered %s as %s\n", v.User.Email, v.User.Role)
	return nil
}

func init() { RegisterCmd(registerCmd{}) }

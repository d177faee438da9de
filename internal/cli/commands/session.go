package commands

import (
	"Inkwell/internal/cli/api"
	"Inkwell/internal/cli/repo"
	fsrepo "Inkwell/internal/cli/repo/fs"
	"Inkwell/internal/config"
	"net/http"
	"time"
)

type userView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type authView struct {
	User  userView `json:"user"`
	Token string   `json:"token"`
}

func tokenStore(cfg *config.Config) repo.TokenStore {
	return fsrepo.AuthFSStore{Path: cfg.TokenFile}
}

// persistAuth разбирает ответ register/login и сохраняет токен.
func persistAuth(cfg *config.Config, resp *http.Response, body []byte) (*authView, error) {
	var v authView
	if err := api.Decode(resp, body, &v); err != nil {
		return nil, err
	}
	if err := tokenStore(cfg).Save(v.Token); err != nil {
		return nil, err
	}
	return &v, nil
}

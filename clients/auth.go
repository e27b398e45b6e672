package clients

import (
	"context"
	"net/http"

	"bookstore-web/models"
)

type LoginResult struct {
	Token string
	User  models.User
}

type loginResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
	userDTO
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

func (b *BackendClient) Login(ctx context.Context, usernameOrEmail, password string) (*LoginResult, error) {
	req := map[string]string{
		"usernameOrEmail": usernameOrEmail,
		"password":        password,
	}
	var resp loginResponse
	if err := b.doJSON(ctx, http.MethodPost, "/auth/login", "", nil, req, &resp); err != nil {
		return nil, err
	}

	token := resp.Token
	if token == "" {
		token = resp.AccessToken
	}
	if token == "" {
		return nil, &APIError{Status: http.StatusBadGateway, Message: "The sign-in service returned no token"}
	}
	return &LoginResult{Token: token, User: resp.userDTO.toModel()}, nil
}

func (b *BackendClient) Register(ctx context.Context, in RegisterInput) error {
	first, last := splitName(in.Name)
	req := map[string]string{
		"name":      in.Name,
		"firstName": first,
		"lastName":  last,
		"username":  in.Email,
		"email":     in.Email,
		"password":  in.Password,
	}
	return b.doJSON(ctx, http.MethodPost, "/auth/register", "", nil, req, nil)
}

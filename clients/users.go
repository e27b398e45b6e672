package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"bookstore-web/models"
)

func (b *BackendClient) Me(ctx context.Context, token string) (*models.User, error) {
	var dto userDTO
	if err := b.doJSON(ctx, http.MethodGet, "/users/me", token, nil, nil, &dto); err != nil {
		return nil, err
	}
	u := dto.toModel()
	return &u, nil
}

func (b *BackendClient) UpdateMe(ctx context.Context, token string, in models.ProfileInput) (*models.User, error) {
	first, last := splitName(in.Name)
	req := map[string]string{
		"name":      in.Name,
		"firstName": first,
		"lastName":  last,
		"phone":     in.Phone,
		"address":   in.Address,
	}
	var dto userDTO
	if err := b.doJSON(ctx, http.MethodPut, "/users/me", token, nil, req, &dto); err != nil {
		return nil, err
	}
	u := dto.toModel()
	return &u, nil
}

func (b *BackendClient) ChangePassword(ctx context.Context, token string, in models.PasswordInput) error {
	return b.doJSON(ctx, http.MethodPut, "/users/me/password", token, nil, in, nil)
}

func (b *BackendClient) AdminListUsers(ctx context.Context, token string, f models.UserFilter) (models.Page[models.User], error) {
	q := pageQuery(f.Page, f.Size)
	setIfNotEmpty(q, "sortBy", f.SortBy)
	setIfNotEmpty(q, "sortDir", f.SortDir)
	setIfNotEmpty(q, "username", f.Username)
	setIfNotEmpty(q, "email", f.Email)
	setIfNotEmpty(q, "role", f.Role)
	if f.Enabled != nil {
		q.Set("enabled", strconv.FormatBool(*f.Enabled))
	}

	var raw json.RawMessage
	if err := b.doJSON(ctx, http.MethodGet, "/admin/users", token, q, nil, &raw); err != nil {
		return models.Page[models.User]{}, err
	}
	return decodePage(raw, userDTO.toModel)
}

func (b *BackendClient) AdminGetUser(ctx context.Context, token string, id int64) (*models.User, error) {
	var dto userDTO
	if err := b.doJSON(ctx, http.MethodGet, fmt.Sprintf("/admin/users/%d", id), token, nil, nil, &dto); err != nil {
		return nil, err
	}
	u := dto.toModel()
	return &u, nil
}

func (b *BackendClient) ToggleUserStatus(ctx context.Context, token string, id int64) error {
	return b.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/admin/users/%d/toggle-status", id), token, nil, nil, nil)
}

func (b *BackendClient) ChangeUserRole(ctx context.Context, token string, id int64, role models.Role) error {
	req := map[string]string{"role": role.BackendRole()}
	return b.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/admin/users/%d/role", id), token, nil, req, nil)
}

func (b *BackendClient) DeleteUser(ctx context.Context, token string, id int64) error {
	return b.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/admin/users/%d", id), token, nil, nil, nil)
}

func (b *BackendClient) UserStatistics(ctx context.Context, token string) (*models.UserStatistics, error) {
	var stats models.UserStatistics
	if err := b.doJSON(ctx, http.MethodGet, "/admin/users/statistics", token, nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

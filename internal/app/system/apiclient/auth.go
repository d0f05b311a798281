// internal/app/system/apiclient/auth.go
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Login exchanges admin credentials for an API session.
func (t *Transport) Login(ctx context.Context, username, password string) (Credentials, error) {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return Credentials{}, fmt.Errorf("encode login: %w", err)
	}
	rep, err := t.do(ctx, call{
		resource:    "auth",
		op:          "login",
		method:      http.MethodPost,
		path:        "/login",
		body:        body,
		contentType: "application/json",
	})
	if err != nil {
		return Credentials{}, err
	}

	var v struct {
		Token string `json:"token"`
		Data  struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	_ = json.Unmarshal(rep.body, &v)
	token := v.Token
	if token == "" {
		token = v.Data.Token
	}
	return credentialsFrom(rep.cookies, token), nil
}

// Verify asks the API whether creds still identify a signed-in admin.
// It returns nil when they do and an error wrapping ErrUnauthorized when not.
func (t *Transport) Verify(ctx context.Context, creds Credentials) error {
	rep, err := t.do(ctx, call{
		resource: "auth",
		op:       "verify",
		method:   http.MethodGet,
		path:     "/verify",
		creds:    creds,
	})
	if err != nil {
		return err
	}
	var v struct {
		Success bool `json:"success"`
	}
	if json.Unmarshal(rep.body, &v) != nil || !v.Success {
		return fmt.Errorf("verify: %w", ErrUnauthorized)
	}
	return nil
}

// ChangePassword changes the admin's password and returns the API's
// confirmation message.
func (t *Transport) ChangePassword(ctx context.Context, creds Credentials, username, current, next string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"username":        username,
		"currentPassword": current,
		"newPassword":     next,
	})
	if err != nil {
		return "", fmt.Errorf("encode change password: %w", err)
	}
	rep, err := t.do(ctx, call{
		resource:    "auth",
		op:          "change_password",
		method:      http.MethodPost,
		path:        "/changePassword",
		body:        body,
		contentType: "application/json",
		creds:       creds,
	})
	if err != nil {
		return "", err
	}
	if msg := serverMessage(rep.body); msg != "" {
		return msg, nil
	}
	return "Password changed successfully", nil
}

// Ping checks that the API answers at all. Any HTTP response counts.
func (t *Transport) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, t.base+"/", nil)
	if err != nil {
		return err
	}
	resp, err := t.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: ping: %w", ErrNetwork, err)
	}
	resp.Body.Close()
	return nil
}

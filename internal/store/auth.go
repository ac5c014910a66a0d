package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/transform"
)

// Login authenticates against the server and returns the normalized user
// plus the API token. It runs before any session exists, so it lives on
// the package rather than on a Store.
func Login(ctx context.Context, client *api.Client, username, password string) (*models.User, string, error) {
	if strings.TrimSpace(username) == "" {
		return nil, "", fmt.Errorf("username is required")
	}
	resp, err := client.Login(ctx, username, password)
	if err != nil {
		return nil, "", err
	}
	user, err := transform.UserFromWire(resp.User, time.Now())
	if err != nil {
		return nil, "", err
	}
	if !user.Active {
		return nil, "", fmt.Errorf("this account is inactive, please contact an administrator")
	}
	return &user, resp.Token, nil
}

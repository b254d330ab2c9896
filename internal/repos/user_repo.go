package repos

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"lostpets/internal/domain"
)

type UserRepo struct{ c *resty.Client }

func NewUserRepo(c *resty.Client) *UserRepo { return &UserRepo{c: c} }

// Current fetches the user the bearer token belongs to.
func (r *UserRepo) Current(ctx context.Context, token string) (*domain.User, error) {
	resp, err := r.c.R().
		SetContext(ctx).
		SetAuthToken(token).
		Get("/users")
	if err != nil {
		return nil, fmt.Errorf("fetch current user: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetch current user: %w (status %d)", ErrUnauthorized, resp.StatusCode())
	}

	var u domain.User
	if err := json.Unmarshal(resp.Body(), &u); err != nil {
		return nil, fmt.Errorf("fetch current user: %w: %v", ErrBadResponse, err)
	}
	if u == (domain.User{}) {
		// Some deployments wrap the user in a data envelope.
		var env struct {
			Data domain.User `json:"data"`
		}
		if err := json.Unmarshal(resp.Body(), &env); err == nil {
			u = env.Data
		}
	}
	if u == (domain.User{}) {
		return nil, fmt.Errorf("fetch current user: %w: empty user", ErrBadResponse)
	}
	return &u, nil
}

package infra_oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/humanbelnik/kinofav/core/internal/config"
	"github.com/humanbelnik/kinofav/core/internal/model"
	"golang.org/x/oauth2"
)

var (
	ErrExchangeFailed = errors.New("oauth code exchange failed")
	ErrUserInfo       = errors.New("failed to fetch user info")
)

type userInfo struct {
	Sub   string `json:"sub"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Google signs users in with the authorization code flow.
type Google struct {
	config      *oauth2.Config
	userInfoURL string
}

func NewGoogle(cfg config.OAuth) *Google {
	return &Google{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
		},
		userInfoURL: cfg.UserInfoURL,
	}
}

func (g *Google) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// Exchange trades the callback code for a token and resolves the profile.
func (g *Google) Exchange(ctx context.Context, code string) (model.User, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %w", ErrUserInfo, err)
	}

	resp, err := g.config.Client(ctx, token).Do(req)
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %w", ErrUserInfo, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.User{}, fmt.Errorf("%w: status %d", ErrUserInfo, resp.StatusCode)
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return model.User{}, fmt.Errorf("%w: %w", ErrUserInfo, err)
	}
	if info.Sub == "" {
		return model.User{}, fmt.Errorf("%w: empty subject", ErrUserInfo)
	}

	name := info.Name
	if name == "" {
		name = info.Email
	}

	return model.User{
		ID:          model.ProviderGoogle + ":" + info.Sub,
		DisplayName: name,
		Email:       info.Email,
		Provider:    model.ProviderGoogle,
	}, nil
}

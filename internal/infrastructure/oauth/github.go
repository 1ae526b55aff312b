package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	defaultGitHubAuthURL  = "https://github.com/login/oauth/authorize"
	defaultGitHubTokenURL = "https://github.com/login/oauth/access_token"
	defaultGitHubUserURL  = "https://api.github.com/user"
)

type GitHubConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Overridable for tests.
	AuthURL  string
	TokenURL string
	UserURL  string
}

type GitHubProvider struct {
	config GitHubConfig
	client *http.Client
}

func NewGitHubProvider(config GitHubConfig) *GitHubProvider {
	if config.AuthURL == "" {
		config.AuthURL = defaultGitHubAuthURL
	}
	if config.TokenURL == "" {
		config.TokenURL = defaultGitHubTokenURL
	}
	if config.UserURL == "" {
		config.UserURL = defaultGitHubUserURL
	}
	return &GitHubProvider{config: config, client: http.DefaultClient}
}

func (p *GitHubProvider) Name() string { return "github" }

func (p *GitHubProvider) LoginURL(state string) string {
	params := url.Values{
		"client_id":    {p.config.ClientID},
		"redirect_uri": {p.config.RedirectURL},
		"scope":        {"read:user user:email"},
		"state":        {state},
	}
	return p.config.AuthURL + "?" + params.Encode()
}

type githubTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type githubUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (p *GitHubProvider) ExchangeCode(ctx context.Context, code string) (UserInfo, error) {
	tok, err := p.exchangeToken(ctx, code)
	if err != nil {
		return UserInfo{}, fmt.Errorf("exchange github token: %w", err)
	}

	usr, err := p.fetchUser(ctx, tok.AccessToken)
	if err != nil {
		return UserInfo{}, fmt.Errorf("fetch github user: %w", err)
	}

	return UserInfo{
		Provider:          "github",
		ProviderUserID:    fmt.Sprintf("%d", usr.ID),
		Email:             usr.Email,
		FullName:          usr.Name,
		PreferredUsername: usr.Login,
	}, nil
}

func (p *GitHubProvider) exchangeToken(ctx context.Context, code string) (*githubTokenResponse, error) {
	data := url.Values{
		"code":          {code},
		"client_id":     {p.config.ClientID},
		"client_secret": {p.config.ClientSecret},
		"redirect_uri":  {p.config.RedirectURL},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token endpoint status %d", resp.StatusCode)
	}

	var tok githubTokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return nil, err
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("empty access token")
	}
	return &tok, nil
}

func (p *GitHubProvider) fetchUser(ctx context.Context, accessToken string) (*githubUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.UserURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user endpoint status %d", resp.StatusCode)
	}

	var usr githubUser
	if err := json.Unmarshal(body, &usr); err != nil {
		return nil, err
	}
	if usr.ID == 0 {
		return nil, fmt.Errorf("missing user id")
	}
	return &usr, nil
}

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
	defaultLinkedInAuthURL     = "https://www.linkedin.com/oauth/v2/authorization"
	defaultLinkedInTokenURL    = "https://www.linkedin.com/oauth/v2/accessToken"
	defaultLinkedInUserInfoURL = "https://api.linkedin.com/v2/userinfo"
)

type LinkedInConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	AuthURL     string
	TokenURL    string
	UserInfoURL string
}

type LinkedInProvider struct {
	config LinkedInConfig
	client *http.Client
}

func NewLinkedInProvider(config LinkedInConfig) *LinkedInProvider {
	if config.AuthURL == "" {
		config.AuthURL = defaultLinkedInAuthURL
	}
	if config.TokenURL == "" {
		config.TokenURL = defaultLinkedInTokenURL
	}
	if config.UserInfoURL == "" {
		config.UserInfoURL = defaultLinkedInUserInfoURL
	}
	return &LinkedInProvider{config: config, client: http.DefaultClient}
}

func (p *LinkedInProvider) Name() string { return "linkedin" }

func (p *LinkedInProvider) LoginURL(state string) string {
	params := url.Values{
		"response_type": {"code"},
		"client_id":     {p.config.ClientID},
		"redirect_uri":  {p.config.RedirectURL},
		"scope":         {"openid profile email"},
		"state":         {state},
	}
	return p.config.AuthURL + "?" + params.Encode()
}

type linkedinTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type linkedinUserInfo struct {
	Sub        string `json:"sub"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Email      string `json:"email"`
}

func (p *LinkedInProvider) ExchangeCode(ctx context.Context, code string) (UserInfo, error) {
	data := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"client_id":     {p.config.ClientID},
		"client_secret": {p.config.ClientSecret},
		"redirect_uri":  {p.config.RedirectURL},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return UserInfo{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return UserInfo{}, fmt.Errorf("exchange linkedin token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return UserInfo{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return UserInfo{}, fmt.Errorf("token endpoint status %d", resp.StatusCode)
	}

	var tok linkedinTokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return UserInfo{}, err
	}
	if tok.AccessToken == "" {
		return UserInfo{}, fmt.Errorf("empty access token")
	}

	usr, err := p.fetchUserInfo(ctx, tok.AccessToken)
	if err != nil {
		return UserInfo{}, fmt.Errorf("fetch linkedin userinfo: %w", err)
	}

	return UserInfo{
		Provider:       "linkedin",
		ProviderUserID: usr.Sub,
		Email:          usr.Email,
		FullName:       usr.Name,
		Name:           strings.TrimSpace(usr.GivenName + " " + usr.FamilyName),
	}, nil
}

func (p *LinkedInProvider) fetchUserInfo(ctx context.Context, accessToken string) (*linkedinUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.UserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

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
		return nil, fmt.Errorf("userinfo endpoint status %d", resp.StatusCode)
	}

	var usr linkedinUserInfo
	if err := json.Unmarshal(body, &usr); err != nil {
		return nil, err
	}
	if usr.Sub == "" {
		return nil, fmt.Errorf("missing subject")
	}
	return &usr, nil
}

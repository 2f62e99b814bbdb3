package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultOAuthBase    = "https://api.instagram.com"
	defaultGraphAPIBase = "https://graph.instagram.com"
	defaultHTTPTimeout  = 10 * time.Second
	mediaFields         = "id,media_url,media_type,caption,timestamp,permalink"
	mediaLimit          = 20
)

// Client talks to the Instagram OAuth endpoint and the Graph API.
type Client struct {
	oauthBase    string
	graphAPIBase string
	httpClient   *http.Client
}

func NewClient() *Client {
	return &Client{
		oauthBase:    defaultOAuthBase,
		graphAPIBase: defaultGraphAPIBase,
		httpClient:   &http.Client{Timeout: defaultHTTPTimeout},
	}
}

// SetBaseURLs overrides both API hosts (useful for testing).
func (c *Client) SetBaseURLs(oauthBase, graphAPIBase string) {
	c.oauthBase = strings.TrimRight(oauthBase, "/")
	c.graphAPIBase = strings.TrimRight(graphAPIBase, "/")
}

func (c *Client) AuthorizeURL(appID, redirectURI string) string {
	q := url.Values{}
	q.Set("client_id", appID)
	q.Set("redirect_uri", redirectURI)
	q.Set("scope", "user_profile,user_media")
	q.Set("response_type", "code")
	return c.oauthBase + "/oauth/authorize?" + q.Encode()
}

// ExchangeCode trades an authorization code for an access token.
func (c *Client) ExchangeCode(ctx context.Context, appID, appSecret, redirectURI, code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", appID)
	form.Set("client_secret", appSecret)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", redirectURI)
	form.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.oauthBase+"/oauth/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("instagram: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("instagram: exchange code: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("instagram: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", ErrExchangeFailed, resp.StatusCode, string(body))
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("instagram: unmarshal token: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrExchangeFailed)
	}
	return tr.AccessToken, nil
}

// RecentMedia lists the account's latest media, images and videos only.
func (c *Client) RecentMedia(ctx context.Context, accessToken string) ([]Post, error) {
	q := url.Values{}
	q.Set("fields", mediaFields)
	q.Set("access_token", accessToken)
	q.Set("limit", fmt.Sprint(mediaLimit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.graphAPIBase+"/me/media?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("instagram: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("instagram: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var mr mediaResponse
	if err := json.Unmarshal(body, &mr); err != nil {
		return nil, fmt.Errorf("instagram: unmarshal media: %w", err)
	}
	if mr.Error != nil {
		return nil, fmt.Errorf("%w: API error %d: %s", ErrUpstream, mr.Error.Code, mr.Error.Message)
	}

	posts := make([]Post, 0, len(mr.Data))
	for _, p := range mr.Data {
		if p.MediaType == "IMAGE" || p.MediaType == "VIDEO" {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

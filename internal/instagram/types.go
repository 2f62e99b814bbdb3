package instagram

import "time"

// AccountID is the single account whose token the site stores.
const AccountID = "henna_artist"

// TokenLifetime is how long an exchanged token is considered valid.
const TokenLifetime = 60 * 24 * time.Hour

type Token struct {
	UserID      string
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// Post is a gallery item. Only IMAGE and VIDEO media are kept.
type Post struct {
	ID        string  `json:"id"`
	MediaURL  string  `json:"media_url"`
	MediaType string  `json:"media_type"`
	Caption   *string `json:"caption,omitempty"`
	Timestamp string  `json:"timestamp"`
	Permalink string  `json:"permalink"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	UserID      int64  `json:"user_id"`
}

type mediaResponse struct {
	Data  []Post    `json:"data"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}

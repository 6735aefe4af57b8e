package poster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/oauth1"

	"arxivbot/internal/config"
)

// TwitterEndpoint is the v2 create-tweet endpoint.
const TwitterEndpoint = "https://api.twitter.com/2/tweets"

const maxErrorBody = 64 << 10

// HTTPClient is the subset of *http.Client used by Twitter.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Twitter posts tweets through the v2 API. The client is expected to sign
// requests with the account's OAuth 1.0a user context.
type Twitter struct {
	client   HTTPClient
	endpoint string
}

// NewTwitter creates a Twitter poster sending to endpoint through client.
func NewTwitter(client HTTPClient, endpoint string) *Twitter {
	return &Twitter{client: client, endpoint: endpoint}
}

// NewTwitterFromCredentials builds an OAuth1-signing client from creds.
func NewTwitterFromCredentials(creds config.Credentials, timeout time.Duration) *Twitter {
	cfg := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	token := oauth1.NewToken(creds.AccessTokenKey, creds.AccessTokenSecret)

	client := cfg.Client(context.Background(), token)
	client.Timeout = timeout
	return NewTwitter(client, TwitterEndpoint)
}

type tweetRequest struct {
	Text string `json:"text"`
}

type apiError struct {
	Detail string `json:"detail"`
	Title  string `json:"title"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Post publishes text. Any outcome other than 201 Created is a *PostError.
func (t *Twitter) Post(ctx context.Context, text string) error {
	body, err := json.Marshal(tweetRequest{Text: text})
	if err != nil {
		return fmt.Errorf("encode tweet: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return &PostError{Reason: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusCreated {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &PostError{Reason: errorReason(resp.Status, raw)}
}

// errorReason picks the most specific message the API returned, falling back
// to the HTTP status line.
func errorReason(status string, body []byte) string {
	var e apiError
	if err := json.Unmarshal(body, &e); err != nil {
		return status
	}
	switch {
	case e.Detail != "":
		return e.Detail
	case e.Title != "":
		return e.Title
	}
	var msgs []string
	for _, m := range e.Errors {
		if m.Message != "" {
			msgs = append(msgs, m.Message)
		}
	}
	if len(msgs) > 0 {
		return strings.Join(msgs, "; ")
	}
	return status
}

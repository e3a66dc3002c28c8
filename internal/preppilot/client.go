package preppilot

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL    = "https://api.preppilot.app"
	userAgent = "preppilot-cli"

	// Activity feed size shown by default.
	defaultActivityLimit = 20
)

type Client struct {
	// ctx used only for http requests right now
	ctx    context.Context
	token  string
	logger *zap.Logger
	// HTTPClient serves snapshot-style queries and carries a request timeout.
	HTTPClient *http.Client
	// SubmitClient serves the interview submission. It carries no timeout:
	// the launch outcome resolves only on an explicit remote success or
	// failure.
	SubmitClient *http.Client
	UserAgent    string
	APIURL       string
}

func New(ctx context.Context, logger *zap.Logger, token string) *Client {
	return &Client{
		ctx:    ctx,
		token:  token,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		SubmitClient: &http.Client{},
		logger:       logger,
		UserAgent:    userAgent,
	}
}

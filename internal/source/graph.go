package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"campaigndash/internal/cache"
)

const (
	defaultGraphBaseURL = "https://graph.microsoft.com/v1.0"
	graphScope          = "https://graph.microsoft.com/.default"

	// tokens are dropped this long before the identity provider expires them
	tokenExpirySkew = 5 * time.Minute
	// used when the token response carries no expiry
	defaultTokenTTL = 55 * time.Minute
)

// GraphConfig locates a workbook in a user's OneDrive/SharePoint drive.
type GraphConfig struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	User         string // user principal owning the drive
	FileID       string // drive item ID
	Sheet        string

	// Overrides for tests and sovereign clouds.
	BaseURL  string
	TokenURL string

	HTTPClient *http.Client
}

// GraphSource downloads an XLSX workbook through Microsoft Graph using the
// client-credentials grant.
type GraphSource struct {
	cfg    GraphConfig
	oauth  clientcredentials.Config
	client *http.Client
	now    func() time.Time

	mu    sync.Mutex
	token cache.Entry[*oauth2.Token]
}

// NewGraphSource validates cfg and builds the source.
func NewGraphSource(cfg GraphConfig) (*GraphSource, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.TenantID == "" {
		return nil, goerr.Wrap(ErrAuthFailure, "graph client credentials are not configured")
	}
	if cfg.User == "" || cfg.FileID == "" {
		return nil, goerr.Wrap(ErrNotFound, "graph drive user and file ID are required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGraphBaseURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = "https://login.microsoftonline.com/" + url.PathEscape(cfg.TenantID) + "/oauth2/v2.0/token"
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return &GraphSource{
		cfg: cfg,
		oauth: clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       []string{graphScope},
		},
		client: client,
		now:    time.Now,
	}, nil
}

// Name labels the source with the worksheet name.
func (s *GraphSource) Name() string {
	return "SharePoint - " + s.cfg.Sheet
}

// Check acquires an access token.
func (s *GraphSource) Check(ctx context.Context) error {
	_, err := s.accessToken(ctx)
	return err
}

// ResetCredentials drops the cached access token.
func (s *GraphSource) ResetCredentials() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = cache.Entry[*oauth2.Token]{}
}

// Fetch downloads the workbook and parses the configured worksheet.
func (s *GraphSource) Fetch(ctx context.Context) (*Dataset, error) {
	token, err := s.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	fileURL := fmt.Sprintf("%s/users/%s/drive/items/%s/content",
		s.cfg.BaseURL, url.PathEscape(s.cfg.User), url.PathEscape(s.cfg.FileID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, goerr.Wrap(ErrUnknown, "building download request", goerr.V("cause", err.Error()))
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Accept", "application/octet-stream")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, wrapTransport(err, "downloading workbook")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusUnauthorized {
			// the token was rejected; do not reuse it
			s.ResetCredentials()
		}
		return nil, goerr.Wrap(FromStatus(resp.StatusCode), "downloading workbook",
			goerr.V("status", resp.StatusCode), goerr.V("file_id", s.cfg.FileID))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapTransport(err, "reading workbook body")
	}

	wb, err := ParseWorkbook(bytes.NewReader(body), s.cfg.Sheet)
	if err != nil {
		return nil, err
	}

	ds := NewDataset(wb.Table, s.Name(), s.now())
	ds.Warnings = wb.Warnings
	return ds, nil
}

func (s *GraphSource) accessToken(ctx context.Context) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.token.Valid(now) {
		return s.token.Value, nil
	}

	tokenCtx := context.WithValue(ctx, oauth2.HTTPClient, s.client)
	token, err := s.oauth.Token(tokenCtx)
	if err != nil {
		if isTimeout(err) {
			return nil, goerr.Wrap(ErrTimeout, "acquiring access token", goerr.V("cause", err.Error()))
		}
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil && retrieveErr.Response.StatusCode >= 500 {
			return nil, goerr.Wrap(ErrUnknown, "acquiring access token", goerr.V("cause", err.Error()))
		}
		return nil, goerr.Wrap(ErrAuthFailure, "acquiring access token", goerr.V("cause", err.Error()))
	}

	ttl := defaultTokenTTL
	if !token.Expiry.IsZero() {
		ttl = token.Expiry.Sub(now) - tokenExpirySkew
	}
	s.token = cache.NewEntry(token, ttl, now)
	return token, nil
}

// wrapTransport classifies network errors as timeouts or unknown failures.
func wrapTransport(err error, msg string) error {
	if isTimeout(err) {
		return goerr.Wrap(ErrTimeout, msg, goerr.V("cause", err.Error()))
	}
	return goerr.Wrap(ErrUnknown, msg, goerr.V("cause", err.Error()))
}

// Package auth obtains OAuth2 credentials for the Google Workspace APIs.
// A saved token is reused and refreshed on expiry; without one the user is
// sent through the consent screen and the result is written to the token file.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/priyanshu1677/agentic-ai/internal/logger"
)

// ErrNoCredentials means the OAuth client credentials file is missing.
var ErrNoCredentials = errors.New("credentials file not found")

const consentPage = "Authentication complete. You may close this window."

// Authenticator loads, refreshes and persists a user token.
type Authenticator struct {
	cfg       *oauth2.Config
	tokenFile string
	// prompt shows the consent URL to the user.
	prompt func(url string)
}

// New reads the OAuth client from credentialsFile and requests scopes. The
// consent URL, when one is needed, is written to out.
func New(credentialsFile, tokenFile string, scopes []string, out io.Writer) (*Authenticator, error) {
	b, err := os.ReadFile(credentialsFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoCredentials, credentialsFile)
	}
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	cfg, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return &Authenticator{
		cfg:       cfg,
		tokenFile: tokenFile,
		prompt: func(url string) {
			fmt.Fprintf(out, "Open this URL in your browser to authorize access:\n%s\n", url)
		},
	}, nil
}

// TokenFile is the path the token is stored at.
func (a *Authenticator) TokenFile() string { return a.tokenFile }

// Token returns the saved token, running the consent flow when there is none.
func (a *Authenticator) Token(ctx context.Context) (*oauth2.Token, error) {
	tok, err := loadToken(a.tokenFile)
	if err == nil {
		return tok, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		logger.L.Warn("unreadable token file; requesting a new one", "path", a.tokenFile, "error", err)
	}

	tok, err = a.consent(ctx)
	if err != nil {
		return nil, err
	}
	if err := saveToken(a.tokenFile, tok); err != nil {
		return nil, err
	}
	return tok, nil
}

// HTTPClient returns a client that authorises requests with the user token
// and writes refreshed tokens back to the token file.
func (a *Authenticator) HTTPClient(ctx context.Context) (*http.Client, error) {
	tok, err := a.Token(ctx)
	if err != nil {
		return nil, err
	}
	src := &persistingSource{
		base: a.cfg.TokenSource(ctx, tok),
		path: a.tokenFile,
		last: tok.AccessToken,
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, src)), nil
}

// consent runs the installed-app flow with a loopback redirect.
func (a *Authenticator) consent(ctx context.Context) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("listen for oauth redirect: %w", err)
	}
	defer ln.Close()

	cfg := *a.cfg
	cfg.RedirectURL = fmt.Sprintf("http://%s/", ln.Addr().String())
	state := uuid.NewString()

	codes := make(chan string, 1)
	errs := make(chan error, 1)
	srv := &http.Server{
		ReadHeaderTimeout: 10 * time.Second,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("state") != state {
				http.Error(w, "state mismatch", http.StatusBadRequest)
				return
			}
			if e := q.Get("error"); e != "" {
				http.Error(w, e, http.StatusBadRequest)
				select {
				case errs <- fmt.Errorf("authorization denied: %s", e):
				default:
				}
				return
			}
			_, _ = io.WriteString(w, consentPage)
			select {
			case codes <- q.Get("code"):
			default:
			}
		}),
	}
	go func() { _ = srv.Serve(ln) }()
	defer srv.Close()

	logger.L.Info("waiting for oauth consent", "redirect", cfg.RedirectURL)
	a.prompt(cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce))

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err := <-errs:
		return nil, err
	case code := <-codes:
		tok, err := cfg.Exchange(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("exchange authorization code: %w", err)
		}
		return tok, nil
	}
}

// persistingSource saves every newly minted token.
type persistingSource struct {
	base oauth2.TokenSource
	path string

	mu   sync.Mutex
	last string
}

func (s *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		if err := saveToken(s.path, tok); err != nil {
			logger.L.Warn("failed to persist refreshed token", "path", s.path, "error", err)
		} else {
			logger.L.Debug("refreshed token saved", "path", s.path)
		}
		s.last = tok.AccessToken
	}
	return tok, nil
}

func loadToken(path string) (*oauth2.Token, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(b, &tok); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return &tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	b, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

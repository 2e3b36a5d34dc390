package gmail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
)

var (
	// ErrAuthConfigMissing means no client secrets file was found and no
	// valid cached token can carry the run.
	ErrAuthConfigMissing = errors.New("gmail: client secrets file missing")

	// ErrAuthRefreshFailed means the provider rejected a token refresh.
	ErrAuthRefreshFailed = errors.New("gmail: token refresh failed")
)

// AuthFlow produces a fresh token through user interaction. The default is
// LoopbackFlow; tests substitute a fake.
type AuthFlow interface {
	Authorize(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error)
}

// SessionManager owns the credential lifecycle: load the cached token,
// refresh it when expired, or run the interactive authorization flow, and
// persist the result. One instance per run.
type SessionManager struct {
	TokenFile       string
	CredentialsFile string
	Flow            AuthFlow
}

// Session is an authenticated handle for Gmail API calls, scoped to
// read-only access.
type Session struct {
	client *http.Client
}

// HTTPClient returns the authorized HTTP client backing this session.
func (s *Session) HTTPClient() *http.Client { return s.client }

// NewSessionManager returns a manager using the interactive loopback flow.
func NewSessionManager(tokenFile, credentialsFile string) *SessionManager {
	return &SessionManager{
		TokenFile:       tokenFile,
		CredentialsFile: credentialsFile,
		Flow:            &LoopbackFlow{},
	}
}

// ObtainSession returns a session backed by a valid token. With a valid
// cached token this makes no network calls and opens no prompts. An expired
// token with refresh capability is refreshed and re-persisted; otherwise
// the interactive flow runs, which requires the client secrets file.
func (m *SessionManager) ObtainSession(ctx context.Context) (*Session, error) {
	tok, err := tokenFromFile(m.TokenFile)
	if err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).WithField("path", m.TokenFile).Warn("Ignoring unreadable token cache")
	}

	if tok != nil && tok.Valid() {
		conf, confErr := m.loadOAuthConfig()
		if confErr != nil {
			// The cached token is enough on its own; it just cannot be
			// refreshed if it expires mid-run.
			return &Session{client: oauth2.NewClient(ctx, oauth2.StaticTokenSource(tok))}, nil
		}
		return &Session{client: conf.Client(ctx, tok)}, nil
	}

	conf, err := m.loadOAuthConfig()
	if err != nil {
		return nil, err
	}

	if tok != nil && tok.RefreshToken != "" {
		refreshed, err := conf.TokenSource(ctx, tok).Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAuthRefreshFailed, err)
		}
		tok = refreshed
		logrus.Debug("Refreshed expired Gmail token")
	} else {
		flow := m.Flow
		if flow == nil {
			flow = &LoopbackFlow{}
		}
		tok, err = flow.Authorize(ctx, conf)
		if err != nil {
			return nil, fmt.Errorf("authorization flow: %w", err)
		}
	}

	if err := saveToken(m.TokenFile, tok); err != nil {
		return nil, fmt.Errorf("saving token cache: %w", err)
	}
	return &Session{client: conf.Client(ctx, tok)}, nil
}

func (m *SessionManager) loadOAuthConfig() (*oauth2.Config, error) {
	b, err := os.ReadFile(m.CredentialsFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s (download it from Google Cloud Console)", ErrAuthConfigMissing, m.CredentialsFile)
		}
		return nil, fmt.Errorf("reading client secrets file: %w", err)
	}
	conf, err := google.ConfigFromJSON(b, gmailapi.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parsing client secrets file: %w", err)
	}
	return conf, nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, err
	}
	return tok, nil
}

func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

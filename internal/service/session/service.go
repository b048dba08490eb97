package session

import (
	"context"
	"sync"
	"time"

	domain "github.com/cmlabs-hris/hris-sync-go/internal/domain/session"
	"github.com/cmlabs-hris/hris-sync-go/internal/pkg/hrisapi"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"golang.org/x/oauth2"
)

// API is the authentication surface of the HRIS backend
type API interface {
	Login(ctx context.Context, email, password string) (*hrisapi.Tokens, error)
	RefreshToken(ctx context.Context, refreshToken string) (*hrisapi.Tokens, error)
}

// expirySkew renews tokens slightly before their server-side deadline
const expirySkew = 30 * time.Second

// Service owns the token grant and signed-in identity. It implements both
// domain/session.Service and domain/session.TokenProvider.
type Service struct {
	api API

	mu     sync.Mutex
	info   *domain.Info
	source oauth2.TokenSource
}

func NewSessionService(api API) *Service {
	return &Service{api: api}
}

// SignIn exchanges credentials for a token grant and derives the employee
// identity from the access token's claims (parse-only, never verified
// client-side; the remote backend is the verifier).
func (s *Service) SignIn(ctx context.Context, email, password string) (*domain.Info, error) {
	tokens, err := s.api.Login(ctx, email, password)
	if err != nil {
		if hrisapi.StatusCode(err) == 401 {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	info := &domain.Info{
		EmployeeID: employeeIDFromToken(tokens.AccessToken),
		Email:      email,
	}

	base := grantToToken(tokens)
	refresher := &refreshSource{api: s.api, refreshToken: tokens.RefreshToken}

	s.mu.Lock()
	s.info = info
	s.source = oauth2.ReuseTokenSource(base, refresher)
	s.mu.Unlock()

	return info, nil
}

// SignOut tears down the session. Per-user local state keyed by employee id
// stays on disk for the next sign-in.
func (s *Service) SignOut() {
	s.mu.Lock()
	s.info = nil
	s.source = nil
	s.mu.Unlock()
}

func (s *Service) SignedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info != nil
}

func (s *Service) Current() (*domain.Info, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.info == nil {
		return nil, false
	}
	copied := *s.info
	return &copied, true
}

// Token returns a valid access token, refreshing through the backend when
// the cached one expired
func (s *Service) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	source := s.source
	s.mu.Unlock()

	if source == nil {
		return "", domain.ErrNotSignedIn
	}

	token, err := source.Token()
	if err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

// EmployeeID returns the signed-in employee id, or "" when signed out
func (s *Service) EmployeeID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.info == nil {
		return ""
	}
	return s.info.EmployeeID
}

func grantToToken(tokens *hrisapi.Tokens) *oauth2.Token {
	token := &oauth2.Token{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}
	if tokens.AccessTokenExpiresIn > 0 {
		token.Expiry = time.Now().Add(time.Duration(tokens.AccessTokenExpiresIn)*time.Second - expirySkew)
	}
	return token
}

// employeeIDFromToken reads the employee_id claim without signature
// verification, falling back to the subject. An unparsable token scopes
// local state to the unscoped default rather than failing sign-in.
func employeeIDFromToken(accessToken string) string {
	token, err := jwt.ParseString(accessToken, jwt.WithVerify(false), jwt.WithValidate(false))
	if err != nil {
		return ""
	}
	if v, ok := token.Get("employee_id"); ok {
		if id, ok := v.(string); ok && id != "" {
			return id
		}
	}
	return token.Subject()
}

// refreshSource obtains a fresh grant from the backend when the cached
// access token expires
type refreshSource struct {
	api API

	mu           sync.Mutex
	refreshToken string
}

func (r *refreshSource) Token() (*oauth2.Token, error) {
	r.mu.Lock()
	refreshToken := r.refreshToken
	r.mu.Unlock()

	if refreshToken == "" {
		return nil, domain.ErrNotSignedIn
	}

	tokens, err := r.api.RefreshToken(context.Background(), refreshToken)
	if err != nil {
		return nil, err
	}

	if tokens.RefreshToken != "" {
		r.mu.Lock()
		r.refreshToken = tokens.RefreshToken
		r.mu.Unlock()
	}

	return grantToToken(tokens), nil
}

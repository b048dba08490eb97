package session

import (
	"context"
	"testing"

	domain "github.com/cmlabs-hris/hris-sync-go/internal/domain/session"
	"github.com/cmlabs-hris/hris-sync-go/internal/pkg/hrisapi"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthAPI struct {
	tokens       *hrisapi.Tokens
	loginErr     error
	refreshed    *hrisapi.Tokens
	refreshCalls int
}

func (f *fakeAuthAPI) Login(_ context.Context, email, password string) (*hrisapi.Tokens, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.tokens, nil
}

func (f *fakeAuthAPI) RefreshToken(_ context.Context, refreshToken string) (*hrisapi.Tokens, error) {
	f.refreshCalls++
	return f.refreshed, nil
}

func signedToken(t *testing.T, claims map[string]interface{}) string {
	t.Helper()
	builder := jwt.NewBuilder().Subject("user-1")
	for k, v := range claims {
		builder = builder.Claim(k, v)
	}
	token, err := builder.Build()
	require.NoError(t, err)

	// The agent parses without verifying, so any signing key works here
	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, []byte("test-secret")))
	require.NoError(t, err)
	return string(signed)
}

func TestSessionService_SignInExtractsEmployeeID(t *testing.T) {
	api := &fakeAuthAPI{tokens: &hrisapi.Tokens{
		AccessToken:          signedToken(t, map[string]interface{}{"employee_id": "emp-1"}),
		RefreshToken:         "ref",
		AccessTokenExpiresIn: 3600,
	}}
	svc := NewSessionService(api)

	info, err := svc.SignIn(context.Background(), "staff@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "emp-1", info.EmployeeID)
	assert.Equal(t, "staff@example.com", info.Email)
	assert.True(t, svc.SignedIn())
	assert.Equal(t, "emp-1", svc.EmployeeID())
}

func TestSessionService_SignInFallsBackToSubject(t *testing.T) {
	api := &fakeAuthAPI{tokens: &hrisapi.Tokens{
		AccessToken:          signedToken(t, nil),
		AccessTokenExpiresIn: 3600,
	}}
	svc := NewSessionService(api)

	info, err := svc.SignIn(context.Background(), "staff@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "user-1", info.EmployeeID)
}

func TestSessionService_SignInInvalidCredentials(t *testing.T) {
	api := &fakeAuthAPI{loginErr: &hrisapi.APIError{StatusCode: 401, Message: "bad credentials"}}
	svc := NewSessionService(api)

	_, err := svc.SignIn(context.Background(), "staff@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.False(t, svc.SignedIn())
}

func TestSessionService_TokenRequiresSignIn(t *testing.T) {
	svc := NewSessionService(&fakeAuthAPI{})

	_, err := svc.Token(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotSignedIn)
}

func TestSessionService_TokenReusesUnexpiredGrant(t *testing.T) {
	access := signedToken(t, map[string]interface{}{"employee_id": "emp-1"})
	api := &fakeAuthAPI{tokens: &hrisapi.Tokens{
		AccessToken:          access,
		RefreshToken:         "ref",
		AccessTokenExpiresIn: 3600,
	}}
	svc := NewSessionService(api)

	_, err := svc.SignIn(context.Background(), "staff@example.com", "pw")
	require.NoError(t, err)

	got, err := svc.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, access, got)
	assert.Zero(t, api.refreshCalls)
}

func TestSessionService_TokenRefreshesExpiredGrant(t *testing.T) {
	refreshedAccess := signedToken(t, map[string]interface{}{"employee_id": "emp-1"})
	api := &fakeAuthAPI{
		// Grant that is already past its deadline
		tokens: &hrisapi.Tokens{
			AccessToken:          signedToken(t, map[string]interface{}{"employee_id": "emp-1"}),
			RefreshToken:         "ref",
			AccessTokenExpiresIn: 1,
		},
		refreshed: &hrisapi.Tokens{
			AccessToken:          refreshedAccess,
			RefreshToken:         "ref-2",
			AccessTokenExpiresIn: 3600,
		},
	}
	svc := NewSessionService(api)

	_, err := svc.SignIn(context.Background(), "staff@example.com", "pw")
	require.NoError(t, err)

	got, err := svc.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, refreshedAccess, got)
	assert.Equal(t, 1, api.refreshCalls)
}

func TestSessionService_SignOutTearsDown(t *testing.T) {
	api := &fakeAuthAPI{tokens: &hrisapi.Tokens{
		AccessToken:          signedToken(t, map[string]interface{}{"employee_id": "emp-1"}),
		AccessTokenExpiresIn: 3600,
	}}
	svc := NewSessionService(api)

	_, err := svc.SignIn(context.Background(), "staff@example.com", "pw")
	require.NoError(t, err)

	svc.SignOut()

	assert.False(t, svc.SignedIn())
	assert.Empty(t, svc.EmployeeID())
	_, err = svc.Token(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotSignedIn)
	_, ok := svc.Current()
	assert.False(t, ok)
}

package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softalya/foodcourt/internal/apperr"
	"github.com/softalya/foodcourt/internal/auth"
	"github.com/softalya/foodcourt/internal/domain"
	"github.com/softalya/foodcourt/pkg/config"
)

// ---------- Mocks ----------

type mockAccountRepo struct {
	nextID  int64
	byID    map[int64]*domain.Account
	byEmail map[string]*domain.Account
	findErr error
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{
		nextID:  1,
		byID:    make(map[int64]*domain.Account),
		byEmail: make(map[string]*domain.Account),
	}
}

func (m *mockAccountRepo) Create(_ context.Context, req *domain.RegisterRequest, passwordHash string) (*domain.Account, error) {
	a := &domain.Account{
		ID:           m.nextID,
		Email:        req.Email,
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		AccountType:  req.AccountType,
		IsActive:     false,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	m.nextID++
	m.byID[a.ID] = a
	m.byEmail[a.Email] = a
	return a, nil
}

func (m *mockAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.byEmail[email], nil
}

func (m *mockAccountRepo) FindByID(_ context.Context, id int64) (*domain.Account, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.byID[id], nil
}

func (m *mockAccountRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := m.byEmail[email]
	return ok, nil
}

func (m *mockAccountRepo) Activate(_ context.Context, id int64) error {
	if a, ok := m.byID[id]; ok {
		a.IsActive = true
	}
	return nil
}

func (m *mockAccountRepo) UpdateProfile(_ context.Context, id int64, req *domain.UpdateAccountRequest) (*domain.Account, error) {
	a, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	if req.FirstName != nil {
		a.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		a.LastName = *req.LastName
	}
	if req.Phone != nil {
		a.Phone = *req.Phone
	}
	return a, nil
}

func (m *mockAccountRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	if a, ok := m.byID[id]; ok {
		a.PasswordHash = passwordHash
	}
	return nil
}

type mockAddressRepo struct {
	nextID    int64
	addresses map[int64]*domain.Address
}

func newMockAddressRepo() *mockAddressRepo {
	return &mockAddressRepo{nextID: 1, addresses: make(map[int64]*domain.Address)}
}

func (m *mockAddressRepo) Create(_ context.Context, accountID int64, in *domain.AddressInput) (*domain.Address, error) {
	a := &domain.Address{
		ID:        m.nextID,
		AccountID: accountID,
		Street:    in.Street,
		City:      in.City,
		IsDefault: in.IsDefault,
	}
	m.nextID++
	m.addresses[a.ID] = a
	return a, nil
}

func (m *mockAddressRepo) ListByAccount(_ context.Context, accountID int64) ([]domain.Address, error) {
	var out []domain.Address
	for _, a := range m.addresses {
		if a.AccountID == accountID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockAddressRepo) FindDefaultByAccount(_ context.Context, accountID int64) (*domain.Address, error) {
	for _, a := range m.addresses {
		if a.AccountID == accountID {
			return a, nil
		}
	}
	return nil, nil
}

func (m *mockAddressRepo) Update(_ context.Context, id, accountID int64, in *domain.AddressInput) (*domain.Address, error) {
	a, ok := m.addresses[id]
	if !ok || a.AccountID != accountID {
		return nil, nil
	}
	a.Street = in.Street
	a.City = in.City
	a.IsDefault = in.IsDefault
	return a, nil
}

func (m *mockAddressRepo) Delete(_ context.Context, id, accountID int64) error {
	a, ok := m.addresses[id]
	if !ok || a.AccountID != accountID {
		return assert.AnError
	}
	delete(m.addresses, id)
	return nil
}

type mockMailer struct {
	lastTo      string
	lastSubject string
	lastText    string
	sendErr     error
	sent        int
}

func (m *mockMailer) Send(toEmail, toName, subject, text, html string) (string, error) {
	m.sent++
	m.lastTo = toEmail
	m.lastSubject = subject
	m.lastText = text
	return "mock-id", m.sendErr
}

// ---------- Helpers ----------

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:      "test-secret",
			AccessTokenTTL: 24 * time.Hour,
			ResetTokenTTL:  time.Hour,
		},
		Email: config.EmailConfig{
			ResetBaseURL: "http://localhost:8080/reset-password",
		},
	}
}

func newTestAccountService(t *testing.T) (AccountService, *mockAccountRepo, *mockMailer, *auth.TokenService) {
	t.Helper()
	accounts := newMockAccountRepo()
	addresses := newMockAddressRepo()
	mail := &mockMailer{}
	cfg := testConfig()
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret)
	svc := NewAccountService(accounts, addresses, tokens, mail, nil, cfg)
	return svc, accounts, mail, tokens
}

func registerReq(email string) *domain.RegisterRequest {
	return &domain.RegisterRequest{
		Email:           email,
		Password:        "password1",
		ConfirmPassword: "password1",
		FirstName:       "Ada",
		LastName:        "Lovelace",
		AccountType:     domain.AccountTypeCustomer,
	}
}

// resetTokenFrom pulls the token out of the plain-text reset mail body.
func resetTokenFrom(t *testing.T, text string) string {
	t.Helper()
	_, token, found := strings.Cut(text, "token=")
	require.True(t, found, "reset mail should carry a token: %q", text)
	return token
}

// ---------- Tests ----------

func TestRegisterActivatesAndMails(t *testing.T) {
	svc, accounts, mail, _ := newTestAccountService(t)

	account, err := svc.Register(context.Background(), registerReq("a@x.com"))
	require.NoError(t, err)

	assert.True(t, account.IsActive, "accounts self-activate on registration")
	assert.Equal(t, "a@x.com", account.Email)
	assert.NotEqual(t, "password1", account.PasswordHash)
	assert.Equal(t, 1, mail.sent)
	assert.Equal(t, "a@x.com", mail.lastTo)
	assert.True(t, accounts.byID[account.ID].IsActive)
}

func TestRegisterPasswordMismatch(t *testing.T) {
	svc, _, _, _ := newTestAccountService(t)

	req := registerReq("a@x.com")
	req.ConfirmPassword = "different1"

	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, "passwords do not match", apperr.ClientMessage(err))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestAccountService(t)

	_, err := svc.Register(context.Background(), registerReq("a@x.com"))
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerReq("a@x.com"))
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc, _, _, _ := newTestAccountService(t)

	req := registerReq("  MiXeD@X.CoM ")
	account, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "mixed@x.com", account.Email)
}

func TestLoginRoundTrip(t *testing.T) {
	svc, _, _, tokens := newTestAccountService(t)

	account, err := svc.Register(context.Background(), registerReq("a@x.com"))
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &domain.LoginRequest{Email: "a@x.com", Password: "password1"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	claims, err := tokens.VerifyPurpose(resp.Token, auth.PurposeAccess)
	require.NoError(t, err)
	assert.Equal(t, account.ID, claims.Sub)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc, _, _, _ := newTestAccountService(t)

	_, err := svc.Register(context.Background(), registerReq("a@x.com"))
	require.NoError(t, err)

	_, unknownErr := svc.Login(context.Background(), &domain.LoginRequest{Email: "b@x.com", Password: "password1"})
	require.Error(t, unknownErr)

	_, wrongErr := svc.Login(context.Background(), &domain.LoginRequest{Email: "a@x.com", Password: "wrong-pass"})
	require.Error(t, wrongErr)

	// Unknown email and wrong password must be indistinguishable.
	assert.Equal(t, apperr.ClientMessage(unknownErr), apperr.ClientMessage(wrongErr))
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(unknownErr))
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(wrongErr))
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	svc, _, mail, _ := newTestAccountService(t)

	err := svc.ForgotPassword(context.Background(), "nobody@x.com")
	require.NoError(t, err)
	assert.Zero(t, mail.sent)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, mail, _ := newTestAccountService(t)

	_, err := svc.Register(context.Background(), registerReq("a@x.com"))
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(context.Background(), "a@x.com"))
	require.Equal(t, 2, mail.sent, "activation mail plus reset mail")

	token := resetTokenFrom(t, mail.lastText)

	err = svc.ResetPassword(context.Background(), &domain.ResetPasswordRequest{
		Token:           token,
		Password:        "newpassword1",
		ConfirmPassword: "newpassword1",
	})
	require.NoError(t, err)

	// Old password no longer works, new one does.
	_, err = svc.Login(context.Background(), &domain.LoginRequest{Email: "a@x.com", Password: "password1"})
	require.Error(t, err)

	resp, err := svc.Login(context.Background(), &domain.LoginRequest{Email: "a@x.com", Password: "newpassword1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestResetPasswordRejectsAccessToken(t *testing.T) {
	svc, _, _, tokens := newTestAccountService(t)

	account, err := svc.Register(context.Background(), registerReq("a@x.com"))
	require.NoError(t, err)

	// A login token must not be usable for password reset.
	accessToken, err := tokens.Issue(account.ID, auth.PurposeAccess, time.Hour)
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), &domain.ResetPasswordRequest{
		Token:           accessToken,
		Password:        "newpassword1",
		ConfirmPassword: "newpassword1",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestResetPasswordMismatch(t *testing.T) {
	svc, _, _, tokens := newTestAccountService(t)

	account, err := svc.Register(context.Background(), registerReq("a@x.com"))
	require.NoError(t, err)

	token, err := tokens.Issue(account.ID, auth.PurposePasswordReset, time.Hour)
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), &domain.ResetPasswordRequest{
		Token:           token,
		Password:        "newpassword1",
		ConfirmPassword: "other-pass1",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestUpdateProfile(t *testing.T) {
	svc, _, _, _ := newTestAccountService(t)

	account, err := svc.Register(context.Background(), registerReq("a@x.com"))
	require.NoError(t, err)

	first := "Grace"
	phone := "+90 555 000 0000"
	updated, err := svc.UpdateProfile(context.Background(), account.ID, &domain.UpdateAccountRequest{
		FirstName: &first,
		Phone:     &phone,
	})
	require.NoError(t, err)
	assert.Equal(t, "Grace", updated.FirstName)
	assert.Equal(t, "Lovelace", updated.LastName, "unset fields keep their value")
	assert.Equal(t, phone, updated.Phone)
}

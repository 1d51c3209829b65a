package services

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/apperror"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/tokens"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) (*AuthService, *tokens.Service) {
	t.Helper()
	tok := tokens.NewService("test-secret", time.Hour)
	return NewAuthService(repository.NewMemoryUserRepository(), tok).WithHashCost(bcrypt.MinCost), tok
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, tok := newAuthService(t)

	reg, err := svc.Register(ctx, &dto.RegisterRequest{FullName: "Ana", Email: "ana@x.com", Password: "pw123456"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", reg.User.FullName)
	assert.Equal(t, "ana@x.com", reg.User.Email)
	assert.NotEmpty(t, reg.AccessToken)

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "ana@x.com", Password: "pw123456"})
	require.NoError(t, err)

	regID, err := tok.Verify(reg.AccessToken)
	require.NoError(t, err)
	loginID, err := tok.Verify(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, regID, loginID)
}

func TestLogin_WrongPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	_, err := svc.Register(ctx, &dto.RegisterRequest{FullName: "Ana", Email: "ana@x.com", Password: "pw123456"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "ana@x.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindCredentials, apperror.KindOf(err))
	assert.Equal(t, MsgInvalidCredentials, apperror.As(err).Message)
	assert.Equal(t, 400, apperror.KindOf(err).HTTPStatus())
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "ghost@x.com", Password: "pw"})
	assert.ErrorIs(t, err, apperror.Credentials(MsgInvalidCredentials))
}

func TestLogin_MissingFields(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "ana@x.com"})
	assert.ErrorIs(t, err, apperror.Validation(MsgCredentialsRequired))
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newAuthService(t)

	tests := []struct {
		name string
		req  dto.RegisterRequest
	}{
		{name: "missing name", req: dto.RegisterRequest{Email: "a@x.com", Password: "pw"}},
		{name: "blank name", req: dto.RegisterRequest{FullName: "  ", Email: "a@x.com", Password: "pw"}},
		{name: "missing email", req: dto.RegisterRequest{FullName: "A", Password: "pw"}},
		{name: "missing password", req: dto.RegisterRequest{FullName: "A", Email: "a@x.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), &tt.req)
			assert.ErrorIs(t, err, apperror.Validation(MsgAllFieldsRequired))
		})
	}
}

func TestRegister_DuplicateEmailIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	_, err := svc.Register(ctx, &dto.RegisterRequest{FullName: "Ana", Email: "Ana@X.com", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &dto.RegisterRequest{FullName: "Ana 2", Email: " ana@x.COM ", Password: "pw"})
	assert.ErrorIs(t, err, apperror.Validation(MsgUserExists))

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "ANA@x.com", Password: "pw"})
	assert.NoError(t, err)
}

func TestCurrentUser(t *testing.T) {
	ctx := context.Background()
	svc, tok := newAuthService(t)

	reg, err := svc.Register(ctx, &dto.RegisterRequest{FullName: "Ana", Email: "ana@x.com", Password: "pw"})
	require.NoError(t, err)
	id, err := tok.Verify(reg.AccessToken)
	require.NoError(t, err)

	user, err := svc.CurrentUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.FullName)

	_, err = svc.CurrentUser(ctx, uuid.New())
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
}

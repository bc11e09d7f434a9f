package identity

import (
	"context"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

type stubUserRepo struct {
	users map[int]*model.User
}

func (s *stubUserRepo) CreateUser(ctx context.Context, user *model.User) error {
	s.users[user.UserID] = user
	return nil
}

func (s *stubUserRepo) GetUserByID(ctx context.Context, userID int) (*model.User, error) {
	return s.users[userID], nil
}

func newResolver() (*JWTResolver, *stubUserRepo) {
	users := &stubUserRepo{users: map[int]*model.User{
		1: {UserID: 1, UserName: "royce", Role: model.RoleUser},
		2: {UserID: 2, UserName: "admin", Role: model.RoleAdmin},
	}}
	return NewJWTResolver("test-secret", users), users
}

func TestResolveActor(t *testing.T) {
	resolver, _ := newResolver()

	token, err := resolver.GenerateToken(1, time.Minute)
	require.NoError(t, err)

	actor, err := resolver.ResolveActor(context.Background(), "Bearer "+token)
	require.NoError(t, err)
	require.Equal(t, 1, actor.ID)
	require.Equal(t, model.RoleUser, actor.Role)
	require.False(t, actor.IsAdmin())
}

func TestResolveActor_WithoutBearerPrefix(t *testing.T) {
	resolver, _ := newResolver()

	token, err := resolver.GenerateToken(2, time.Minute)
	require.NoError(t, err)

	actor, err := resolver.ResolveActor(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, 2, actor.ID)
	require.True(t, actor.IsAdmin())
}

func TestResolveActor_EmptyCredential(t *testing.T) {
	resolver, _ := newResolver()

	_, err := resolver.ResolveActor(context.Background(), "")
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestResolveActor_MalformedToken(t *testing.T) {
	resolver, _ := newResolver()

	_, err := resolver.ResolveActor(context.Background(), "Bearer not-a-jwt")
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestResolveActor_WrongSecret(t *testing.T) {
	resolver, _ := newResolver()
	other := NewJWTResolver("other-secret", nil)

	token, err := other.GenerateToken(1, time.Minute)
	require.NoError(t, err)

	_, err = resolver.ResolveActor(context.Background(), "Bearer "+token)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestResolveActor_ExpiredToken(t *testing.T) {
	resolver, _ := newResolver()

	token, err := resolver.GenerateToken(1, -time.Minute)
	require.NoError(t, err)

	_, err = resolver.ResolveActor(context.Background(), "Bearer "+token)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestResolveActor_UnknownUser(t *testing.T) {
	resolver, _ := newResolver()

	token, err := resolver.GenerateToken(777, time.Minute)
	require.NoError(t, err)

	_, err = resolver.ResolveActor(context.Background(), "Bearer "+token)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

// 只接受 HMAC 簽章
func TestResolveActor_RejectsNoneAlgorithm(t *testing.T) {
	resolver, _ := newResolver()

	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": 1})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = resolver.ResolveActor(context.Background(), "Bearer "+signed)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

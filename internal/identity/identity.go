package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/golang-jwt/jwt/v5"
)

type IdentityError error

var ErrUnauthenticated IdentityError = errors.New("unauthenticated")

type Actor struct {
	ID   int
	Role model.Role
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == model.RoleAdmin
}

// Resolver 從憑證解析操作者身份
type Resolver interface {
	ResolveActor(ctx context.Context, credential string) (*Actor, error)
}

// JWTResolver HS256 token 帶 user_id claim，角色以 DB 為準
type JWTResolver struct {
	secret []byte
	users  db.IUserRepository
}

func NewJWTResolver(secret string, users db.IUserRepository) *JWTResolver {
	return &JWTResolver{secret: []byte(secret), users: users}
}

func (r *JWTResolver) ResolveActor(ctx context.Context, credential string) (*Actor, error) {
	tokenString := strings.TrimPrefix(credential, "Bearer ")
	if tokenString == "" {
		return nil, ErrUnauthenticated
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnauthenticated
		}
		return r.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrUnauthenticated
	}
	rawUserID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, ErrUnauthenticated
	}

	user, err := r.users.GetUserByID(ctx, int(rawUserID))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}

	return &Actor{ID: user.UserID, Role: user.Role}, nil
}

// GenerateToken 簽發 HS256 token，測試與內部工具使用
func (r *JWTResolver) GenerateToken(userID int, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(duration).Unix(),
		"iat":     time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
}

var _ Resolver = (*JWTResolver)(nil)

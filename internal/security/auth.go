package security

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

type config interface {
	JWTSecret() string
	TokenTTL() int64
}

// AuthService issues and validates the access tokens of the stateless
// API variant. The subject claim carries the client id.
type AuthService struct {
	secret []byte
	ttl    time.Duration
}

func NewAuthService(cfg config) *AuthService {
	return &AuthService{
		secret: []byte(cfg.JWTSecret()),
		ttl:    time.Duration(cfg.TokenTTL()) * time.Minute,
	}
}

func (a *AuthService) GenerateToken(clientID int64) (string, error) {
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(clientID, 10),
		"exp": time.Now().Add(a.ttl).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	return signed, errors.Wrap(err, "generate token")
}

func (a *AuthService) ValidateToken(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	})
	if err != nil {
		return 0, errors.Wrap(err, "validate token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, errors.New("invalid token: subject missing")
	}

	clientID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "validate token")
	}
	return clientID, nil
}

package security

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer     = "dawnforge"
	defaultTTL = 7 * 24 * time.Hour
)

var (
	ErrJWTSecretMissing = errors.New("JWT_SECRET is not set")
	ErrNoSave           = errors.New("token carries no save")
)

// Claims 把 token 绑定到一个存档名，ws 订阅时校验。
type Claims struct {
	Save string `json:"save"`
	jwt.RegisteredClaims
}

func signingKey() ([]byte, error) {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s), nil
	}
	return nil, ErrJWTSecretMissing
}

// Award 为存档签发 HS256 token，ttl<=0 时按 7 天。
func Award(save string, ttl time.Duration) (string, error) {
	key, err := signingKey()
	if err != nil {
		return "", err
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	now := time.Now()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Save: save,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   save,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}).SignedString(key)
}

// ParseToken 校验签名、签发方和过期时间。
func ParseToken(raw string) (*jwt.Token, *Claims, error) {
	key, err := signingKey()
	if err != nil {
		return nil, nil, err
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, nil, err
	}
	if claims.Save == "" {
		return nil, nil, ErrNoSave
	}
	return token, claims, nil
}

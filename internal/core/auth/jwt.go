package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims 只携带 token 行 ID（jti）与用户 ID（sub）；权限以数据库为准
type Claims struct {
	jwt.RegisteredClaims
}

// TokenID 对应 personal_access_tokens.id
func (c *Claims) TokenID() string { return c.ID }

func (c *Claims) UserID() (uint, error) {
	n, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad subject: %w", err)
	}
	return uint(n), nil
}

type JWTer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration // 0 = 不设 exp
}

func (j *JWTer) Issue(tokenID string, uid uint, now time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       tokenID,
			Subject:  strconv.FormatUint(uint64(uid), 10),
			Issuer:   j.Issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if j.TTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(j.TTL))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

// ExpiresAt 按 TTL 推算过期时间，TTL 为 0 时返回 nil
func (j *JWTer) ExpiresAt(now time.Time) *time.Time {
	if j.TTL <= 0 {
		return nil
	}
	t := now.Add(j.TTL)
	return &t
}

func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg")
		}
		return j.Secret, nil
	}, jwt.WithIssuer(j.Issuer), jwt.WithLeeway(60*time.Second))

	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		if c.ID == "" {
			return nil, errors.New("missing jti")
		}
		return c, nil
	}
	return nil, errors.New("invalid token")
}

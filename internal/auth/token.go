// Package auth はトークン認証（登録・ログイン・検証）を提供する。
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hitoshi/salondesk/internal/model"
)

// Claims はアクセストークンに含めるクレームを表す。
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager はアクセストークンの発行と検証を行う。
// 署名アルゴリズムはHS256に固定する。
type TokenManager struct {
	secretKey     []byte
	tokenDuration time.Duration
}

// NewTokenManager はTokenManagerを生成する。
// secretKeyには十分に長いランダム文字列（32バイト以上）を指定すること。
func NewTokenManager(secretKey string, tokenDuration time.Duration) *TokenManager {
	return &TokenManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
	}
}

// Generate は指定ユーザーのアクセストークンを発行する。
func (m *TokenManager) Generate(user *model.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("トークンの署名に失敗しました: %w", err)
	}

	return tokenString, nil
}

// Verify はトークンを検証し、有効な場合はクレームを返す。
// 署名不正・期限切れ・アルゴリズム不一致はすべて未認証エラーになる。
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
	)
	if err != nil {
		return nil, model.NewUnauthorizedError()
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, model.NewUnauthorizedError()
	}

	return claims, nil
}

package utils

import (
	"errors"
	"fmt"
	"time"

	"feira_back_end/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims é o conteúdo útil do token de uma sessão do app.
type SessionClaims struct {
	UserID    string
	Email     string
	UserType  string
	SessionID string
	TokenID   string
	ExpiresAt time.Time
}

// GenerateJWT abre uma sessão nova: cada login ganha seu próprio sid,
// que identifica o carrinho da sessão.
func GenerateJWT(secret string, user models.User, ttl time.Duration) (string, SessionClaims, error) {
	if secret == "" {
		return "", SessionClaims{}, errors.New("JWT_SECRET não configurado")
	}

	sc := SessionClaims{
		UserID:    user.ID,
		Email:     user.Email,
		UserType:  user.UserType,
		SessionID: uuid.NewString(),
		TokenID:   uuid.NewString(),
		ExpiresAt: time.Now().Add(ttl),
	}

	claims := jwt.MapClaims{
		"user_id":   sc.UserID,
		"email":     sc.Email,
		"user_type": sc.UserType,
		"sid":       sc.SessionID,
		"jti":       sc.TokenID,
		"exp":       sc.ExpiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", SessionClaims{}, err
	}
	return signed, sc, nil
}

// ParseJWT valida assinatura e expiração e extrai as claims da sessão.
func ParseJWT(secret, tokenString string) (SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de assinatura inesperado: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return SessionClaims{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return SessionClaims{}, errors.New("claims inválidas")
	}

	sc := SessionClaims{}
	sc.UserID, _ = claims["user_id"].(string)
	sc.Email, _ = claims["email"].(string)
	sc.UserType, _ = claims["user_type"].(string)
	sc.SessionID, _ = claims["sid"].(string)
	sc.TokenID, _ = claims["jti"].(string)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		sc.ExpiresAt = exp.Time
	}

	if sc.UserID == "" || sc.SessionID == "" {
		return SessionClaims{}, errors.New("user_id ou sid ausente")
	}
	return sc, nil
}

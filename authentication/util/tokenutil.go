package util

import (
	"fmt"
	"time"

	"github.com/Musharaf05/HabitFlow/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CreateAccessToken signs a JWT for the user; the subject claim carries
// the user's UUID.
func CreateAccessToken(user *models.User, secret string, expiry time.Duration) (string, error) {
	claims := &JwtCustomClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ExtractUserID validates the token and returns the user UUID from the
// subject claim.
func ExtractUserID(requestToken string, secret string) (uuid.UUID, error) {
	token, err := jwt.Parse(requestToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid token")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(sub)
}

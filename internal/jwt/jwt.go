package jwt

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/skyreport-dev/skyreport/internal/domain"
	internal_errors "github.com/skyreport-dev/skyreport/internal/errors"
	"github.com/skyreport-dev/skyreport/internal/logger"
)

// MinKeyLen is the minimum accepted HMAC key length. Shorter keys are padded
// with Filler instead of refusing to start; operators get an error-level log
// line about it.
const (
	MinKeyLen = 32
	Filler    = "#"
)

type JwtService interface {
	NewToken(account domain.Account) (string, error)
	DecodeToken(jwtStr string) (*jwt.Token, error)
}

type Jwt struct {
	secretKey string
	ttl       time.Duration
}

func New(secretKey string, ttl time.Duration) JwtService {
	if len(secretKey) < MinKeyLen {
		logger.Log.Error("jwt signing key is shorter than the required minimum, padding it",
			"key_len", len(secretKey), "min_len", MinKeyLen)
		secretKey = secretKey + strings.Repeat(Filler, MinKeyLen-len(secretKey))
	}
	return &Jwt{secretKey, ttl}
}

func (j *Jwt) NewToken(account domain.Account) (string, error) {
	claims := jwt.MapClaims{}
	claims["uid"] = account.Id
	claims["email"] = account.Email
	claims["admin"] = account.Admin
	claims["exp"] = time.Now().Add(j.ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign token", "error", err)
		return "", errors.New("can't create token")
	}

	return tokenString, nil
}

func (j *Jwt) DecodeToken(jwtStr string) (*jwt.Token, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, &internal_errors.ErrorWithStatusCode{Message: fmt.Sprintf("Unexpected signing method: %v", token.Header["alg"]), StatusCode: http.StatusUnauthorized}
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid token signature", StatusCode: http.StatusUnauthorized}
	}

	if !token.Valid {
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid access token", StatusCode: http.StatusUnauthorized}
	}

	return token, nil
}

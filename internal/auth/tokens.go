package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultIssuer   = "package-builder-service"
	defaultTokenTTL = 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Subject   string    `json:"sub"`
	Email     string    `json:"email"`
	SessionID string    `json:"sessionId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Tokens issues and verifies HS256 member tokens.
type Tokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &Tokens{secret: []byte(secret), issuer: DefaultIssuer, ttl: ttl, now: time.Now}
}

// Issue signs a token for the user created at the end of a journey.
func (t *Tokens) Issue(userID, email, sessionID string) (string, time.Time, error) {
	if len(t.secret) == 0 {
		return "", time.Time{}, errors.New("jwt secret not configured")
	}
	expiresAt := t.now().Add(t.ttl)
	claims := jwt.MapClaims{
		"sub":        userID,
		"email":      email,
		"session_id": sessionID,
		"exp":        expiresAt.Unix(),
		"iat":        t.now().Unix(),
		"iss":        t.issuer,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (t *Tokens) Parse(token string) (Claims, error) {
	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	},
		jwt.WithIssuer(t.issuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	sessionID, _ := claims["session_id"].(string)
	exp, _ := claims["exp"].(float64)
	return Claims{Subject: sub, Email: email, SessionID: sessionID, ExpiresAt: time.Unix(int64(exp), 0)}, nil
}

// Package auth holds the password hashing and token side of the
// authentication system. It knows nothing about storage or HTTP; the
// http package is the part that deals with requests and middleware.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"musicee/errs"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Service hashes passwords and issues and verifies JWTs.
type Service struct {
	pepper     string
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewService returns an auth Service. The pepper is appended to every
// password before hashing, the secret signs all tokens.
func NewService(pepper, secret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		pepper:     pepper,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Hash returns the bcrypt hash of the peppered password.
func (s *Service) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password+s.pepper), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify checks a submitted password against a stored hash.
func (s *Service) Verify(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password+s.pepper))
	if err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return errs.Errorf(errs.EUNAUTHORIZED, "Incorrect email or password.")
		}
		return err
	}
	return nil
}

// Claims are what musicee tokens carry: the standard registered set plus
// the token type, so a refresh token can't pass as an access token.
type Claims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// IssueAccessToken returns a signed short-lived access token for the subject.
func (s *Service) IssueAccessToken(subject string) (string, error) {
	return s.issue(subject, tokenTypeAccess, s.accessTTL)
}

// IssueRefreshToken returns a signed long-lived refresh token for the subject.
func (s *Service) IssueRefreshToken(subject string) (string, error) {
	return s.issue(subject, tokenTypeRefresh, s.refreshTTL)
}

func (s *Service) issue(subject, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifyAccessToken parses a signed access token and returns its subject.
func (s *Service) VerifyAccessToken(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errs.Errorf(errs.EUNAUTHORIZED, "Unexpected token signing method.")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", errs.Errorf(errs.EUNAUTHORIZED, "The token provided is not valid.")
	}
	if claims.TokenType != tokenTypeAccess {
		return "", errs.Errorf(errs.EUNAUTHORIZED, "The token provided is not an access token.")
	}
	return claims.Subject, nil
}

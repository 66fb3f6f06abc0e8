package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"garden_panel/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultTokenTTL   = 12 * time.Hour
	defaultSigningKey = "garden-panel-dev-key"
	tokenIssuer       = "garden-panel"
)

// AuthOptions configure operator tokens. Zero values fall back to the
// development defaults.
type AuthOptions struct {
	SigningKey string
	TokenTTL   time.Duration
}

var (
	ErrEmptyPassword   = errors.New("password is empty")
	ErrInvalidPassword = errors.New("invalid password")
	ErrUserNotFound    = errors.New("operator not found")
	ErrInvalidToken    = errors.New("invalid token")
)

// Claims carried by an operator token.
type Claims struct {
	jwt.RegisteredClaims
	OperatorID int `json:"operator_id"`
}

// AuthService registers panel operators and issues HS256 tokens for them.
type AuthService struct {
	operators repository.Authorization
	key       []byte
	ttl       time.Duration
	now       func() time.Time
	parser    *jwt.Parser
}

func NewAuthService(repo repository.Authorization, opts AuthOptions) *AuthService {
	if opts.SigningKey == "" {
		opts.SigningKey = defaultSigningKey
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = defaultTokenTTL
	}
	s := &AuthService{
		operators: repo,
		key:       []byte(opts.SigningKey),
		ttl:       opts.TokenTTL,
		now:       time.Now,
	}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	return s
}

func (s *AuthService) SignUp(username, password string) (int, error) {
	if strings.TrimSpace(password) == "" {
		return 0, fmt.Errorf("%w: %w", ErrInvalidPassword, ErrEmptyPassword)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	return s.operators.Create(username, string(hash))
}

// GenerateToken checks the credentials and returns a signed token. An
// unknown operator and a wrong password are distinct errors.
func (s *AuthService) GenerateToken(username, password string) (string, error) {
	op, err := s.operators.GetByUsername(username)
	switch {
	case err != nil:
		return "", fmt.Errorf("look up operator: %w", err)
	case op == nil:
		return "", ErrUserNotFound
	}

	if bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidPassword
	}
	return s.issueToken(op.ID)
}

func (s *AuthService) ParseToken(accessToken string) (int, error) {
	claims := &Claims{}
	token, err := s.parser.ParseWithClaims(accessToken, claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.OperatorID <= 0 {
		return 0, ErrInvalidToken
	}
	return claims.OperatorID, nil
}

func (s *AuthService) issueToken(operatorID int) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.Itoa(operatorID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		OperatorID: operatorID,
	})
	return token.SignedString(s.key)
}

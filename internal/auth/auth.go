package auth

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both an unknown user and a wrong password so
// callers cannot tell which one failed.
var ErrInvalidCredentials = errors.New("invalid username or password")

type Service struct {
	db         *sql.DB
	secret     string
	sessionTTL time.Duration
}

type SessionClaims struct {
	Usuario string `json:"usuario"`
	jwt.RegisteredClaims
}

type Usuario struct {
	ID      int
	Nome    string
	Empresa string
}

func New(db *sql.DB, secret string) *Service {
	return NewWithSessionTTL(db, secret, 24*time.Hour)
}

func NewWithSessionTTL(db *sql.DB, secret string, sessionTTL time.Duration) *Service {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}

	return &Service{
		db:         db,
		secret:     secret,
		sessionTTL: sessionTTL,
	}
}

// Login verifies the submitted credentials against the stored bcrypt hash.
// Unknown names and hash mismatches return ErrInvalidCredentials; any other
// error means the credential store itself failed.
func (s *Service) Login(nome, senha string) (*Usuario, error) {
	nome = strings.TrimSpace(nome)

	var user Usuario
	var senhaHash string
	var empresa sql.NullString

	err := s.db.QueryRow(
		"SELECT id, nome, senha, empresa FROM usuarios WHERE nome = ?",
		nome,
	).Scan(&user.ID, &user.Nome, &senhaHash, &empresa)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(senhaHash), []byte(senha)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if empresa.Valid {
		user.Empresa = empresa.String
	}

	return &user, nil
}

// IssueSession signs a session token carrying the user name. The token is
// what goes into the session cookie.
func (s *Service) IssueSession(usuario string) (string, error) {
	claims := SessionClaims{
		Usuario: usuario,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}

	return signed, nil
}

// ValidateSession returns the user name carried by a session token.
func (s *Service) ValidateSession(tokenString string) (string, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to parse session: %w", err)
	}

	if !token.Valid || claims.Usuario == "" {
		return "", fmt.Errorf("invalid session")
	}

	return claims.Usuario, nil
}

// HashPassword is used by the seed subcommand; the server never hashes.
func HashPassword(senha string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

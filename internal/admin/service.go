// Package admin authenticates the site's single administrator against the
// credentials held in configuration.
package admin

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/folio/folio/backend/api/internal/config"
	"github.com/folio/folio/backend/api/internal/models"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

const Role = "admin"

type Service struct {
	email    string
	password string
	name     string
}

func NewService(cfg config.AdminConfig) *Service {
	name := cfg.Name
	if name == "" {
		name = "Admin"
	}
	return &Service{email: strings.ToLower(strings.TrimSpace(cfg.Email)), password: cfg.Password, name: name}
}

// Authenticate returns the admin identity when email and password match.
// Email comparison ignores case; both comparisons run in constant time.
func (s *Service) Authenticate(email, password string) (*models.AdminUser, error) {
	e := strings.ToLower(strings.TrimSpace(email))
	emailOK := subtle.ConstantTimeCompare([]byte(e), []byte(s.email)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	if !emailOK || !passOK || s.password == "" {
		return nil, ErrInvalidCredentials
	}
	return s.Identity(), nil
}

// Identity is the admin as returned to clients.
func (s *Service) Identity() *models.AdminUser {
	return &models.AdminUser{Email: s.email, Name: s.name, Role: Role}
}

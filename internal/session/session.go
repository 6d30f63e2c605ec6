// Package session supplies the access token and current user that every
// office call is made on behalf of.
package session

import (
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt"
	"github.com/npezzotti/go-office/internal/types"
)

const (
	userIdClaim   = "user-id"
	officeIdClaim = "office-id"
)

type Session interface {
	AccessToken() string
	CurrentUser() types.CurrentUser
}

// Static is a session whose token and user can be swapped at runtime, e.g.
// after a re-login.
type Static struct {
	mu    sync.RWMutex
	token string
	user  types.CurrentUser
}

func NewStatic(token string, user types.CurrentUser) *Static {
	return &Static{token: token, user: user}
}

func (s *Static) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Static) CurrentUser() types.CurrentUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Static) Set(token string, user types.CurrentUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
}

// FromToken builds a session from an access token, reading the current user
// from its claims. The signature is not verified: the backend does that on
// every request.
func FromToken(tokenString string) (*Static, error) {
	user, err := userFromToken(tokenString)
	if err != nil {
		return nil, err
	}

	return NewStatic(tokenString, user), nil
}

func userFromToken(tokenString string) (types.CurrentUser, error) {
	token, _, err := new(jwt.Parser).ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return types.CurrentUser{}, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return types.CurrentUser{}, fmt.Errorf("invalid token claims")
	}

	userId, ok := claims[userIdClaim].(float64)
	if !ok {
		return types.CurrentUser{}, fmt.Errorf("invalid user id claim")
	}

	officeId, ok := claims[officeIdClaim].(float64)
	if !ok {
		return types.CurrentUser{}, fmt.Errorf("invalid office id claim")
	}

	return types.CurrentUser{UserId: int(userId), OfficeId: int(officeId)}, nil
}

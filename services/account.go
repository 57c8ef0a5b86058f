package services

import (
	"fmt"

	"github.com/avelis/clavis/core"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccountService holds the internal login/logout/registration operations
// used by web login flows. It manipulates session state only; rendering and
// form handling stay with the embedding application.
type AccountService struct {
	users  core.UserStore
	logger *zap.Logger
}

func NewAccountService(users core.UserStore, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{users: users, logger: logger}
}

// Login marks the session as belonging to the user.
func (s *AccountService) Login(req core.Request, user *core.User) {
	req.Session().Set(core.SessionUserID, user.UserID)
	s.logger.Debug("user logged in", zap.String("userid", user.UserID))
}

// Logout clears all identity state from the session.
func (s *AccountService) Logout(req core.Request) {
	sess := req.Session()
	sess.Delete(core.SessionUserID)
	sess.Delete(core.SessionExternalID)
	sess.Delete(core.SessionAvatarURL)
}

// Register creates a user record with a freshly minted id. Credential
// setup (passwords, federated identities) happens in flows outside this
// core.
func (s *AccountService) Register(fullname, email string) (*core.User, error) {
	if fullname == "" {
		return nil, core.ErrFullNameRequired
	}
	user := &core.User{
		UserID:   uuid.NewString(),
		FullName: fullname,
		Email:    email,
	}
	if err := s.users.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

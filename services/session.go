package services

import (
	"errors"

	"github.com/avelis/clavis/core"
	"go.uber.org/zap"
)

// Identity is the per-request resolved caller. A zero User means the
// request is unauthenticated.
type Identity struct {
	User      *core.User
	AvatarURL string
}

// Anonymous reports whether no user could be resolved for the request.
func (i *Identity) Anonymous() bool { return i.User == nil }

// SessionService resolves the current user from session state before any
// handler runs.
type SessionService struct {
	users   core.UserStore
	avatars *AvatarResolver
	logger  *zap.Logger
}

func NewSessionService(users core.UserStore, avatars *AvatarResolver, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{users: users, avatars: avatars, logger: logger}
}

// Resolve looks up the session's user id and returns the request identity.
// It fails closed: a missing session, a stale user id, or a storage miss
// all yield an anonymous identity rather than an error. The avatar URL is
// computed at most once per session and cached there; its absence never
// blocks anything.
func (s *SessionService) Resolve(req core.Request) *Identity {
	sess := req.Session()

	userID, _ := sess.Get(core.SessionUserID).(string)
	if userID == "" {
		sess.Delete(core.SessionAvatarURL)
		return &Identity{}
	}

	user, err := s.users.GetUserByID(userID)
	if err != nil || user == nil {
		if err != nil && !errors.Is(err, core.ErrUserNotFound) {
			s.logger.Warn("session user lookup failed", zap.String("userid", userID), zap.Error(err))
		}
		// A stale session id is not an error, just an unauthenticated
		// state. Skip avatar computation entirely.
		sess.Delete(core.SessionAvatarURL)
		return &Identity{}
	}

	ident := &Identity{User: user}
	if cached := sess.Get(core.SessionAvatarURL); cached != nil {
		ident.AvatarURL, _ = cached.(string)
	} else {
		ident.AvatarURL = s.lookupAvatar(req, user)
		// Cache even the empty result so failed lookups are not retried
		// on every request.
		sess.Set(core.SessionAvatarURL, ident.AvatarURL)
	}
	return ident
}

func (s *SessionService) lookupAvatar(req core.Request, user *core.User) string {
	if s.avatars == nil {
		return ""
	}
	if user.Email != "" {
		return s.avatars.Email(user.EmailMD5(), req.IsTLS())
	}

	ext := externalID(req.Session())
	if ext == nil {
		ext = user.External
	}
	if ext == nil {
		return ""
	}
	switch ext.Service {
	case "twitter":
		return s.avatars.Twitter(ext.Username)
	case "github":
		return s.avatars.GitHub(ext.UserID)
	}
	return ""
}

func externalID(sess core.SessionStore) *core.ExternalID {
	switch v := sess.Get(core.SessionExternalID).(type) {
	case core.ExternalID:
		return &v
	case *core.ExternalID:
		return v
	}
	return nil
}

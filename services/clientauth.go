package services

import (
	"encoding/base64"
	"strings"

	"github.com/avelis/clavis/core"
	"github.com/avelis/clavis/crypto"
	"go.uber.org/zap"
)

const clientChallenge = `Basic realm="Client credentials"`

// ClientAuthService authorizes machine callers via HTTP Basic credentials.
type ClientAuthService struct {
	clients core.ClientStore
	secrets crypto.SecretHasher
	logger  *zap.Logger

	// decoyHash is verified against when the client key is unknown, so
	// that unknown keys and wrong secrets take comparable time.
	decoyHash string
}

func NewClientAuthService(clients core.ClientStore, secrets crypto.SecretHasher, logger *zap.Logger) *ClientAuthService {
	if secrets == nil {
		secrets = crypto.NewArgon2()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	decoy, err := secrets.Hash("clavis-decoy-secret")
	if err != nil {
		decoy = ""
	}
	return &ClientAuthService{clients: clients, secrets: secrets, logger: logger, decoyHash: decoy}
}

// Authenticate validates the request's Basic credentials and returns the
// resolved client. Missing credentials, an unknown key, an inactive client
// and a wrong secret all produce the same challenge, so callers cannot
// enumerate registered clients.
func (s *ClientAuthService) Authenticate(req core.Request) (*core.Client, *core.AuthError) {
	key, secret, ok := basicCredentials(req.Header("Authorization"))
	if !ok {
		return nil, &core.AuthError{
			Challenge: clientChallenge,
			Message:   "Client credentials required.",
		}
	}

	client, err := s.clients.GetClientByKey(key)
	if err != nil || client == nil {
		if s.decoyHash != "" {
			_, _ = s.secrets.Verify(secret, s.decoyHash)
		}
		return nil, s.invalidCredentials(key)
	}
	if !client.Active {
		return nil, s.invalidCredentials(key)
	}

	valid, err := s.secrets.Verify(secret, client.SecretHash)
	if err != nil || !valid {
		return nil, s.invalidCredentials(key)
	}

	return client, nil
}

func (s *ClientAuthService) invalidCredentials(key string) *core.AuthError {
	s.logger.Debug("client authentication failed", zap.String("key", key))
	return &core.AuthError{
		Challenge: clientChallenge,
		Message:   "Invalid client credentials.",
	}
}

// basicCredentials decodes an "Authorization: Basic ..." header into a
// key/secret pair.
func basicCredentials(header string) (key, secret string, ok bool) {
	const prefix = "Basic "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", false
	}
	key, secret, ok = strings.Cut(string(decoded), ":")
	return key, secret, ok
}

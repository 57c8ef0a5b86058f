package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultTwitterAPI = "https://api.twitter.com"
	defaultGitHubAPI  = "https://api.github.com"

	defaultAvatarTimeout = 5 * time.Second
)

// AvatarResolver derives a display-avatar URL for a user. The third-party
// lookups perform a blocking GET with a bounded timeout; any failure
// degrades to "no avatar" and is never surfaced to the caller.
type AvatarResolver struct {
	// TwitterAPI and GitHubAPI are overridable for tests.
	TwitterAPI string
	GitHubAPI  string

	client *http.Client
	logger *zap.Logger
}

func NewAvatarResolver(client *http.Client, logger *zap.Logger) *AvatarResolver {
	if client == nil {
		client = &http.Client{Timeout: defaultAvatarTimeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvatarResolver{
		TwitterAPI: defaultTwitterAPI,
		GitHubAPI:  defaultGitHubAPI,
		client:     client,
		logger:     logger,
	}
}

// Email returns the gravatar URL for an email md5 digest. The secure host
// variant is used when the inbound request arrived over TLS.
func (r *AvatarResolver) Email(md5sum string, secure bool) string {
	if md5sum == "" {
		return ""
	}
	if secure {
		return fmt.Sprintf("https://secure.gravatar.com/avatar/%s?s=80&d=mm", md5sum)
	}
	return fmt.Sprintf("http://www.gravatar.com/avatar/%s?s=80&d=mm", md5sum)
}

// Twitter resolves a profile-image URL by following the redirect of the
// profile_image endpoint to its final location.
func (r *AvatarResolver) Twitter(username string) string {
	if username == "" {
		return ""
	}
	resp, err := r.client.Get(fmt.Sprintf("%s/1/users/profile_image/%s", r.TwitterAPI, username))
	if err != nil {
		r.logger.Warn("twitter avatar lookup failed", zap.String("username", username), zap.Error(err))
		return ""
	}
	defer resp.Body.Close()
	return resp.Request.URL.String()
}

// GitHub reads the avatar URL from the users API JSON payload.
func (r *AvatarResolver) GitHub(userid string) string {
	if userid == "" {
		return ""
	}
	resp, err := r.client.Get(fmt.Sprintf("%s/users/%s", r.GitHubAPI, userid))
	if err != nil {
		r.logger.Warn("github avatar lookup failed", zap.String("userid", userid), zap.Error(err))
		return ""
	}
	defer resp.Body.Close()

	var info struct {
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		r.logger.Warn("github avatar payload unreadable", zap.String("userid", userid), zap.Error(err))
		return ""
	}
	return info.AvatarURL
}

package handlers

import (
	"crypto/subtle"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"

	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/api/middleware"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/database"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/github"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/models"
)

const (
	stateCookieName = "oauth_state"
	stateCookieTTL  = 600 // seconds
)

// OAuthScopes are requested on every login. "repo" is needed to write the log file.
var OAuthScopes = []string{"repo", "user"}

// NewOAuthConfig builds the GitHub OAuth application config.
func NewOAuthConfig(clientID, clientSecret, serverURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     githuboauth.Endpoint,
		RedirectURL:  strings.TrimRight(serverURL, "/") + "/auth/github/callback",
		Scopes:       OAuthScopes,
	}
}

// AuthHandler handles the GitHub OAuth login flow and logout.
type AuthHandler struct {
	OAuth     *oauth2.Config
	Provider  github.Provider
	Users     database.UserRepository
	Sessions  *middleware.SessionManager
	ClientURL string
	Secure    bool
}

// NewAuthHandler creates a new instance of AuthHandler.
func NewAuthHandler(oauth *oauth2.Config, provider github.Provider, users database.UserRepository,
	sessions *middleware.SessionManager, clientURL string, secure bool) *AuthHandler {
	return &AuthHandler{
		OAuth:     oauth,
		Provider:  provider,
		Users:     users,
		Sessions:  sessions,
		ClientURL: strings.TrimRight(clientURL, "/"),
		Secure:    secure,
	}
}

// Login redirects to GitHub's consent screen.
// GET /auth/github
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, h.stateCookie(state, stateCookieTTL))

	// prompt=consent で毎回GitHubの許可画面を表示する
	target := h.OAuth.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "consent"))
	log.WithField("redirect_uri", h.OAuth.RedirectURL).Info("GitHub OAuth initiated")
	http.Redirect(w, r, target, http.StatusFound)
}

// Callback completes the OAuth flow, stores the user and starts a session.
// GET /auth/github/callback
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if e := q.Get("error"); e != "" {
		h.fail(w, r, e)
		return
	}
	code := q.Get("code")
	if code == "" {
		http.Error(w, "No code provided by GitHub", http.StatusBadRequest)
		return
	}

	c, err := r.Cookie(stateCookieName)
	if err != nil || subtle.ConstantTimeCompare([]byte(c.Value), []byte(q.Get("state"))) != 1 {
		h.fail(w, r, "invalid oauth state")
		return
	}
	http.SetCookie(w, h.stateCookie("", -1))

	token, err := h.OAuth.Exchange(r.Context(), code)
	if err != nil {
		log.WithError(err).Error("OAuthトークンの交換に失敗しました")
		h.fail(w, r, "Failed to get access token")
		return
	}

	profile, err := h.Provider.ForToken(token.AccessToken).Viewer(r.Context())
	if err != nil {
		log.WithError(err).Error("GitHubユーザー情報の取得に失敗しました")
		h.fail(w, r, github.Classify(err).Kind.UserMessage())
		return
	}

	user, err := h.Users.UpsertGitHubUser(r.Context(), &models.User{
		GitHubID:    profile.ID,
		Username:    profile.Login,
		Email:       profile.Email,
		AvatarURL:   profile.AvatarURL,
		AccessToken: token.AccessToken,
	})
	if err != nil {
		log.WithError(err).WithField("username", profile.Login).Error("ユーザーの保存に失敗しました")
		h.fail(w, r, "Failed to save user")
		return
	}

	if _, err := h.Sessions.Issue(w, user); err != nil {
		log.WithError(err).Error("セッションの発行に失敗しました")
		h.fail(w, r, "Failed to create session")
		return
	}

	log.WithFields(log.Fields{"user_id": user.ID, "username": user.Username}).Info("User authentication successful")
	http.Redirect(w, r, h.ClientURL+"/dashboard?login=success", http.StatusFound)
}

// Logout clears the session cookie.
// POST /api/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Clear(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *AuthHandler) fail(w http.ResponseWriter, r *http.Request, message string) {
	log.WithField("reason", message).Warn("GitHub OAuth failed")
	http.Redirect(w, r, h.ClientURL+"?error=auth_failed&message="+url.QueryEscape(message), http.StatusFound)
}

func (h *AuthHandler) stateCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     stateCookieName,
		Value:    value,
		Path:     "/auth",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

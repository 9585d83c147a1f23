package models

import "time"

// User はusersテーブルのレコードに対応する構造体です。
// access_token はAPIレスポンスには含めません。
type User struct {
	ID          string    `json:"id"`
	GitHubID    string    `json:"github_id"`
	Username    string    `json:"username"`
	Email       string    `json:"email,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	AccessToken string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Credential is the read-only view of a user's GitHub authorization.
type Credential struct {
	Token    string
	Username string
}

// Credential returns the GitHub credential held by the user.
func (u *User) Credential() Credential {
	return Credential{Token: u.AccessToken, Username: u.Username}
}

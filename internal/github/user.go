package github

import (
	"context"
	"strconv"

	gh "github.com/google/go-github/v59/github"
)

// Profile is the authenticated user's GitHub identity.
type Profile struct {
	ID        string
	Login     string
	Email     string
	AvatarURL string
}

// Viewer returns the profile of the token's owner (GET /user).
func (c *Client) Viewer(ctx context.Context) (*Profile, error) {
	var user *gh.User
	err := c.retryRead(ctx, "get_viewer", func(ctx context.Context) error {
		reqCtx, cancel := context.WithTimeout(ctx, c.opts.RESTTimeout)
		defer cancel()
		var err error
		// 空文字列で認証済みユーザー自身を取得
		user, _, err = c.rest.Users.Get(reqCtx, "")
		return err
	})
	if err != nil {
		return nil, err
	}
	return &Profile{
		ID:        strconv.FormatInt(user.GetID(), 10),
		Login:     user.GetLogin(),
		Email:     user.GetEmail(),
		AvatarURL: user.GetAvatarURL(),
	}, nil
}

package github

import (
	"context"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v59/github"
	log "github.com/sirupsen/logrus"

	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/models"
)

// GetFile fetches a file from the default branch.
// A missing file (404) is not an error: it returns (nil, nil).
func (c *Client) GetFile(ctx context.Context, repo models.RepoName, path string) (*File, error) {
	var file *File
	err := c.retryRead(ctx, "get_file", func(ctx context.Context) error {
		reqCtx, cancel := context.WithTimeout(ctx, c.opts.RESTTimeout)
		defer cancel()

		fc, _, resp, err := c.rest.Repositories.GetContents(reqCtx, repo.Owner, repo.Name, path, nil)
		if err != nil {
			if resp != nil && resp.StatusCode == http.StatusNotFound {
				file = nil
				return nil
			}
			return err
		}
		if fc == nil {
			return &Error{Kind: models.ErrorKindUnknown, Message: fmt.Sprintf("%s is a directory", path)}
		}
		content, err := fc.GetContent()
		if err != nil {
			return &Error{Kind: models.ErrorKindUnknown, Message: fmt.Sprintf("decode %s: %v", path, err), err: err}
		}
		file = &File{Content: content, SHA: fc.GetSHA()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if file == nil {
		log.WithFields(log.Fields{"repo": repo.String(), "path": path}).Debug("github: file not found, starting empty")
	}
	return file, nil
}

// PutFile creates the file when sha is empty and updates it otherwise.
// Writes are not retried.
func (c *Client) PutFile(ctx context.Context, repo models.RepoName, path, message, content, sha string) error {
	reqCtx, cancel := context.WithTimeout(ctx, c.opts.RESTTimeout)
	defer cancel()

	opts := &gh.RepositoryContentFileOptions{
		Message: gh.String(message),
		Content: []byte(content),
	}

	var err error
	if sha == "" {
		_, _, err = c.rest.Repositories.CreateFile(reqCtx, repo.Owner, repo.Name, path, opts)
	} else {
		opts.SHA = gh.String(sha)
		_, _, err = c.rest.Repositories.UpdateFile(reqCtx, repo.Owner, repo.Name, path, opts)
	}
	if err != nil {
		return Classify(err)
	}
	return nil
}

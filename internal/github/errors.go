package github

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	gh "github.com/google/go-github/v59/github"

	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/models"
)

// Error is a classified failure of a GitHub call.
type Error struct {
	Kind    models.ErrorKind
	Status  int
	Message string

	transient bool
	err       error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("github: %s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("github: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.err }

// Transient reports whether a read that failed this way may succeed when repeated.
func (e *Error) Transient() bool { return e.transient }

// GraphQL transport errors only carry the HTTP status inside the message.
var statusInMessage = regexp.MustCompile(`status code: (\d{3})`)

// Classify maps any error returned by this package's collaborators to an *Error.
// It returns nil for a nil error.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	out := &Error{Kind: models.ErrorKindUnknown, Message: err.Error(), err: err}

	var rateErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	var respErr *gh.ErrorResponse
	var netErr net.Error

	switch {
	case errors.As(err, &rateErr):
		out.Kind = models.ErrorKindRateLimited
		out.Status = statusOf(rateErr.Response)
	case errors.As(err, &abuseErr):
		out.Kind = models.ErrorKindRateLimited
		out.Status = statusOf(abuseErr.Response)
	case errors.As(err, &respErr):
		out.Status = statusOf(respErr.Response)
		out.Kind = kindForStatus(out.Status)
		if respErr.Message != "" {
			out.Message = respErr.Message
		}
		out.transient = out.Status >= http.StatusInternalServerError
	case errors.Is(err, context.DeadlineExceeded):
		out.Kind = models.ErrorKindTimeout
		out.transient = true
	case errors.Is(err, context.Canceled):
		// caller went away; nothing to retry
	case errors.As(err, &netErr):
		if netErr.Timeout() {
			out.Kind = models.ErrorKindTimeout
		}
		out.transient = true
	default:
		classifyMessage(out)
	}
	return out
}

func classifyMessage(out *Error) {
	msg := strings.ToLower(out.Message)
	if strings.Contains(msg, "rate limit") {
		out.Kind = models.ErrorKindRateLimited
		return
	}
	if m := statusInMessage.FindStringSubmatch(msg); m != nil {
		status, _ := strconv.Atoi(m[1])
		out.Status = status
		out.Kind = kindForStatus(status)
		out.transient = status >= http.StatusInternalServerError
	}
}

func kindForStatus(status int) models.ErrorKind {
	switch status {
	case http.StatusNotFound:
		return models.ErrorKindNotFound
	case http.StatusForbidden:
		return models.ErrorKindPermissionDenied
	case http.StatusUnauthorized:
		return models.ErrorKindAuthExpired
	case http.StatusTooManyRequests:
		return models.ErrorKindRateLimited
	case http.StatusGatewayTimeout:
		return models.ErrorKindTimeout
	default:
		return models.ErrorKindUnknown
	}
}

func statusOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

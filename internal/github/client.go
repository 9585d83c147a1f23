package github

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	gh "github.com/google/go-github/v59/github"
	"github.com/shurcooL/githubv4"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/models"
)

// API is the set of GitHub operations DailyDiff needs on behalf of one user.
type API interface {
	GetFile(ctx context.Context, repo models.RepoName, path string) (*File, error)
	PutFile(ctx context.Context, repo models.RepoName, path, message, content, sha string) error
	ActivitySummary(ctx context.Context, username string) (*ActivitySummary, error)
	ContributionCalendar(ctx context.Context, login string) ([]models.ContributionDay, error)
	Viewer(ctx context.Context) (*Profile, error)
}

// Provider builds an API bound to a single access token.
type Provider interface {
	ForToken(token string) API
}

// File is the decoded content of a repository file and its blob SHA.
type File struct {
	Content string
	SHA     string
}

// Options configures the clients produced by a Factory.
type Options struct {
	BaseURL        string // REST root, e.g. https://api.github.com/
	GraphQLURL     string
	RESTTimeout    time.Duration
	GraphQLTimeout time.Duration
	MaxRetries     uint64        // extra attempts for idempotent reads
	RetryInterval  time.Duration // first backoff step
	RatePerSecond  float64       // <= 0 disables pacing
	Burst          int
	Transport      http.RoundTripper
}

// DefaultOptions returns the production settings.
func DefaultOptions() Options {
	return Options{
		BaseURL:        "https://api.github.com/",
		GraphQLURL:     "https://api.github.com/graphql",
		RESTTimeout:    15 * time.Second,
		GraphQLTimeout: 20 * time.Second,
		MaxRetries:     2,
		RetryInterval:  500 * time.Millisecond,
		RatePerSecond:  5,
		Burst:          10,
	}
}

// Factory creates per-token clients that share one outbound rate limiter.
type Factory struct {
	opts    Options
	limiter *rate.Limiter
}

// NewFactory creates a new Factory. Zero-valued options fall back to DefaultOptions.
func NewFactory(opts Options) *Factory {
	def := DefaultOptions()
	if opts.BaseURL == "" {
		opts.BaseURL = def.BaseURL
	}
	if opts.GraphQLURL == "" {
		opts.GraphQLURL = def.GraphQLURL
	}
	if opts.RESTTimeout <= 0 {
		opts.RESTTimeout = def.RESTTimeout
	}
	if opts.GraphQLTimeout <= 0 {
		opts.GraphQLTimeout = def.GraphQLTimeout
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = def.RetryInterval
	}
	if opts.Transport == nil {
		opts.Transport = http.DefaultTransport
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RatePerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), burst)
	}
	return &Factory{opts: opts, limiter: limiter}
}

// ForToken implements Provider.
func (f *Factory) ForToken(token string) API {
	return f.Client(token)
}

// Client returns a concrete client authenticated with token.
func (f *Factory) Client(token string) *Client {
	var transport http.RoundTripper = &pacedTransport{base: f.opts.Transport, limiter: f.limiter}
	if token != "" {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   transport,
		}
	}
	httpClient := &http.Client{Transport: transport}

	rest := gh.NewClient(httpClient)
	if base, err := url.Parse(withTrailingSlash(f.opts.BaseURL)); err == nil {
		rest.BaseURL = base
	} else {
		log.WithError(err).Warn("github: invalid REST base URL, using api.github.com")
	}

	return &Client{
		rest: rest,
		gql:  githubv4.NewEnterpriseClient(f.opts.GraphQLURL, httpClient),
		opts: f.opts,
	}
}

// Client talks to GitHub with a single user's token.
type Client struct {
	rest *gh.Client
	gql  *githubv4.Client
	opts Options
}

// retryRead runs an idempotent read, repeating transient failures with exponential backoff.
// The returned error is always an *Error.
func (c *Client) retryRead(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.opts.RetryInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(b, c.opts.MaxRetries), ctx)

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		err := fn(ctx)
		if err == nil {
			return nil
		}
		classified := Classify(err)
		if !classified.Transient() {
			return backoff.Permanent(classified)
		}
		log.WithFields(log.Fields{
			"op":      op,
			"attempt": attempt,
			"kind":    classified.Kind,
		}).Warn("github: transient failure")
		return classified
	}, policy)
	if err != nil {
		return Classify(err)
	}
	return nil
}

type pacedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *pacedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}

func withTrailingSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}

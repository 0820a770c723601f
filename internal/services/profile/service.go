package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mcoot/portfolio/internal/model"
	"github.com/mcoot/portfolio/internal/storage"
)

// Default upstream endpoints
const (
	DefaultGitHubURL   = "https://api.github.com/graphql"
	DefaultLeetCodeURL = "https://alfa-leetcode-api.onrender.com"
	DefaultBlogURL     = "https://theprogrammersgazette.vercel.app/api/latest-blog-post"
)

const contributionsQuery = `
  query($username: String!) {
    user(login: $username) {
      contributionsCollection {
        contributionCalendar {
          totalContributions
          weeks {
            contributionDays {
              date
              contributionCount
              color
            }
          }
        }
      }
    }
  }
`

// Config holds upstream endpoints, credentials and caching settings
type Config struct {
	GitHubURL   string
	GitHubToken string

	LeetCodeURL string

	BlogURL   string
	BlogToken string

	// CacheTTL is how long a successful upstream response is served from cache
	CacheTTL time.Duration
	// Timeout bounds each upstream request
	Timeout time.Duration
}

// DefaultConfig returns the public endpoints with a two hour cache
func DefaultConfig() Config {
	return Config{
		GitHubURL:   DefaultGitHubURL,
		LeetCodeURL: DefaultLeetCodeURL,
		BlogURL:     DefaultBlogURL,
		CacheTTL:    2 * time.Hour,
		Timeout:     10 * time.Second,
	}
}

// Service proxies the external profile APIs shown on the site
type Service struct {
	storage storage.Storage
	client  *http.Client
	cfg     Config
	logger  *slog.Logger
}

// New creates a profile Service. A nil client gets one with cfg.Timeout.
func New(storage storage.Storage, client *http.Client, cfg Config, logger *slog.Logger) *Service {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Service{
		storage: storage,
		client:  client,
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "profile")),
	}
}

// GitHubContributions returns the contribution calendar for a user
func (s *Service) GitHubContributions(ctx context.Context, username string) (*model.ContributionCalendar, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, model.ErrInvalidUsername
	}

	var calendar model.ContributionCalendar
	err := s.cached(ctx, "github:"+strings.ToLower(username), &calendar, func() (any, error) {
		return s.fetchContributions(ctx, username)
	})
	if err != nil {
		return nil, err
	}
	return &calendar, nil
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data *struct {
		User *struct {
			ContributionsCollection *struct {
				ContributionCalendar *model.ContributionCalendar `json:"contributionCalendar"`
			} `json:"contributionsCollection"`
		} `json:"user"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (s *Service) fetchContributions(ctx context.Context, username string) (*model.ContributionCalendar, error) {
	if s.cfg.GitHubToken == "" {
		return nil, fmt.Errorf("github: %w", model.ErrUpstreamNotConfigured)
	}

	body, err := json.Marshal(graphQLRequest{
		Query:     contributionsQuery,
		Variables: map[string]any{"username": username},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.GitHubURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.GitHubToken)

	var result graphQLResponse
	if err := s.do(req, "github", &result); err != nil {
		return nil, err
	}

	if len(result.Errors) > 0 {
		msg := result.Errors[0].Message
		if msg == "" {
			msg = "GraphQL error occurred."
		}
		return nil, &model.UpstreamError{
			Service: "github",
			Status:  http.StatusBadRequest,
			Message: msg,
			Kind:    model.ErrUpstreamBadRequest,
		}
	}

	if result.Data == nil || result.Data.User == nil ||
		result.Data.User.ContributionsCollection == nil ||
		result.Data.User.ContributionsCollection.ContributionCalendar == nil {
		return nil, fmt.Errorf("github user %q: %w", username, model.ErrProfileNotFound)
	}
	return result.Data.User.ContributionsCollection.ContributionCalendar, nil
}

// LeetCodeSolved returns the solve counts for a user
func (s *Service) LeetCodeSolved(ctx context.Context, username string) (*model.SolvedProblems, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, model.ErrInvalidUsername
	}

	var solved model.SolvedProblems
	err := s.cached(ctx, "leetcode:"+strings.ToLower(username), &solved, func() (any, error) {
		endpoint := strings.TrimRight(s.cfg.LeetCodeURL, "/") + "/" + url.PathEscape(username) + "/solved"
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		var result model.SolvedProblems
		if err := s.do(req, "leetcode", &result); err != nil {
			return nil, err
		}
		return &result, nil
	})
	if err != nil {
		return nil, err
	}
	return &solved, nil
}

// LatestBlogPost returns the most recent article from the blog API
func (s *Service) LatestBlogPost(ctx context.Context) (*model.BlogPost, error) {
	var post model.BlogPost
	err := s.cached(ctx, "blog:latest", &post, func() (any, error) {
		if s.cfg.BlogToken == "" {
			return nil, fmt.Errorf("blog: %w", model.ErrUpstreamNotConfigured)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.BlogURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("x-auth-token", s.cfg.BlogToken)

		var result model.BlogPost
		if err := s.do(req, "blog", &result); err != nil {
			return nil, err
		}
		return &result, nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// cached serves key from the response cache, or calls fetch and stores its
// result. Cache failures are logged and otherwise ignored.
func (s *Service) cached(ctx context.Context, key string, dst any, fetch func() (any, error)) error {
	data, err := s.storage.GetCached(ctx, key)
	if err == nil {
		if err := json.Unmarshal(data, dst); err == nil {
			return nil
		}
		s.logger.Warn("discarding unreadable cache entry", slog.String("key", key))
	} else if !errors.Is(err, model.ErrCacheMiss) {
		s.logger.Warn("cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	value, err := fetch()
	if err != nil {
		s.logger.Error("upstream request failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return err
	}

	data, err = json.Marshal(value)
	if err != nil {
		return err
	}
	if err := s.storage.SaveCached(ctx, key, data, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return json.Unmarshal(data, dst)
}

// do sends the request and decodes a JSON body. Non-2xx responses become an
// UpstreamError carrying the upstream status and message.
func (s *Service) do(req *http.Request, service string, dst any) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", service, model.ErrUpstreamUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", service, model.ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &model.UpstreamError{
			Service: service,
			Status:  resp.StatusCode,
			Message: upstreamMessage(body, resp.Status),
		}
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%s: %w: %v", service, model.ErrUpstreamInvalidPayload, err)
	}
	return nil
}

// upstreamMessage extracts a message field from an error body, falling back
// to the raw text and then the status line
func upstreamMessage(body []byte, status string) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) < 512 {
		return text
	}
	return status
}

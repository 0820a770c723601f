package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/portfolio/internal/dependencies/mocks"
	"github.com/mcoot/portfolio/internal/model"
	"github.com/mcoot/portfolio/internal/storage/memory"
	"github.com/mcoot/portfolio/internal/testutil"
)

const calendarResponse = `{
  "data": {
    "user": {
      "contributionsCollection": {
        "contributionCalendar": {
          "totalContributions": 42,
          "weeks": [
            {"contributionDays": [
              {"date": "2024-01-01", "contributionCount": 3, "color": "#40c463"},
              {"date": "2024-01-02", "contributionCount": 0, "color": "#ebedf0"}
            ]}
          ]
        }
      }
    }
  }
}`

type ServiceSuite struct {
	suite.Suite
	clock    *mocks.MockClock
	storage  *memory.Storage
	upstream *httptest.Server
	handler  http.HandlerFunc
	calls    atomic.Int32
	cfg      Config
	ctx      context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.storage = memory.New(s.clock)
	s.calls.Store(0)
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}
	s.upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		s.handler(w, r)
	}))

	s.cfg = DefaultConfig()
	s.cfg.GitHubURL = s.upstream.URL + "/graphql"
	s.cfg.GitHubToken = "gh-token"
	s.cfg.LeetCodeURL = s.upstream.URL
	s.cfg.BlogURL = s.upstream.URL + "/api/latest-blog-post"
	s.cfg.BlogToken = "blog-token"
	s.ctx = context.Background()
}

func (s *ServiceSuite) TearDownTest() {
	s.upstream.Close()
}

func (s *ServiceSuite) service() *Service {
	return New(s.storage, s.upstream.Client(), s.cfg, testutil.NopLogger())
}

// GitHub tests

func (s *ServiceSuite) TestGitHubContributions() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodPost, r.Method)
		s.Equal("/graphql", r.URL.Path)
		s.Equal("Bearer gh-token", r.Header.Get("Authorization"))

		var body graphQLRequest
		s.NoError(json.NewDecoder(r.Body).Decode(&body))
		s.Equal("octocat", body.Variables["username"])
		s.Contains(body.Query, "contributionCalendar")

		_, _ = w.Write([]byte(calendarResponse))
	}

	calendar, err := s.service().GitHubContributions(s.ctx, "octocat")
	s.Require().NoError(err)
	s.Equal(42, calendar.TotalContributions)
	s.Require().Len(calendar.Weeks, 1)
	s.Equal(3, calendar.Weeks[0].ContributionDays[0].ContributionCount)
	s.Equal("#40c463", calendar.Weeks[0].ContributionDays[0].Color)
}

func (s *ServiceSuite) TestGitHubCachesResponses() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(calendarResponse))
	}
	svc := s.service()

	_, err := svc.GitHubContributions(s.ctx, "octocat")
	s.Require().NoError(err)
	_, err = svc.GitHubContributions(s.ctx, "OctoCat")
	s.Require().NoError(err)
	s.Equal(int32(1), s.calls.Load())

	s.clock.Advance(2 * time.Hour)
	_, err = svc.GitHubContributions(s.ctx, "octocat")
	s.Require().NoError(err)
	s.Equal(int32(2), s.calls.Load())
}

func (s *ServiceSuite) TestGitHubMissingToken() {
	s.cfg.GitHubToken = ""

	_, err := s.service().GitHubContributions(s.ctx, "octocat")
	s.ErrorIs(err, model.ErrUpstreamNotConfigured)
	s.Equal(int32(0), s.calls.Load())
}

func (s *ServiceSuite) TestGitHubEmptyUsername() {
	_, err := s.service().GitHubContributions(s.ctx, "  ")
	s.ErrorIs(err, model.ErrInvalidUsername)
}

func (s *ServiceSuite) TestGitHubGraphQLErrors() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":null,"errors":[{"message":"Could not resolve to a User"}]}`))
	}

	_, err := s.service().GitHubContributions(s.ctx, "ghost")
	s.ErrorIs(err, model.ErrUpstreamBadRequest)
	s.Contains(err.Error(), "Could not resolve to a User")
}

func (s *ServiceSuite) TestGitHubMissingCalendar() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"user":null}}`))
	}

	_, err := s.service().GitHubContributions(s.ctx, "ghost")
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *ServiceSuite) TestGitHubUpstreamStatus() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
	}

	_, err := s.service().GitHubContributions(s.ctx, "octocat")
	s.ErrorIs(err, model.ErrUpstreamUnavailable)

	var upstream *model.UpstreamError
	s.Require().True(errors.As(err, &upstream))
	s.Equal(http.StatusUnauthorized, upstream.Status)
	s.Equal("Bad credentials", upstream.Message)
}

func (s *ServiceSuite) TestErrorsAreNotCached() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}
	svc := s.service()

	_, err := svc.GitHubContributions(s.ctx, "octocat")
	s.Error(err)

	s.handler = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(calendarResponse))
	}
	_, err = svc.GitHubContributions(s.ctx, "octocat")
	s.NoError(err)
	s.Equal(int32(2), s.calls.Load())
}

// LeetCode tests

func (s *ServiceSuite) TestLeetCodeSolved() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/alice/solved", r.URL.Path)
		_, _ = w.Write([]byte(`{"solvedProblem":120,"easySolved":60,"mediumSolved":50,"hardSolved":10,"extra":true}`))
	}

	solved, err := s.service().LeetCodeSolved(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.SolvedProblems{SolvedProblem: 120, EasySolved: 60, MediumSolved: 50, HardSolved: 10}, *solved)
}

func (s *ServiceSuite) TestLeetCodeUsernameStaysInPath() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/a?b=1/solved", r.URL.Path)
		s.Empty(r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"solvedProblem":1,"easySolved":1}`))
	}

	solved, err := s.service().LeetCodeSolved(s.ctx, "a?b=1")
	s.Require().NoError(err)
	s.Equal(1, solved.SolvedProblem)
}

func (s *ServiceSuite) TestLeetCodePassesStatusThrough() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"Too many request from this IP"}`))
	}

	_, err := s.service().LeetCodeSolved(s.ctx, "alice")
	var upstream *model.UpstreamError
	s.Require().True(errors.As(err, &upstream))
	s.Equal(http.StatusTooManyRequests, upstream.Status)
	s.Equal("Too many request from this IP", upstream.Message)
}

func (s *ServiceSuite) TestLeetCodeInvalidPayload() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}

	_, err := s.service().LeetCodeSolved(s.ctx, "alice")
	s.ErrorIs(err, model.ErrUpstreamInvalidPayload)
}

// Blog tests

func (s *ServiceSuite) TestLatestBlogPost() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		s.Equal("blog-token", r.Header.Get("x-auth-token"))
		_, _ = w.Write([]byte(`{"title":"Hello","url":"https://example.com/hello","date":"2024-05-01","description":"First post"}`))
	}

	post, err := s.service().LatestBlogPost(s.ctx)
	s.Require().NoError(err)
	s.Equal("Hello", post.Title)
	s.Equal("https://example.com/hello", post.URL)
	s.Empty(post.ImageURL)
}

func (s *ServiceSuite) TestLatestBlogPostMissingToken() {
	s.cfg.BlogToken = ""

	_, err := s.service().LatestBlogPost(s.ctx)
	s.ErrorIs(err, model.ErrUpstreamNotConfigured)
}

func (s *ServiceSuite) TestUpstreamMessageFallbacks() {
	s.Equal("boom", upstreamMessage([]byte(`{"error":"boom"}`), "500 Internal Server Error"))
	s.Equal("plain text", upstreamMessage([]byte("plain text"), "500 Internal Server Error"))
	s.Equal("500 Internal Server Error", upstreamMessage(nil, "500 Internal Server Error"))
}

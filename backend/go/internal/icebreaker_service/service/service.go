package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"IceBreaker/backend/go/internal/chains"
	"IceBreaker/backend/go/internal/locator"
	"IceBreaker/backend/go/internal/models"
	"IceBreaker/backend/go/internal/scraper"
	"IceBreaker/backend/go/pkg/logger"
)

// Stage names the pipeline step a failure happened in.
type Stage string

const (
	StageLocateProfile Stage = "locate-linkedin"
	StageScrapeProfile Stage = "scrape-profile"
	StageLocatePosts   Stage = "locate-twitter"
	StageScrapePosts   Stage = "scrape-posts"
	StageSummary       Stage = "generate-summary"
	StageInterests     Stage = "generate-interests"
	StageIceBreakers   Stage = "generate-ice-breakers"
	StageValidateInput Stage = "validate-input"
)

// StageError wraps the error of the failing stage. errors.Is sees the wrapped kind.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Generator produces one section of the result from the scraped data.
type Generator[T any] interface {
	Invoke(ctx context.Context, in chains.ChainInput) (*T, error)
}

// Deps are the collaborators of IceBreakerService.
type Deps struct {
	LinkedInLocator locator.ProfileLocator
	TwitterLocator  locator.ProfileLocator
	Profiles        scraper.ProfileScraper
	Posts           scraper.PostScraper
	Summary         Generator[models.Summary]
	Interests       Generator[models.TopicOfInterest]
	IceBreakers     Generator[models.IceBreaker]
}

// Options tune the pipeline.
type Options struct {
	// MockProfile makes the profile scraper read the fixture instead of Scrapin.io.
	MockProfile bool
	// MaxPosts is passed to the post scraper.
	MaxPosts int
}

// IceBreakerService runs the locate → scrape → generate pipeline for one name.
type IceBreakerService struct {
	deps   Deps
	opts   Options
	logger *logger.Logger
}

// NewIceBreakerService creates a new IceBreakerService.
func NewIceBreakerService(deps Deps, opts Options, log *logger.Logger) *IceBreakerService {
	if opts.MaxPosts <= 0 {
		opts.MaxPosts = 5
	}
	if log == nil {
		log = logger.Nop()
	}
	return &IceBreakerService{deps: deps, opts: opts, logger: log}
}

// IceBreakWith runs every stage in order and returns the assembled result.
// Any stage failure aborts the run; no partial result is returned.
func (s *IceBreakerService) IceBreakWith(ctx context.Context, name string) (*models.IceBreakResult, error) {
	log := logger.FromContext(ctx, s.logger).WithField("name", name)
	started := time.Now()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, s.fail(log, StageValidateInput, fmt.Errorf("%w: name is required", models.ErrBadRequest))
	}

	linkedinURL, err := s.deps.LinkedInLocator.Lookup(ctx, name)
	if err != nil {
		return nil, s.fail(log, StageLocateProfile, err)
	}
	log.WithField("linkedin_url", linkedinURL).Info("LinkedIn profile located")

	record, err := s.deps.Profiles.Scrape(ctx, linkedinURL, s.opts.MockProfile)
	if err != nil {
		return nil, s.fail(log, StageScrapeProfile, err)
	}
	profile, err := models.NewProfile(record)
	if err != nil {
		return nil, s.fail(log, StageScrapeProfile, err)
	}
	log.WithField("fields", len(record)).Info("LinkedIn profile scraped")

	twitterURL, err := s.deps.TwitterLocator.Lookup(ctx, name)
	if err != nil {
		return nil, s.fail(log, StageLocatePosts, err)
	}
	username, err := locator.TwitterUsername(twitterURL)
	if err != nil {
		return nil, s.fail(log, StageLocatePosts, err)
	}
	posts, err := s.deps.Posts.Scrape(ctx, username, s.opts.MaxPosts)
	if err != nil {
		return nil, s.fail(log, StageScrapePosts, err)
	}
	log.WithPayload(map[string]interface{}{"username": username, "posts": len(posts)}).Info("Posts scraped")

	in := chains.ChainInput{Profile: profile.Record, Posts: posts}

	summary, err := s.deps.Summary.Invoke(ctx, in)
	if err != nil {
		return nil, s.fail(log, StageSummary, err)
	}
	interests, err := s.deps.Interests.Invoke(ctx, in)
	if err != nil {
		return nil, s.fail(log, StageInterests, err)
	}
	iceBreakers, err := s.deps.IceBreakers.Invoke(ctx, in)
	if err != nil {
		return nil, s.fail(log, StageIceBreakers, err)
	}

	log.WithField("duration_ms", time.Since(started).Milliseconds()).Info("Ice breakers generated")
	return &models.IceBreakResult{
		Summary:     *summary,
		Interests:   *interests,
		IceBreakers: *iceBreakers,
		PictureURL:  profile.PictureURL(),
	}, nil
}

func (s *IceBreakerService) fail(log *logger.Logger, stage Stage, err error) error {
	log.WithError(models.ErrorInfo{
		Message: err.Error(),
		Type:    models.ErrorType(err),
		Stage:   string(stage),
	}).Error("Pipeline stage failed")
	return &StageError{Stage: stage, Err: err}
}

// StageOf returns the failing stage recorded in err, if any.
func StageOf(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}

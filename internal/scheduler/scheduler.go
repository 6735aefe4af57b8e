// Package scheduler runs the dispatch loop: every cycle it fetches each
// source, skips snapshots that were already dispatched, and posts one
// announcement per new article at a paced rate.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	"arxivbot/internal/config"
	"arxivbot/internal/fetcher"
	"arxivbot/internal/filter"
	"arxivbot/internal/model"
	"arxivbot/internal/poster"
	"arxivbot/internal/storage"
)

const (
	defaultTweetInterval = 20 * time.Minute
	defaultCycleSchedule = "@every 10h"
)

// Synthesizer turns an article into the text to publish.
type Synthesizer interface {
	Synthesize(article model.Article) string
}

// Poster publishes a finished text. Rejections are reported as *poster.PostError.
type Poster interface {
	Post(ctx context.Context, text string) error
}

// Scheduler periodically dispatches new arXiv snapshots.
type Scheduler struct {
	sources  []config.Source
	store    storage.Storage
	fetcher  *fetcher.Fetcher
	synth    Synthesizer
	poster   Poster
	log      *slog.Logger
	limiter  *rate.Limiter
	schedule cron.Schedule
	now      func() time.Time
}

// New creates a Scheduler with the default pacing and cycle schedule.
func New(sources []config.Source, store storage.Storage, f *fetcher.Fetcher, synth Synthesizer, p Poster, log *slog.Logger) *Scheduler {
	s := &Scheduler{
		sources: sources,
		store:   store,
		fetcher: f,
		synth:   synth,
		poster:  p,
		log:     log,
		now:     time.Now,
	}
	s.SetTweetInterval(defaultTweetInterval)
	schedule, _ := cron.ParseStandard(defaultCycleSchedule)
	s.schedule = schedule
	return s
}

// SetTweetInterval sets the minimum gap between two posts. A non-positive
// interval disables pacing.
func (s *Scheduler) SetTweetInterval(d time.Duration) {
	if d <= 0 {
		s.limiter = rate.NewLimiter(rate.Inf, 1)
		return
	}
	s.limiter = rate.NewLimiter(rate.Every(d), 1)
}

// SetCycleSchedule replaces the cycle schedule with a cron spec such as
// "@every 10h" or "0 6 * * 1-5".
func (s *Scheduler) SetCycleSchedule(spec string) error {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("parse cycle schedule %q: %w", spec, err)
	}
	s.schedule = schedule
	return nil
}

// Run executes a cycle immediately and then one per schedule tick, blocking
// until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		s.RunCycle(ctx)
		if ctx.Err() != nil {
			return
		}

		next := s.schedule.Next(s.now())
		s.log.Info("next cycle", "at", next.Format(time.RFC3339), "in", humanize.Time(next))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// RunCycle processes every source once, in configuration order.
func (s *Scheduler) RunCycle(ctx context.Context) {
	cycleID := uuid.NewString()
	log := s.log.With("cycle_id", cycleID)
	log.Info("cycle started", "sources", len(s.sources))

	for _, src := range s.sources {
		if ctx.Err() != nil {
			return
		}
		s.processSource(ctx, log.With("source", src.ID), cycleID, src)
	}
}

// processSource dispatches the current snapshot of src unless its date
// matches the stored marker. The marker is written before the first post:
// if the process dies mid-dispatch, the rest of the snapshot is lost rather
// than the whole snapshot being posted again on restart.
func (s *Scheduler) processSource(ctx context.Context, log *slog.Logger, cycleID string, src config.Source) {
	snap, err := s.fetcher.Fetch(ctx, src.URL)
	switch {
	case errors.Is(err, fetcher.ErrMalformedFeed):
		log.Error("malformed feed", "url", src.URL, "error", err)
		return
	case err != nil:
		log.Warn("fetch feed", "url", src.URL, "error", err)
		return
	}

	articles, err := filter.Articles(snap.Articles, src.Filters)
	if err != nil {
		log.Error("apply filters", "error", err)
		return
	}

	last, err := s.store.LastDispatched(ctx, src.ID)
	if err != nil {
		log.Error("read marker", "error", err)
		return
	}
	if last == snap.PublicationDate {
		log.Info("snapshot already dispatched", "date", snap.PublicationDate)
		return
	}
	if err := s.store.SetLastDispatched(ctx, src.ID, snap.PublicationDate); err != nil {
		log.Error("write marker", "date", snap.PublicationDate, "error", err)
		return
	}

	log.Info("dispatching snapshot", "date", snap.PublicationDate,
		"articles", len(snap.Articles), "matched", len(articles))

	sent := 0
	for _, article := range articles {
		if err := s.limiter.Wait(ctx); err != nil {
			return
		}
		if s.dispatch(ctx, log, cycleID, src.ID, snap.PublicationDate, article) {
			sent++
		}
	}
	log.Info("snapshot dispatched", "date", snap.PublicationDate, "sent", sent, "failed", len(articles)-sent)
}

func (s *Scheduler) dispatch(ctx context.Context, log *slog.Logger, cycleID, sourceID, date string, article model.Article) bool {
	text := s.synth.Synthesize(article)
	post := &model.Post{
		CycleID:         cycleID,
		SourceID:        sourceID,
		PublicationDate: date,
		Link:            article.Link,
		Text:            text,
		Status:          model.PostSent,
	}

	err := s.poster.Post(ctx, text)
	var postErr *poster.PostError
	switch {
	case errors.As(err, &postErr):
		log.Warn("post failed", "link", article.Link, "text", text, "reason", postErr.Reason)
		post.Status, post.Error = model.PostFailed, postErr.Reason
	case err != nil:
		log.Error("post", "link", article.Link, "error", err)
		post.Status, post.Error = model.PostFailed, err.Error()
	default:
		log.Info("posted", "link", article.Link)
	}

	if err := s.store.RecordPost(ctx, post); err != nil {
		log.Error("record post", "link", article.Link, "error", err)
	}
	return post.Status == model.PostSent
}

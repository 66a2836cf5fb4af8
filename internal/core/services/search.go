package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/sercha-hub/internal/core/domain"
	"github.com/custodia-labs/sercha-hub/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-hub/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-hub/internal/logger"
	"github.com/custodia-labs/sercha-hub/internal/metrics"
)

// Ensure searchService implements SearchService
var _ driving.SearchService = (*searchService)(nil)

// DefaultSearchTimeout bounds the whole fan-out when none is configured
const DefaultSearchTimeout = 10 * time.Second

// Source names used in upstream errors, logs and metrics
const (
	SourcePeople        = "people"
	SourceChannels      = "channels"
	SourceConversations = "conversations"
	SourceMessages      = "messages"
	SourceSender        = "sender"
	SourceDocuments     = "documents"
	SourceFiles         = "files"
	SourceMembership    = "membership"
)

// SearchSources are the read-only collaborators a search fans out to.
type SearchSources struct {
	People        driven.PersonDirectory
	Channels      driven.ChannelStore
	Conversations driven.ConversationStore
	Messages      driven.MessageStore
	Documents     driven.DocumentStore
	Memberships   driven.MembershipStore
	Files         driven.ObjectStore
}

// SearchConfig tunes the search service.
type SearchConfig struct {
	Limits  Limits
	Timeout time.Duration
	// StrictSenderFilter makes an unknown sender select no messages
	// instead of dropping the filter.
	StrictSenderFilter bool
}

// searchService implements the SearchService interface
type searchService struct {
	sources SearchSources
	cfg     SearchConfig
	logger  *zap.Logger
}

// NewSearchService creates a new SearchService
func NewSearchService(sources SearchSources, cfg SearchConfig, log *zap.Logger) driving.SearchService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultSearchTimeout
	}
	if cfg.Limits.Default <= 0 || cfg.Limits.Max <= 0 {
		cfg.Limits = DefaultLimits
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &searchService{sources: sources, cfg: cfg, logger: log}
}

// Search normalizes the request, fans out one query per kind under a single
// deadline, hides messages and files the caller may not see and shapes the response.
// Any failing source fails the whole search.
func (s *searchService) Search(ctx context.Context, callerID string, raw domain.RawSearchParams) (*domain.UnifiedSearchResponse, error) {
	start := time.Now()

	req, err := s.cfg.Limits.Normalize(callerID, raw)
	if err != nil {
		observeSearch("invalid", start)
		return nil, err
	}

	log := s.requestLogger(ctx).With(
		zap.String("workspace_id", req.WorkspaceID),
		zap.String("caller_id", req.CallerID),
	)

	results, membership, err := s.fanOut(ctx, req)
	if err != nil {
		var upstream *domain.UpstreamError
		if errors.As(err, &upstream) {
			log.Warn("search source failed",
				zap.String("source", upstream.Source),
				zap.Duration("took", time.Since(start)),
				zap.Error(upstream.Err),
			)
		}
		observeSearch("upstream_error", start)
		return nil, err
	}

	if !membership.WorkspaceMember {
		observeSearch("forbidden", start)
		return nil, domain.ErrForbidden
	}

	var dropped, droppedFiles int
	results.messages, dropped = filterVisible(results.messages, req.CallerID, membership)
	if dropped > 0 {
		metrics.SearchMessagesFiltered.Add(float64(dropped))
	}
	results.files, droppedFiles = filterVisibleFiles(results.files, membership)
	if droppedFiles > 0 {
		metrics.SearchFilesFiltered.Add(float64(droppedFiles))
	}
	results.messages = capAt(results.messages, req.Filters.Limit)
	results.files = capAt(results.files, req.Filters.Limit)

	resp := shape(req, results)
	resp.Took = time.Since(start)

	for kind, n := range resp.Counts() {
		if n > 0 {
			metrics.SearchResultsTotal.WithLabelValues(string(kind)).Add(float64(n))
		}
	}
	observeSearch("ok", start)

	log.Debug("search completed",
		zap.Int("total_results", resp.TotalResults),
		zap.Int("messages_hidden", dropped),
		zap.Int("files_hidden", droppedFiles),
		zap.Duration("took", resp.Took),
	)
	return resp, nil
}

// fanOut runs every source concurrently and joins once. Each task writes only
// its own slot, so the slots need no locking.
func (s *searchService) fanOut(ctx context.Context, req domain.SearchRequest) (entityResults, *domain.Membership, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	var (
		results    entityResults
		membership *domain.Membership
	)

	run := func(source string, fn func(ctx context.Context) error) {
		g.Go(func() error {
			began := time.Now()
			err := fn(gctx)
			metrics.SearchSourceDuration.WithLabelValues(source).Observe(time.Since(began).Seconds())
			if err != nil {
				return &domain.UpstreamError{Source: source, Err: err}
			}
			return nil
		})
	}

	run(SourceMembership, func(ctx context.Context) (err error) {
		membership, err = s.sources.Memberships.Membership(ctx, req.WorkspaceID, req.CallerID)
		return err
	})
	run(SourcePeople, func(ctx context.Context) (err error) {
		results.people, err = s.sources.People.Find(ctx, buildPersonQuery(req))
		return err
	})
	run(SourceChannels, func(ctx context.Context) (err error) {
		results.channels, err = s.sources.Channels.Find(ctx, buildChannelQuery(req))
		return err
	})
	run(SourceConversations, func(ctx context.Context) (err error) {
		results.conversations, err = s.sources.Conversations.Find(ctx, buildConversationQuery(req))
		return err
	})
	run(SourceDocuments, func(ctx context.Context) (err error) {
		results.documents, err = s.sources.Documents.Find(ctx, buildDocumentQuery(req))
		return err
	})
	run(SourceFiles, func(ctx context.Context) (err error) {
		results.files, err = s.sources.Files.Search(ctx, buildFileSearch(req))
		return err
	})
	// The message path is a two-stage chain: resolve the sender, then query.
	g.Go(func() error {
		sender, err := resolveSender(gctx, s.sources.People, req.WorkspaceID, req.Filters.SenderName)
		if err != nil {
			return &domain.UpstreamError{Source: SourceSender, Err: err}
		}
		query := withSender(buildMessageQuery(req), sender, s.cfg.StrictSenderFilter)

		began := time.Now()
		results.messages, err = s.sources.Messages.Find(gctx, query)
		metrics.SearchSourceDuration.WithLabelValues(SourceMessages).Observe(time.Since(began).Seconds())
		if err != nil {
			return &domain.UpstreamError{Source: SourceMessages, Err: err}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return entityResults{}, nil, err
	}
	// A source that ignores its context can still finish after the deadline.
	if err := ctx.Err(); err != nil {
		return entityResults{}, nil, &domain.UpstreamError{Source: "search", Err: err}
	}
	if membership == nil {
		membership = &domain.Membership{WorkspaceID: req.WorkspaceID, UserID: req.CallerID}
	}
	return results, membership, nil
}

// requestLogger prefers the request-scoped logger set by the HTTP layer.
func (s *searchService) requestLogger(ctx context.Context) *zap.Logger {
	if l := logger.FromContext(ctx); l.Core().Enabled(zap.ErrorLevel) {
		return l
	}
	return s.logger
}

func observeSearch(status string, start time.Time) {
	metrics.SearchDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
}

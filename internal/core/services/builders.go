package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/sercha-hub/internal/core/domain"
	"github.com/custodia-labs/sercha-hub/internal/core/ports/driven"
)

// Builders are pure: each turns the canonical request into one store query.

func buildPersonQuery(req domain.SearchRequest) domain.PersonQuery {
	return domain.PersonQuery{
		WorkspaceID: req.WorkspaceID,
		Text:        req.Query,
		Limit:       req.Filters.Limit,
	}
}

func buildChannelQuery(req domain.SearchRequest) domain.ChannelQuery {
	return domain.ChannelQuery{
		WorkspaceID: req.WorkspaceID,
		MemberID:    req.CallerID,
		Text:        req.Query,
		Limit:       req.Filters.Limit,
	}
}

func buildConversationQuery(req domain.SearchRequest) domain.ConversationQuery {
	return domain.ConversationQuery{
		WorkspaceID:   req.WorkspaceID,
		ParticipantID: req.CallerID,
		Text:          req.Query,
		Limit:         req.Filters.Limit,
	}
}

func buildDocumentQuery(req domain.SearchRequest) domain.DocumentQuery {
	return domain.DocumentQuery{
		WorkspaceID:    req.WorkspaceID,
		CollaboratorID: req.CallerID,
		Text:           req.Query,
		Limit:          req.Filters.Limit,
	}
}

func buildFileSearch(req domain.SearchRequest) domain.FileSearch {
	return domain.FileSearch{
		Text:        req.Query,
		WorkspaceID: req.WorkspaceID,
		ChannelID:   req.Filters.ChannelID,
		FileType:    req.Filters.FileType,
		Limit:       overFetch(req.Filters.Limit, req.Filters.ChannelID == ""),
	}
}

// overFetchFactor widens a store limit when the read is looser than the
// visibility check, so hidden rows do not crowd out visible ones.
const overFetchFactor = 3

func overFetch(limit int, loose bool) int {
	if loose && limit > 0 {
		return limit * overFetchFactor
	}
	return limit
}

// capAt trims s to at most n items; n <= 0 means no cap.
func capAt[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}

// buildMessageQuery leaves the sender unset; see withSender.
func buildMessageQuery(req domain.SearchRequest) domain.MessageQuery {
	f := req.Filters
	q := domain.MessageQuery{
		WorkspaceID:       req.WorkspaceID,
		CallerID:          req.CallerID,
		Text:              req.Query,
		ChannelID:         f.ChannelID,
		DirectOnly:        f.IsDirectMessage,
		Range:             f.DateRange(),
		HasFile:           f.HasFile,
		HasLink:           f.HasLink,
		SavedOnly:         f.IsSaved,
		ThreadRepliesOnly: f.IsThreadReply,
		PinnedOnly:        f.IsPinned,
		Limit:             f.Limit,
	}
	q.Limit = overFetch(q.Limit, q.BroadScope())
	return q
}

// senderResolution is the outcome of looking up a sender filter.
type senderResolution struct {
	requested bool
	senderID  string
}

// withSender narrows q to the resolved sender. An unresolved sender is
// dropped unless strict, in which case q matches nothing.
func withSender(q domain.MessageQuery, s senderResolution, strict bool) domain.MessageQuery {
	switch {
	case s.senderID != "":
		q.SenderID = s.senderID
	case s.requested && strict:
		q.MatchNothing = true
	}
	return q
}

// resolveSender looks up the identity behind a sender filter among the
// workspace's members. Not found is an outcome, not an error.
func resolveSender(ctx context.Context, people driven.PersonDirectory, workspaceID, name string) (senderResolution, error) {
	if name == "" {
		return senderResolution{}, nil
	}
	person, err := people.FindByIdentity(ctx, workspaceID, name)
	if errors.Is(err, domain.ErrNotFound) {
		return senderResolution{requested: true}, nil
	}
	if err != nil {
		return senderResolution{}, err
	}
	return senderResolution{requested: true, senderID: person.ID}, nil
}

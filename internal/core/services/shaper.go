package services

import "github.com/custodia-labs/sercha-hub/internal/core/domain"

// entityResults holds the per-kind record sets of one search.
type entityResults struct {
	people        []*domain.Person
	channels      []*domain.Channel
	conversations []*domain.Conversation
	messages      []*domain.Message
	documents     []*domain.Document
	files         []*domain.File
}

// shape stamps kinds and assembles the response. Every array is non-nil.
func shape(req domain.SearchRequest, r entityResults) *domain.UnifiedSearchResponse {
	resp := &domain.UnifiedSearchResponse{
		Query:         string(req.Query),
		WorkspaceID:   req.WorkspaceID,
		People:        make([]domain.PersonResult, 0, len(r.people)),
		Channels:      make([]domain.ChannelResult, 0, len(r.channels)),
		Messages:      make([]domain.MessageResult, 0, len(r.messages)),
		Files:         make([]domain.FileResult, 0, len(r.files)),
		Documents:     make([]domain.DocumentResult, 0, len(r.documents)),
		Conversations: make([]domain.ConversationResult, 0, len(r.conversations)),
	}

	for _, p := range r.people {
		resp.People = append(resp.People, domain.PersonResult{Kind: domain.KindPerson, Person: p})
	}
	for _, c := range r.channels {
		resp.Channels = append(resp.Channels, domain.ChannelResult{Kind: domain.KindChannel, Channel: c})
	}
	for _, m := range r.messages {
		resp.Messages = append(resp.Messages, domain.MessageResult{Kind: domain.KindMessage, Message: m})
	}
	for _, f := range r.files {
		resp.Files = append(resp.Files, domain.FileResult{Kind: domain.KindFile, File: f})
	}
	for _, d := range r.documents {
		resp.Documents = append(resp.Documents, domain.DocumentResult{Kind: domain.KindDocument, Document: d})
	}
	for _, c := range r.conversations {
		resp.Conversations = append(resp.Conversations, domain.ConversationResult{Kind: domain.KindConversation, Conversation: c})
	}

	resp.TotalResults = resp.Total()
	return resp
}

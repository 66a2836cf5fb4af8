package domain

import "time"

// Result is one kind-tagged search hit
type Result interface {
	ResultKind() Kind
	ResultID() string
}

// PersonResult is a person hit. The embedded record's fields are serialized inline.
type PersonResult struct {
	Kind Kind `json:"kind"`
	*Person
}

func (r PersonResult) ResultKind() Kind { return KindPerson }
func (r PersonResult) ResultID() string { return r.ID }

// ChannelResult is a channel hit
type ChannelResult struct {
	Kind Kind `json:"kind"`
	*Channel
}

func (r ChannelResult) ResultKind() Kind { return KindChannel }
func (r ChannelResult) ResultID() string { return r.ID }

// ConversationResult is a conversation hit
type ConversationResult struct {
	Kind Kind `json:"kind"`
	*Conversation
}

func (r ConversationResult) ResultKind() Kind { return KindConversation }
func (r ConversationResult) ResultID() string { return r.ID }

// MessageResult is a message hit
type MessageResult struct {
	Kind Kind `json:"kind"`
	*Message
}

func (r MessageResult) ResultKind() Kind { return KindMessage }
func (r MessageResult) ResultID() string { return r.ID }

// DocumentResult is a document hit
type DocumentResult struct {
	Kind Kind `json:"kind"`
	*Document
}

func (r DocumentResult) ResultKind() Kind { return KindDocument }
func (r DocumentResult) ResultID() string { return r.ID }

// FileResult is a file hit
type FileResult struct {
	Kind Kind `json:"kind"`
	*File
}

func (r FileResult) ResultKind() Kind { return KindFile }
func (r FileResult) ResultID() string { return r.ID }

// UnifiedSearchResponse holds one array per kind plus the total across all of them.
// Arrays are never nil.
type UnifiedSearchResponse struct {
	Query         string               `json:"query"`
	WorkspaceID   string               `json:"workspace_id"`
	People        []PersonResult       `json:"people"`
	Channels      []ChannelResult      `json:"channels"`
	Messages      []MessageResult      `json:"messages"`
	Files         []FileResult         `json:"files"`
	Documents     []DocumentResult     `json:"documents"`
	Conversations []ConversationResult `json:"conversations"`
	TotalResults  int                  `json:"total_results"`
	Took          time.Duration        `json:"took" swaggertype:"integer" example:"1500000"`
}

// Counts returns the number of hits per kind.
func (r *UnifiedSearchResponse) Counts() map[Kind]int {
	return map[Kind]int{
		KindPerson:       len(r.People),
		KindChannel:      len(r.Channels),
		KindMessage:      len(r.Messages),
		KindFile:         len(r.Files),
		KindDocument:     len(r.Documents),
		KindConversation: len(r.Conversations),
	}
}

// Total sums the per-kind counts.
func (r *UnifiedSearchResponse) Total() int {
	total := 0
	for _, n := range r.Counts() {
		total += n
	}
	return total
}

// Results flattens the response in KindOrder.
func (r *UnifiedSearchResponse) Results() []Result {
	out := make([]Result, 0, r.Total())
	for _, kind := range KindOrder {
		switch kind {
		case KindPerson:
			for _, hit := range r.People {
				out = append(out, hit)
			}
		case KindChannel:
			for _, hit := range r.Channels {
				out = append(out, hit)
			}
		case KindMessage:
			for _, hit := range r.Messages {
				out = append(out, hit)
			}
		case KindFile:
			for _, hit := range r.Files {
				out = append(out, hit)
			}
		case KindDocument:
			for _, hit := range r.Documents {
				out = append(out, hit)
			}
		case KindConversation:
			for _, hit := range r.Conversations {
				out = append(out, hit)
			}
		}
	}
	return out
}

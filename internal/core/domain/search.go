package domain

import (
	"strings"
	"time"
)

// Kind discriminates the entity a search result was drawn from
type Kind string

const (
	KindPerson       Kind = "person"
	KindChannel      Kind = "channel"
	KindConversation Kind = "conversation"
	KindMessage      Kind = "message"
	KindDocument     Kind = "document"
	KindFile         Kind = "file"
)

// KindOrder is the fixed sequence kinds are presented in.
var KindOrder = []Kind{KindPerson, KindChannel, KindMessage, KindFile, KindDocument, KindConversation}

// Search limits
const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

// RawSearchParams carries the untyped search parameters exactly as the caller sent them.
type RawSearchParams struct {
	WorkspaceID     string `json:"workspace_id"`
	Query           string `json:"q"`
	Channel         string `json:"in"`
	From            string `json:"from"`
	Before          string `json:"before"`
	After           string `json:"after"`
	On              string `json:"on"`
	HasFile         string `json:"has_file"`
	HasLink         string `json:"has_link"`
	IsDirectMessage string `json:"is_dm"`
	IsThreadReply   string `json:"is_thread_reply"`
	IsSaved         string `json:"is_saved"`
	IsPinned        string `json:"is_pinned"`
	FileType        string `json:"file_type"`
	Limit           string `json:"limit"`
}

// SearchFilters is the canonical, typed filter set.
// Every field is optional; a zero value never excludes anything.
type SearchFilters struct {
	ChannelID       string     `json:"channel_id,omitempty"`
	SenderName      string     `json:"sender_name,omitempty"`
	DateBefore      *time.Time `json:"date_before,omitempty"`
	DateAfter       *time.Time `json:"date_after,omitempty"`
	DateOn          *time.Time `json:"date_on,omitempty"`
	HasFile         bool       `json:"has_file,omitempty"`
	HasLink         bool       `json:"has_link,omitempty"`
	IsDirectMessage bool       `json:"is_direct_message,omitempty"`
	IsThreadReply   bool       `json:"is_thread_reply,omitempty"`
	IsSaved         bool       `json:"is_saved,omitempty"`
	IsPinned        bool       `json:"is_pinned,omitempty"`
	FileType        string     `json:"file_type,omitempty"`
	Limit           int        `json:"limit"`
}

// DateRange composes DateAfter, DateBefore and DateOn into one window.
// DateOn covers [start of day, start of next day); the parts intersect.
func (f SearchFilters) DateRange() TimeRange {
	var r TimeRange
	if f.DateAfter != nil {
		after := *f.DateAfter
		r = r.Intersect(TimeRange{From: &after})
	}
	if f.DateBefore != nil {
		before := *f.DateBefore
		r = r.Intersect(TimeRange{Until: &before})
	}
	if f.DateOn != nil {
		r = r.Intersect(DayRange(*f.DateOn))
	}
	return r
}

// SearchRequest is one normalized search. It is not modified after normalization.
type SearchRequest struct {
	CallerID    string        `json:"caller_id"`
	WorkspaceID string        `json:"workspace_id"`
	Query       TextPattern   `json:"query"`
	Filters     SearchFilters `json:"filters"`
}

// TextPattern is the canonical free-text pattern: a case-insensitive substring.
type TextPattern string

// IsEmpty reports whether the pattern constrains nothing.
func (p TextPattern) IsEmpty() bool {
	return p == ""
}

// Matches reports whether any of the fields contains the pattern, ignoring case.
// An empty pattern matches everything.
func (p TextPattern) Matches(fields ...string) bool {
	if p.IsEmpty() {
		return true
	}
	needle := strings.ToLower(string(p))
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// TimeRange is a time window. From is exclusive unless FromInclusive; Until is always exclusive.
type TimeRange struct {
	From          *time.Time `json:"from,omitempty"`
	FromInclusive bool       `json:"from_inclusive,omitempty"`
	Until         *time.Time `json:"until,omitempty"`
}

// DayRange returns [midnight of t's day, midnight of the next day) in t's location.
func DayRange(t time.Time) TimeRange {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 0, 1)
	return TimeRange{From: &start, FromInclusive: true, Until: &end}
}

// IsZero reports whether the range is unbounded on both sides.
func (r TimeRange) IsZero() bool {
	return r.From == nil && r.Until == nil
}

// IsEmpty reports whether no instant can fall inside the range.
func (r TimeRange) IsEmpty() bool {
	if r.From == nil || r.Until == nil {
		return false
	}
	return !r.From.Before(*r.Until)
}

// Contains reports whether t falls inside the range.
func (r TimeRange) Contains(t time.Time) bool {
	if r.From != nil {
		if r.FromInclusive {
			if t.Before(*r.From) {
				return false
			}
		} else if !t.After(*r.From) {
			return false
		}
	}
	if r.Until != nil && !t.Before(*r.Until) {
		return false
	}
	return true
}

// Intersect returns the tightest range satisfying both r and o.
func (r TimeRange) Intersect(o TimeRange) TimeRange {
	out := r
	switch {
	case o.From == nil:
	case out.From == nil || o.From.After(*out.From):
		out.From = o.From
		out.FromInclusive = o.FromInclusive
	case o.From.Equal(*out.From):
		out.FromInclusive = out.FromInclusive && o.FromInclusive
	}
	if o.Until != nil && (out.Until == nil || o.Until.Before(*out.Until)) {
		out.Until = o.Until
	}
	return out
}

// PersonQuery selects workspace members by display name or email.
type PersonQuery struct {
	WorkspaceID string
	Text        TextPattern
	Limit       int
}

// Matches applies the text predicate. Workspace membership is enforced by the directory.
func (q PersonQuery) Matches(p *Person) bool {
	return q.Text.Matches(p.Name, p.Email)
}

// ChannelQuery selects channels the member belongs to by name, title or description.
type ChannelQuery struct {
	WorkspaceID string
	MemberID    string
	Text        TextPattern
	Limit       int
}

// Matches reports whether c satisfies the query.
func (q ChannelQuery) Matches(c *Channel) bool {
	return c.WorkspaceID == q.WorkspaceID &&
		c.HasMember(q.MemberID) &&
		q.Text.Matches(c.Name, c.Title, c.Description)
}

// ConversationQuery selects conversations the participant takes part in by name.
type ConversationQuery struct {
	WorkspaceID   string
	ParticipantID string
	Text          TextPattern
	Limit         int
}

// Matches reports whether c satisfies the query.
func (q ConversationQuery) Matches(c *Conversation) bool {
	return c.WorkspaceID == q.WorkspaceID &&
		c.HasParticipant(q.ParticipantID) &&
		q.Text.Matches(c.Name)
}

// DocumentQuery selects documents shared with the collaborator by title.
type DocumentQuery struct {
	WorkspaceID    string
	CollaboratorID string
	Text           TextPattern
	Limit          int
}

// Matches reports whether d satisfies the query.
func (q DocumentQuery) Matches(d *Document) bool {
	return d.WorkspaceID == q.WorkspaceID &&
		d.HasCollaborator(q.CollaboratorID) &&
		q.Text.Matches(d.Title)
}

// MessageQuery is the store-level message predicate.
// Its scope is deliberately loose; exact visibility is checked after the read.
type MessageQuery struct {
	WorkspaceID string
	CallerID    string
	Text        TextPattern

	// ChannelID narrows to one channel.
	ChannelID string
	// DirectOnly narrows to conversations the caller takes part in, either
	// listed on the message or as a participant of its conversation.
	DirectOnly bool
	// SenderID narrows to one sender when the sender filter resolved.
	SenderID string
	// MatchNothing is set when a filter can be proven to select no message.
	MatchNothing bool

	Range             TimeRange
	HasFile           bool
	HasLink           bool
	SavedOnly         bool
	ThreadRepliesOnly bool
	PinnedOnly        bool
	Limit             int
}

// BroadScope reports whether the query uses the "takes part OR any channel" scope.
func (q MessageQuery) BroadScope() bool {
	return q.ChannelID == "" && !q.DirectOnly
}

// Matches reports whether m satisfies the store-level predicate, judging
// participation by the message's own participant list only.
func (q MessageQuery) Matches(m *Message) bool {
	return q.MatchesIn(m, nil)
}

// MatchesIn is Matches with conversation participation: inConversation
// reports whether the caller takes part in a conversation of the workspace.
// A nil inConversation knows no conversations.
func (q MessageQuery) MatchesIn(m *Message, inConversation func(conversationID string) bool) bool {
	if q.MatchNothing || m.WorkspaceID != q.WorkspaceID {
		return false
	}
	if q.ChannelID != "" && m.ChannelID != q.ChannelID {
		return false
	}
	takesPart := m.HasParticipant(q.CallerID) ||
		(m.ConversationID != "" && inConversation != nil && inConversation(m.ConversationID))
	if q.DirectOnly && (m.ConversationID == "" || !takesPart) {
		return false
	}
	if q.BroadScope() && !takesPart && !m.InChannel() {
		return false
	}
	if q.SenderID != "" && m.SenderID != q.SenderID {
		return false
	}
	if !q.Text.Matches(m.Body) {
		return false
	}
	if !q.Range.Contains(m.CreatedAt) {
		return false
	}
	if q.HasFile && !m.HasAttachments() {
		return false
	}
	if q.HasLink && !m.HasLink() {
		return false
	}
	if q.SavedOnly && !m.Bookmarked {
		return false
	}
	if q.ThreadRepliesOnly && m.ThreadReplyCount <= 0 {
		return false
	}
	if q.PinnedOnly && !m.Pinned {
		return false
	}
	return true
}

// FileSearch is the object-store search request.
type FileSearch struct {
	Text        TextPattern
	WorkspaceID string
	ChannelID   string
	FileType    string
	Limit       int
}

// Matches reports whether f satisfies the search.
func (q FileSearch) Matches(f *File) bool {
	if f.WorkspaceID != q.WorkspaceID {
		return false
	}
	if q.ChannelID != "" && f.ChannelID != q.ChannelID {
		return false
	}
	if prefix := ContentTypePrefix(q.FileType); prefix != "" &&
		!strings.HasPrefix(strings.ToLower(f.ContentType), prefix) {
		return false
	}
	return q.Text.Matches(f.Filename)
}

package domain

import (
	"strings"
	"time"
)

// Attachment is a file reference carried by a message.
type Attachment struct {
	FileID      string `json:"file_id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Message is a single chat message posted to a channel or a conversation.
// ParticipantIDs lists the identities the message was delivered to.
type Message struct {
	ID               string       `json:"id"`
	WorkspaceID      string       `json:"workspace_id"`
	ChannelID        string       `json:"channel_id,omitempty"`
	ConversationID   string       `json:"conversation_id,omitempty"`
	SenderID         string       `json:"sender_id"`
	Body             string       `json:"body"`
	ParticipantIDs   []string     `json:"participant_ids"`
	Attachments      []Attachment `json:"attachments"`
	ParentID         string       `json:"parent_id,omitempty"`
	ThreadReplyCount int          `json:"thread_reply_count"`
	Bookmarked       bool         `json:"bookmarked"`
	Pinned           bool         `json:"pinned"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// InChannel reports whether the message was posted to a channel.
func (m *Message) InChannel() bool {
	return m.ChannelID != ""
}

// HasParticipant reports whether userID is listed on the message.
func (m *Message) HasParticipant(userID string) bool {
	return containsID(m.ParticipantIDs, userID)
}

// HasAttachments reports whether the message carries at least one file.
func (m *Message) HasAttachments() bool {
	return len(m.Attachments) > 0
}

// HasLink reports whether the body contains a web link.
func (m *Message) HasLink() bool {
	return ContainsLink(m.Body)
}

// LinkMarkers are the substrings that make a body count as containing a link.
var LinkMarkers = []string{"http://", "https://"}

// ContainsLink reports whether text contains any link marker.
func ContainsLink(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range LinkMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

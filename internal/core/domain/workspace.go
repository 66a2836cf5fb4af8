package domain

import "time"

// Workspace is the tenant boundary; every search is scoped to exactly one.
type Workspace struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Channel is a named room inside a workspace.
type Channel struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Name        string    `json:"name"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	MemberIDs   []string  `json:"member_ids"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasMember reports whether userID belongs to the channel.
func (c *Channel) HasMember(userID string) bool {
	return containsID(c.MemberIDs, userID)
}

// Conversation is a direct or group message thread outside channels.
type Conversation struct {
	ID             string    `json:"id"`
	WorkspaceID    string    `json:"workspace_id"`
	Name           string    `json:"name"`
	ParticipantIDs []string  `json:"participant_ids"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// HasParticipant reports whether userID takes part in the conversation.
func (c *Conversation) HasParticipant(userID string) bool {
	return containsID(c.ParticipantIDs, userID)
}

// Membership is the caller's access inside one workspace, as resolved by the membership lookup.
type Membership struct {
	WorkspaceID     string   `json:"workspace_id"`
	UserID          string   `json:"user_id"`
	WorkspaceMember bool     `json:"workspace_member"`
	ChannelIDs      []string `json:"channel_ids"`
	ConversationIDs []string `json:"conversation_ids"`
}

// InChannel reports whether the member belongs to the channel.
func (m *Membership) InChannel(channelID string) bool {
	return m != nil && containsID(m.ChannelIDs, channelID)
}

// InConversation reports whether the member takes part in the conversation.
func (m *Membership) InConversation(conversationID string) bool {
	return m != nil && containsID(m.ConversationIDs, conversationID)
}

func containsID(ids []string, id string) bool {
	if id == "" {
		return false
	}
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

package services

import "github.com/custodia-labs/sercha-hub/internal/core/domain"

// canSeeMessage is the exact visibility rule applied after the loose store read.
//   - channel message: the caller belongs to that channel
//   - conversation message: the caller takes part in the conversation
//   - anything else: the caller is listed on the message
func canSeeMessage(m *domain.Message, callerID string, membership *domain.Membership) bool {
	switch {
	case m.ChannelID != "":
		return membership.InChannel(m.ChannelID)
	case m.ConversationID != "":
		return m.HasParticipant(callerID) || membership.InConversation(m.ConversationID)
	default:
		return m.HasParticipant(callerID)
	}
}

// canSeeFile hides files shared in a channel the caller has not joined.
// Files outside any channel are visible to every workspace member.
func canSeeFile(f *domain.File, membership *domain.Membership) bool {
	return f.ChannelID == "" || membership.InChannel(f.ChannelID)
}

// filterVisibleFiles keeps the files the caller may see, preserving order.
func filterVisibleFiles(files []*domain.File, membership *domain.Membership) ([]*domain.File, int) {
	visible := make([]*domain.File, 0, len(files))
	for _, f := range files {
		if canSeeFile(f, membership) {
			visible = append(visible, f)
		}
	}
	return visible, len(files) - len(visible)
}

// filterVisible keeps the messages the caller may see, preserving order.
func filterVisible(messages []*domain.Message, callerID string, membership *domain.Membership) ([]*domain.Message, int) {
	visible := make([]*domain.Message, 0, len(messages))
	for _, m := range messages {
		if canSeeMessage(m, callerID, membership) {
			visible = append(visible, m)
		}
	}
	return visible, len(messages) - len(visible)
}

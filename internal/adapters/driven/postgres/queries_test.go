package postgres

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/sercha-hub/internal/core/domain"
)

func TestLikePattern(t *testing.T) {
	tests := map[string]string{
		"launch":   "%launch%",
		"50%":      `%50\%%`,
		"snake_id": `%snake\_id%`,
		`back\sl`:  `%back\\sl%`,
	}
	for in, want := range tests {
		assert.Equal(t, want, likePattern(in), in)
	}
}

func TestClauses(t *testing.T) {
	var c clauses
	assert.Empty(t, c.where())
	assert.Empty(t, c.limit(0))

	c.add("a = " + c.arg(1))
	c.matchAny("x", "name", "email")
	c.matchAny("", "ignored")

	assert.Equal(t, " WHERE a = $1 AND (name ILIKE $2 OR email ILIKE $2)", c.where())
	assert.Equal(t, " LIMIT $3", c.limit(10))
	assert.Equal(t, []interface{}{1, "%x%", 10}, c.args)
}

func TestPersonFindSQL(t *testing.T) {
	query, args := personFindSQL(domain.PersonQuery{WorkspaceID: "W1", Text: "ali", Limit: 20})

	assert.Contains(t, query, "JOIN workspace_members wm ON wm.user_id = u.id")
	assert.Contains(t, query, "wm.workspace_id = $1")
	assert.Contains(t, query, "(u.name ILIKE $2 OR u.email ILIKE $2)")
	assert.True(t, strings.HasSuffix(query, "ORDER BY u.name LIMIT $3"))
	assert.Equal(t, []interface{}{"W1", "%ali%", 20}, args)
}

func TestChannelFindSQL(t *testing.T) {
	query, args := channelFindSQL(domain.ChannelQuery{WorkspaceID: "W1", MemberID: "alice", Text: "launch", Limit: 5})

	assert.Contains(t, query, "$2 = ANY(member_ids)")
	assert.Contains(t, query, "(name ILIKE $3 OR title ILIKE $3 OR description ILIKE $3)")
	assert.Equal(t, []interface{}{"W1", "alice", "%launch%", 5}, args)
}

func TestConversationAndDocumentFindSQL(t *testing.T) {
	query, args := conversationFindSQL(domain.ConversationQuery{WorkspaceID: "W1", ParticipantID: "alice"})
	assert.Contains(t, query, "$2 = ANY(participant_ids)")
	assert.NotContains(t, query, "ILIKE")
	assert.NotContains(t, query, "LIMIT")
	assert.Equal(t, []interface{}{"W1", "alice"}, args)

	query, args = documentFindSQL(domain.DocumentQuery{WorkspaceID: "W1", CollaboratorID: "alice", Text: "plan", Limit: 3})
	assert.Contains(t, query, "$2 = ANY(collaborator_ids)")
	assert.Contains(t, query, "(title ILIKE $3)")
	assert.Equal(t, []interface{}{"W1", "alice", "%plan%", 3}, args)
}

func TestMessageFindSQL_BroadScope(t *testing.T) {
	query, args := messageFindSQL(domain.MessageQuery{WorkspaceID: "W1", CallerID: "alice", Text: "launch", Limit: 20})

	assert.Contains(t, query, "($2 = ANY(participant_ids) OR conversation_id IN ("+
		"SELECT cv.id FROM conversations cv WHERE cv.workspace_id = $1 AND $2 = ANY(cv.participant_ids)) OR channel_id IS NOT NULL)")
	assert.Contains(t, query, "(body ILIKE $3)")
	assert.Contains(t, query, "ORDER BY created_at DESC LIMIT $4")
	assert.Equal(t, []interface{}{"W1", "alice", "%launch%", 20}, args)
}

func TestMessageFindSQL_AllFilters(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	until := from.AddDate(0, 0, 1)

	query, args := messageFindSQL(domain.MessageQuery{
		WorkspaceID:       "W1",
		CallerID:          "alice",
		ChannelID:         "general",
		DirectOnly:        true,
		SenderID:          "bob",
		Range:             domain.TimeRange{From: &from, FromInclusive: true, Until: &until},
		HasFile:           true,
		HasLink:           true,
		SavedOnly:         true,
		ThreadRepliesOnly: true,
		PinnedOnly:        true,
	})

	for _, part := range []string{
		"channel_id = $2",
		"conversation_id IS NOT NULL AND ($3 = ANY(participant_ids) OR conversation_id IN (" +
			"SELECT cv.id FROM conversations cv WHERE cv.workspace_id = $1 AND $3 = ANY(cv.participant_ids)))",
		"sender_id = $4",
		"created_at >= $5",
		"created_at < $6",
		"jsonb_array_length(attachments) > 0",
		"(body ILIKE $7 OR body ILIKE $8)",
		"bookmarked",
		"thread_reply_count > 0",
		"pinned",
	} {
		assert.Contains(t, query, part)
	}
	assert.NotContains(t, query, "channel_id IS NOT NULL", "no broad scope when narrowed")
	assert.NotContains(t, query, "LIMIT")
	assert.Equal(t, []interface{}{"W1", "general", "alice", "bob", from, until, "%http://%", "%https://%"}, args)
}

func TestMessageFindSQL_ExclusiveStart(t *testing.T) {
	after := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	query, _ := messageFindSQL(domain.MessageQuery{
		WorkspaceID: "W1",
		CallerID:    "alice",
		Range:       domain.TimeRange{From: &after},
	})

	assert.Contains(t, query, "created_at > $3")
	assert.NotContains(t, query, "created_at <")
}

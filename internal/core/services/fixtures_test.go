package services

import (
	"context"
	"time"

	"github.com/custodia-labs/sercha-hub/internal/core/domain"
	"github.com/custodia-labs/sercha-hub/internal/core/ports/driven/mocks"
)

// workspaceFixture is a small workspace W1:
//   - alice and bob are members, carol belongs to W2 only
//   - #general has alice and bob, #c7 has bob only
//   - conversation d1 is alice+bob, d2 is bob+carol
type workspaceFixture struct {
	people        *mocks.MockPersonDirectory
	channels      *mocks.MockChannelStore
	conversations *mocks.MockConversationStore
	messages      *mocks.MockMessageStore
	documents     *mocks.MockDocumentStore
	files         *mocks.MockObjectStore
	memberships   *mocks.MockMembershipStore
}

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func newWorkspaceFixture() *workspaceFixture {
	fx := &workspaceFixture{
		people:        mocks.NewMockPersonDirectory(),
		channels:      mocks.NewMockChannelStore(),
		conversations: mocks.NewMockConversationStore(),
		documents:     mocks.NewMockDocumentStore(),
		files:         mocks.NewMockObjectStore(),
	}
	fx.messages = mocks.NewMockMessageStore(fx.conversations)
	fx.memberships = mocks.NewMockMembershipStore(fx.people, fx.channels, fx.conversations)

	fx.people.Save(&domain.Person{ID: "alice", Name: "Alice Launchbury", Email: "alice@example.com", Role: domain.RoleMember, Active: true})
	fx.people.Save(&domain.Person{ID: "bob", Name: "Bob", Email: "bob@example.com", Role: domain.RoleMember, Active: true})
	fx.people.Save(&domain.Person{ID: "carol", Name: "Carol Launch", Email: "carol@example.com", Role: domain.RoleMember, Active: true})
	fx.people.AddMember("W1", "alice")
	fx.people.AddMember("W1", "bob")
	fx.people.AddMember("W2", "carol")

	fx.channels.Save(&domain.Channel{ID: "general", WorkspaceID: "W1", Name: "general", Description: "Launch coordination", MemberIDs: []string{"alice", "bob"}})
	fx.channels.Save(&domain.Channel{ID: "C7", WorkspaceID: "W1", Name: "c7-launch", MemberIDs: []string{"bob"}})

	fx.conversations.Save(&domain.Conversation{ID: "d1", WorkspaceID: "W1", Name: "launch chat", ParticipantIDs: []string{"alice", "bob"}})
	fx.conversations.Save(&domain.Conversation{ID: "d2", WorkspaceID: "W1", Name: "launch gossip", ParticipantIDs: []string{"bob", "carol"}})

	fx.messages.Save(&domain.Message{ID: "m1", WorkspaceID: "W1", ChannelID: "general", SenderID: "bob", Body: "Launch is tomorrow", CreatedAt: at("2024-03-01T00:00:00Z")})
	fx.messages.Save(&domain.Message{ID: "m2", WorkspaceID: "W1", ChannelID: "C7", SenderID: "bob", Body: "launch secrets", CreatedAt: at("2024-03-01T12:00:00Z")})
	fx.messages.Save(&domain.Message{ID: "m3", WorkspaceID: "W1", ConversationID: "d1", SenderID: "bob", Body: "launch dm", ParticipantIDs: []string{"alice", "bob"}, CreatedAt: at("2024-03-02T00:00:00Z")})
	fx.messages.Save(&domain.Message{ID: "m4", WorkspaceID: "W1", ConversationID: "d2", SenderID: "bob", Body: "launch gossip", ParticipantIDs: []string{"bob", "carol"}, CreatedAt: at("2024-03-02T09:00:00Z")})
	fx.messages.Save(&domain.Message{
		ID: "m5", WorkspaceID: "W1", ChannelID: "general", SenderID: "alice",
		Body:        "launch deck at https://example.com/deck",
		Attachments: []domain.Attachment{{FileID: "f1", Filename: "launch-deck.pdf"}},
		Bookmarked:  true, Pinned: true, ThreadReplyCount: 2,
		CreatedAt: at("2024-02-28T15:00:00Z"),
	})

	fx.documents.Save(&domain.Document{ID: "doc1", WorkspaceID: "W1", Title: "Launch plan", OwnerID: "alice", CollaboratorIDs: []string{"alice"}})
	fx.documents.Save(&domain.Document{ID: "doc2", WorkspaceID: "W1", Title: "Launch budget", OwnerID: "bob", CollaboratorIDs: []string{"bob"}})

	_ = fx.files.Put(context.Background(), &domain.File{ID: "f1", WorkspaceID: "W1", ChannelID: "general", Filename: "launch-deck.pdf", ContentType: "application/pdf", UploadedAt: at("2024-02-28T15:00:00Z")})
	_ = fx.files.Put(context.Background(), &domain.File{ID: "f9", WorkspaceID: "W1", ChannelID: "C7", Filename: "launch-secrets.pdf", ContentType: "application/pdf", UploadedAt: at("2024-03-01T12:00:00Z")})
	_ = fx.files.Put(context.Background(), &domain.File{ID: "f2", WorkspaceID: "W2", Filename: "launch.png", ContentType: "image/png", UploadedAt: at("2024-02-28T16:00:00Z")})

	return fx
}

func (fx *workspaceFixture) sources() SearchSources {
	return SearchSources{
		People:        fx.people,
		Channels:      fx.channels,
		Conversations: fx.conversations,
		Messages:      fx.messages,
		Documents:     fx.documents,
		Memberships:   fx.memberships,
		Files:         fx.files,
	}
}

func (fx *workspaceFixture) service(cfg SearchConfig) *searchService {
	return NewSearchService(fx.sources(), cfg, nil).(*searchService)
}

func messageIDs(resp *domain.UnifiedSearchResponse) []string {
	ids := make([]string, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		ids = append(ids, m.ID)
	}
	return ids
}

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-hub/internal/core/domain"
	"github.com/custodia-labs/sercha-hub/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/sercha-hub/internal/core/services"
)

// newWiredServer builds the server over the real services and in-memory stores.
func newWiredServer(t *testing.T) *Server {
	t.Helper()
	people := mocks.NewMockPersonDirectory()
	channels := mocks.NewMockChannelStore()
	conversations := mocks.NewMockConversationStore()
	messages := mocks.NewMockMessageStore(conversations)
	files := mocks.NewMockObjectStore()

	people.Save(&domain.Person{ID: "alice", Name: "Alice", Email: "alice@example.com", PasswordHash: "pw", Role: domain.RoleMember, Active: true})
	people.Save(&domain.Person{ID: "carol", Name: "Carol", Email: "carol@example.com", PasswordHash: "pw", Role: domain.RoleMember, Active: true})
	people.AddMember("W1", "alice")
	channels.Save(&domain.Channel{ID: "general", WorkspaceID: "W1", Name: "general", MemberIDs: []string{"alice"}})
	channels.Save(&domain.Channel{ID: "secret", WorkspaceID: "W1", Name: "secret", MemberIDs: []string{"bob"}})
	messages.Save(&domain.Message{ID: "m1", WorkspaceID: "W1", ChannelID: "general", SenderID: "alice", Body: "launch day", CreatedAt: time.Now()})
	messages.Save(&domain.Message{ID: "m2", WorkspaceID: "W1", ChannelID: "secret", SenderID: "bob", Body: "launch secret", CreatedAt: time.Now()})
	require.NoError(t, files.Put(context.Background(), &domain.File{ID: "f1", WorkspaceID: "W1", Filename: "launch.pdf", ContentType: "application/pdf"}))

	auth := services.NewAuthService(people, mocks.NewMockSessionStore(), mocks.NewMockAuthAdapter(), time.Hour)
	search := services.NewSearchService(services.SearchSources{
		People:        people,
		Channels:      channels,
		Conversations: conversations,
		Messages:      messages,
		Documents:     mocks.NewMockDocumentStore(),
		Memberships:   mocks.NewMockMembershipStore(people, channels, conversations),
		Files:         files,
	}, services.SearchConfig{}, nil)

	return NewServer(DefaultConfig(), auth, search, nil, nil)
}

func login(t *testing.T, s *Server, email string) string {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/api/v1/auth/login", `{"email":"`+email+`","password":"pw"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp domain.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

func TestWired_LoginThenSearch(t *testing.T) {
	s := newWiredServer(t)
	token := login(t, s, "alice@example.com")

	rec := do(t, s, http.MethodGet, "/api/v1/workspaces/W1/search?q=launch", "", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Messages []struct {
			ID string `json:"id"`
		} `json:"messages"`
		Files        []json.RawMessage `json:"files"`
		TotalResults int               `json:"total_results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 1, "messages from channels the caller is not in stay hidden")
	assert.Equal(t, "m1", resp.Messages[0].ID)
	assert.Len(t, resp.Files, 1)
	assert.Equal(t, 2, resp.TotalResults)
}

func TestWired_NonMemberForbidden(t *testing.T) {
	s := newWiredServer(t)
	token := login(t, s, "carol@example.com")

	rec := do(t, s, http.MethodGet, "/api/v1/workspaces/W1/search?q=launch", "", token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWired_InvalidParameter(t *testing.T) {
	s := newWiredServer(t)
	token := login(t, s, "alice@example.com")

	rec := do(t, s, http.MethodGet, "/api/v1/workspaces/W1/search?on=yesterday", "", token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec), "invalid input")
}

func TestWired_LogoutRevokesToken(t *testing.T) {
	s := newWiredServer(t)
	token := login(t, s, "alice@example.com")

	rec := do(t, s, http.MethodPost, "/api/v1/auth/logout", "", token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/v1/workspaces/W1/search?q=launch", "", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "session not found", decodeError(t, rec))
}

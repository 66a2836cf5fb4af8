package domain

import "time"

// Document is a collaborative canvas shared inside a workspace.
type Document struct {
	ID              string            `json:"id"`
	WorkspaceID     string            `json:"workspace_id"`
	ChannelID       string            `json:"channel_id,omitempty"`
	Title           string            `json:"title"`
	Content         string            `json:"content,omitempty"`
	OwnerID         string            `json:"owner_id"`
	CollaboratorIDs []string          `json:"collaborator_ids"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// HasCollaborator reports whether userID may open the document.
func (d *Document) HasCollaborator(userID string) bool {
	return containsID(d.CollaboratorIDs, userID)
}

package models

// ChatRole marks who authored a conversation turn. The "model" value matches
// the rows already written by the web client.
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

func ValidChatRole(r ChatRole) bool {
	return r == ChatRoleUser || r == ChatRoleModel
}

// ChatMessage is one persisted conversation turn. CreatedAt is the backend
// timestamp as an ISO-8601 string.
type ChatMessage struct {
	ID        string   `json:"id"`
	UserID    string   `json:"userId"`
	Role      ChatRole `json:"role"`
	Content   string   `json:"content"`
	CreatedAt string   `json:"createdAt"`
}

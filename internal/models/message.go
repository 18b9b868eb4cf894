package models

// Message is an internal mail item.
type Message struct {
	ID           string    `json:"id"`
	SenderID     string    `json:"senderId"`
	SenderName   string    `json:"senderName"`
	ReceiverID   string    `json:"receiverId"`
	ReceiverName string    `json:"receiverName"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	IsRead       bool      `json:"isRead"`
	SentAt       Timestamp `json:"sentAt"`
}

func (m Message) RecordID() string { return m.ID }

func (m Message) FieldValue(field string) string {
	switch field {
	case FieldTitle:
		return m.Title
	case FieldAuthor, "senderName":
		return m.SenderName
	case "receiverName":
		return m.ReceiverName
	case "content":
		return m.Content
	case "isRead":
		return boolText(m.IsRead)
	case "sentAt":
		return m.SentAt.Display()
	}
	return ""
}

// SendMessageRequest is the payload for POST /messages.
type SendMessageRequest struct {
	ReceiverID string `json:"receiverId" validate:"required"`
	Title      string `json:"title" validate:"required,max=200"`
	Content    string `json:"content" validate:"required"`
}

// UnreadCount is returned by GET /messages/unread-count.
type UnreadCount struct {
	Count int `json:"count"`
}

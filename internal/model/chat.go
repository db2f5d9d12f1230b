package model

import (
	"fmt"
	"time"
)

// ChatThread groups the messages exchanged between two accounts.
// Participants are stored in the legacy "ROLE_id" encoding.
type ChatThread struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserOne   string    `gorm:"size:32;not null;index" json:"user_one"`
	UserTwo   string    `gorm:"size:32;not null;index" json:"user_two"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ChatThread) TableName() string { return "chat_lists" }

// Participant reports whether ref is one of the two thread members.
func (t *ChatThread) Participant(ref UserRef) bool {
	encoded := ref.String()
	return t.UserOne == encoded || t.UserTwo == encoded
}

// OtherParticipant resolves the thread member that is not ref.
func (t *ChatThread) OtherParticipant(ref UserRef) (UserRef, error) {
	encoded := ref.String()
	switch encoded {
	case t.UserOne:
		return ParseUserRef(t.UserTwo)
	case t.UserTwo:
		return ParseUserRef(t.UserOne)
	}
	return UserRef{}, fmt.Errorf("user %s is not a participant of thread %d", encoded, t.ID)
}

// ChatMessage is one message inside a thread. Rows are immutable once
// created; the only write path is the transactional send in the chat
// repository.
type ChatMessage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ChatListID uint      `gorm:"column:chat_lists_id;not null;index" json:"chat_lists_id"`
	From       string    `gorm:"column:from;size:32;not null" json:"from"`
	To         string    `gorm:"column:to;size:32;not null" json:"to"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

func (ChatMessage) TableName() string { return "chat_conversations" }

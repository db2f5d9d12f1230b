package app

import (
	"context"
	"errors"
	"strings"

	"meteo-server/internal/model"
	"meteo-server/internal/repository"
)

var (
	ErrInsufficientHomi = repository.ErrInsufficientHomi
	ErrThreadNotFound   = errors.New("chat thread not found")
	ErrNotParticipant   = errors.New("sender is not a participant of the thread")
	ErrMessageNotFound  = errors.New("chat message not found")
	ErrMessageEmpty     = errors.New("message content is empty")
)

// ChatStore is the transactional persistence surface the chat flow needs.
// The gorm implementation lives in repository.ChatRepository.
type ChatStore interface {
	ThreadByID(id uint) (*model.ChatThread, error)
	ThreadsFor(ref model.UserRef) ([]model.ChatThread, error)
	EnsureThread(a, b model.UserRef) (*model.ChatThread, error)
	MessageByID(id uint) (*model.ChatMessage, error)
	ListMessages(threadID uint, page int) ([]model.ChatMessage, int64, error)
	CreateMessageWithLedger(ctx context.Context, msg *model.ChatMessage, debit, credit model.UserRef) error
}

// AccountReader exposes the balance lookup the pre-send check needs.
type AccountReader interface {
	Homi(ref model.UserRef) (int64, bool, error)
}

type ChatService struct {
	store    ChatStore
	accounts AccountReader
}

type SendMessageInput struct {
	Sender   model.UserRef
	ThreadID uint
	Body     string
}

type MessagePage struct {
	model.PageMeta
	Data []model.ChatMessage `json:"data"`
}

func NewChatService(store ChatStore, accounts AccountReader) *ChatService {
	return &ChatService{store: store, accounts: accounts}
}

// SendMessage persists one message and moves one homi from sender to
// recipient. A sender without a positive balance is rejected before any
// write; an unknown sender folds into the same rejection. The store keeps
// insert and ledger atomic and re-checks the balance under a row lock, so
// concurrent sends cannot drive the balance negative.
func (s *ChatService) SendMessage(ctx context.Context, input SendMessageInput) (*model.ChatMessage, error) {
	if !input.Sender.Valid() || input.ThreadID == 0 {
		return nil, ErrInvalidInput
	}
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, ErrMessageEmpty
	}

	thread, err := s.store.ThreadByID(input.ThreadID)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, ErrThreadNotFound
	}
	if !thread.Participant(input.Sender) {
		return nil, ErrNotParticipant
	}

	homi, found, err := s.accounts.Homi(input.Sender)
	if err != nil {
		return nil, err
	}
	if !found || homi < 1 {
		return nil, ErrInsufficientHomi
	}

	recipient, err := thread.OtherParticipant(input.Sender)
	if err != nil {
		return nil, err
	}

	message := &model.ChatMessage{
		ChatListID: thread.ID,
		From:       input.Sender.String(),
		To:         recipient.String(),
		Message:    body,
	}
	if err := s.store.CreateMessageWithLedger(ctx, message, input.Sender, recipient); err != nil {
		return nil, err
	}

	// Return the stored row so server-assigned fields are hydrated.
	stored, err := s.store.MessageByID(message.ID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return message, nil
	}
	return stored, nil
}

func (s *ChatService) GetMessage(id uint) (*model.ChatMessage, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	message, err := s.store.MessageByID(id)
	if err != nil {
		return nil, err
	}
	if message == nil {
		return nil, ErrMessageNotFound
	}
	return message, nil
}

func (s *ChatService) ListThread(threadID uint, page int) (*MessagePage, error) {
	if threadID == 0 {
		return nil, ErrInvalidInput
	}
	if page < 1 {
		page = 1
	}

	messages, total, err := s.store.ListMessages(threadID, page)
	if err != nil {
		return nil, err
	}
	return &MessagePage{
		PageMeta: model.NewPageMeta(page, repository.MessagePageSize, total),
		Data:     messages,
	}, nil
}

func (s *ChatService) ListThreadsForUser(ref model.UserRef) ([]model.ChatThread, error) {
	if !ref.Valid() {
		return nil, ErrInvalidInput
	}
	return s.store.ThreadsFor(ref)
}

// EnsureThread finds or creates the thread between the caller and peer.
func (s *ChatService) EnsureThread(caller, peer model.UserRef) (*model.ChatThread, error) {
	if !caller.Valid() || !peer.Valid() || caller == peer {
		return nil, ErrInvalidInput
	}
	return s.store.EnsureThread(caller, peer)
}

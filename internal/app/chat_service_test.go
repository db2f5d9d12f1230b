package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"meteo-server/internal/model"
	"meteo-server/internal/repository"
)

// fakeChatStore implements ChatStore and AccountReader in memory. Its
// CreateMessageWithLedger mirrors the repository contract: balance is
// re-checked under the lock and the insert and both balance updates
// happen together or not at all.
type fakeChatStore struct {
	mu       sync.Mutex
	threads  map[uint]*model.ChatThread
	messages []model.ChatMessage
	balances map[model.UserRef]int64
	nextID   uint
}

func newFakeChatStore() *fakeChatStore {
	return &fakeChatStore{
		threads:  make(map[uint]*model.ChatThread),
		balances: make(map[model.UserRef]int64),
		nextID:   1,
	}
}

func (f *fakeChatStore) addThread(id uint, a, b model.UserRef) {
	f.threads[id] = &model.ChatThread{ID: id, UserOne: a.String(), UserTwo: b.String()}
}

func (f *fakeChatStore) ThreadByID(id uint) (*model.ChatThread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	thread, ok := f.threads[id]
	if !ok {
		return nil, nil
	}
	copied := *thread
	return &copied, nil
}

func (f *fakeChatStore) ThreadsFor(ref model.UserRef) ([]model.ChatThread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ChatThread
	for _, thread := range f.threads {
		if thread.Participant(ref) {
			out = append(out, *thread)
		}
	}
	return out, nil
}

func (f *fakeChatStore) EnsureThread(a, b model.UserRef) (*model.ChatThread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, thread := range f.threads {
		if thread.Participant(a) && thread.Participant(b) {
			copied := *thread
			return &copied, nil
		}
	}
	id := uint(len(f.threads) + 1)
	thread := &model.ChatThread{ID: id, UserOne: a.String(), UserTwo: b.String()}
	f.threads[id] = thread
	copied := *thread
	return &copied, nil
}

func (f *fakeChatStore) MessageByID(id uint) (*model.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.messages {
		if f.messages[i].ID == id {
			copied := f.messages[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeChatStore) ListMessages(threadID uint, page int) ([]model.ChatMessage, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []model.ChatMessage
	for i := len(f.messages) - 1; i >= 0; i-- {
		if f.messages[i].ChatListID == threadID {
			matched = append(matched, f.messages[i])
		}
	}
	total := int64(len(matched))
	offset := (page - 1) * repository.MessagePageSize
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + repository.MessagePageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (f *fakeChatStore) CreateMessageWithLedger(_ context.Context, msg *model.ChatMessage, debit, credit model.UserRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.balances[debit] < 1 {
		return repository.ErrInsufficientHomi
	}
	msg.ID = f.nextID
	msg.CreatedAt = time.Now()
	f.nextID++
	f.messages = append(f.messages, *msg)
	f.balances[debit]--
	f.balances[credit]++
	return nil
}

func (f *fakeChatStore) Homi(ref model.UserRef) (int64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	balance, ok := f.balances[ref]
	return balance, ok, nil
}

func TestSendMessageDebitsAndCredits(t *testing.T) {
	store := newFakeChatStore()
	mentor := model.UserRef{Role: model.RoleMentor, ID: 1}
	mentee := model.UserRef{Role: model.RoleMentee, ID: 2}
	store.addThread(1, mentor, mentee)
	store.balances[mentee] = 5
	store.balances[mentor] = 0

	svc := NewChatService(store, store)
	msg, err := svc.SendMessage(context.Background(), SendMessageInput{
		Sender:   mentee,
		ThreadID: 1,
		Body:     "hello",
	})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if msg.From != "MENTEE_2" || msg.To != "MENTOR_1" {
		t.Errorf("unexpected from/to: %q -> %q", msg.From, msg.To)
	}
	if msg.Message != "hello" {
		t.Errorf("unexpected body: %q", msg.Message)
	}

	if balance, _, _ := store.Homi(mentee); balance != 4 {
		t.Errorf("expected sender balance 4, got %d", balance)
	}
	if balance, _, _ := store.Homi(mentor); balance != 1 {
		t.Errorf("expected recipient balance 1, got %d", balance)
	}
	if len(store.messages) != 1 {
		t.Errorf("expected exactly one stored message, got %d", len(store.messages))
	}
}

func TestSendMessageInsufficientHomi(t *testing.T) {
	store := newFakeChatStore()
	mentor := model.UserRef{Role: model.RoleMentor, ID: 1}
	mentee := model.UserRef{Role: model.RoleMentee, ID: 2}
	store.addThread(1, mentor, mentee)
	store.balances[mentee] = 0

	svc := NewChatService(store, store)
	_, err := svc.SendMessage(context.Background(), SendMessageInput{
		Sender:   mentee,
		ThreadID: 1,
		Body:     "hello",
	})
	if !errors.Is(err, ErrInsufficientHomi) {
		t.Fatalf("expected ErrInsufficientHomi, got %v", err)
	}
	if len(store.messages) != 0 {
		t.Errorf("expected no stored message, got %d", len(store.messages))
	}
	if balance, _, _ := store.Homi(mentee); balance != 0 {
		t.Errorf("expected balance untouched, got %d", balance)
	}
}

func TestSendMessageUnknownSenderRejected(t *testing.T) {
	store := newFakeChatStore()
	mentor := model.UserRef{Role: model.RoleMentor, ID: 1}
	mentee := model.UserRef{Role: model.RoleMentee, ID: 2}
	store.addThread(1, mentor, mentee)

	svc := NewChatService(store, store)
	_, err := svc.SendMessage(context.Background(), SendMessageInput{
		Sender:   mentee,
		ThreadID: 1,
		Body:     "hi",
	})
	if !errors.Is(err, ErrInsufficientHomi) {
		t.Fatalf("expected ErrInsufficientHomi for unknown sender, got %v", err)
	}
}

func TestSendMessageValidation(t *testing.T) {
	store := newFakeChatStore()
	mentor := model.UserRef{Role: model.RoleMentor, ID: 1}
	mentee := model.UserRef{Role: model.RoleMentee, ID: 2}
	store.addThread(1, mentor, mentee)
	store.balances[mentee] = 5

	svc := NewChatService(store, store)

	if _, err := svc.SendMessage(context.Background(), SendMessageInput{
		Sender:   mentee,
		ThreadID: 1,
		Body:     "   ",
	}); !errors.Is(err, ErrMessageEmpty) {
		t.Errorf("expected ErrMessageEmpty, got %v", err)
	}

	if _, err := svc.SendMessage(context.Background(), SendMessageInput{
		Sender:   mentee,
		ThreadID: 99,
		Body:     "hi",
	}); !errors.Is(err, ErrThreadNotFound) {
		t.Errorf("expected ErrThreadNotFound, got %v", err)
	}

	outsider := model.UserRef{Role: model.RoleMentee, ID: 77}
	store.balances[outsider] = 5
	if _, err := svc.SendMessage(context.Background(), SendMessageInput{
		Sender:   outsider,
		ThreadID: 1,
		Body:     "hi",
	}); !errors.Is(err, ErrNotParticipant) {
		t.Errorf("expected ErrNotParticipant, got %v", err)
	}
}

func TestSendMessageConcurrentSingleHomi(t *testing.T) {
	store := newFakeChatStore()
	mentor := model.UserRef{Role: model.RoleMentor, ID: 1}
	mentee := model.UserRef{Role: model.RoleMentee, ID: 2}
	store.addThread(1, mentor, mentee)
	store.balances[mentee] = 1

	svc := NewChatService(store, store)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.SendMessage(context.Background(), SendMessageInput{
				Sender:   mentee,
				ThreadID: 1,
				Body:     "race",
			})
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrInsufficientHomi):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("expected exactly one successful send, got %d", succeeded)
	}
	if len(store.messages) != 1 {
		t.Errorf("expected exactly one stored message, got %d", len(store.messages))
	}
	if balance, _, _ := store.Homi(mentee); balance != 0 {
		t.Errorf("expected sender drained to 0, got %d", balance)
	}
	if balance, _, _ := store.Homi(mentor); balance != 1 {
		t.Errorf("expected recipient credited once, got %d", balance)
	}
}

func TestListThreadPagination(t *testing.T) {
	store := newFakeChatStore()
	mentor := model.UserRef{Role: model.RoleMentor, ID: 1}
	mentee := model.UserRef{Role: model.RoleMentee, ID: 2}
	store.addThread(1, mentor, mentee)
	store.balances[mentee] = 100

	svc := NewChatService(store, store)
	for i := 0; i < 20; i++ {
		if _, err := svc.SendMessage(context.Background(), SendMessageInput{
			Sender:   mentee,
			ThreadID: 1,
			Body:     "msg",
		}); err != nil {
			t.Fatalf("send %d failed: %v", i, err)
		}
	}

	page, err := svc.ListThread(1, 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page.Data) != repository.MessagePageSize {
		t.Errorf("expected %d messages on page 1, got %d", repository.MessagePageSize, len(page.Data))
	}
	if page.Total != 20 {
		t.Errorf("expected total 20, got %d", page.Total)
	}
	if page.LastPage != 2 {
		t.Errorf("expected last_page 2, got %d", page.LastPage)
	}
	// Newest first.
	if len(page.Data) > 1 && page.Data[0].ID < page.Data[1].ID {
		t.Errorf("expected descending order, got ids %d then %d", page.Data[0].ID, page.Data[1].ID)
	}

	page, err = svc.ListThread(1, 2)
	if err != nil {
		t.Fatalf("list page 2 failed: %v", err)
	}
	if len(page.Data) != 5 {
		t.Errorf("expected 5 messages on page 2, got %d", len(page.Data))
	}
}

func TestEnsureThreadIdempotent(t *testing.T) {
	store := newFakeChatStore()
	mentor := model.UserRef{Role: model.RoleMentor, ID: 1}
	mentee := model.UserRef{Role: model.RoleMentee, ID: 2}

	svc := NewChatService(store, store)
	first, err := svc.EnsureThread(mentee, mentor)
	if err != nil {
		t.Fatalf("ensure failed: %v", err)
	}
	second, err := svc.EnsureThread(mentor, mentee)
	if err != nil {
		t.Fatalf("ensure (reversed) failed: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected same thread, got %d and %d", first.ID, second.ID)
	}

	if _, err := svc.EnsureThread(mentee, mentee); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for self thread, got %v", err)
	}
}

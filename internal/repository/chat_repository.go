package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"meteo-server/internal/model"
)

// ErrInsufficientHomi is returned when the sender's balance cannot cover
// the send cost under the row lock.
var ErrInsufficientHomi = errors.New("insufficient homi")

// MessagePageSize is the fixed page size of thread listings, matching the
// legacy API clients.
const MessagePageSize = 15

const sendCost = 1

type ChatRepository struct {
	db *gorm.DB
	// legacyMentorCredit preserves the original recipient-credit behavior:
	// the credit always goes to the mentors table regardless of the
	// recipient's encoded role. Pending product clarification.
	legacyMentorCredit bool
	log                *zap.Logger
}

func NewChatRepository(db *gorm.DB, legacyMentorCredit bool, log *zap.Logger) *ChatRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChatRepository{db: db, legacyMentorCredit: legacyMentorCredit, log: log}
}

func (r *ChatRepository) ThreadByID(id uint) (*model.ChatThread, error) {
	var thread model.ChatThread
	if err := r.db.First(&thread, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query chat thread failed: %w", err)
	}
	return &thread, nil
}

func (r *ChatRepository) ThreadsFor(ref model.UserRef) ([]model.ChatThread, error) {
	encoded := ref.String()
	var threads []model.ChatThread
	err := r.db.
		Where("user_one = ? OR user_two = ?", encoded, encoded).
		Order("updated_at DESC").
		Find(&threads).Error
	if err != nil {
		return nil, fmt.Errorf("list chat threads failed: %w", err)
	}
	return threads, nil
}

// EnsureThread returns the thread joining the two participants, creating
// it if the pair has never exchanged a message.
func (r *ChatRepository) EnsureThread(a, b model.UserRef) (*model.ChatThread, error) {
	one, two := a.String(), b.String()

	var thread model.ChatThread
	err := r.db.
		Where("(user_one = ? AND user_two = ?) OR (user_one = ? AND user_two = ?)", one, two, two, one).
		First(&thread).Error
	if err == nil {
		return &thread, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("query chat thread by pair failed: %w", err)
	}

	thread = model.ChatThread{UserOne: one, UserTwo: two}
	if err := r.db.Create(&thread).Error; err != nil {
		return nil, fmt.Errorf("create chat thread failed: %w", err)
	}
	return &thread, nil
}

func (r *ChatRepository) MessageByID(id uint) (*model.ChatMessage, error) {
	var message model.ChatMessage
	if err := r.db.First(&message, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query chat message failed: %w", err)
	}
	return &message, nil
}

// ListMessages returns one page of a thread, newest first. Equal
// timestamps are tie-broken by id so the order is stable.
func (r *ChatRepository) ListMessages(threadID uint, page int) ([]model.ChatMessage, int64, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := r.db.Model(&model.ChatMessage{}).Where("chat_lists_id = ?", threadID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count chat messages failed: %w", err)
	}

	var messages []model.ChatMessage
	err := r.db.
		Where("chat_lists_id = ?", threadID).
		Order("created_at DESC").
		Order("id DESC").
		Offset((page - 1) * MessagePageSize).
		Limit(MessagePageSize).
		Find(&messages).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list chat messages failed: %w", err)
	}
	return messages, total, nil
}

// CreateMessageWithLedger inserts the message and applies the homi ledger
// in one transaction: the sender row is locked, the balance re-checked,
// the message inserted, then sender debited and recipient credited. This
// is the only code path that creates chat_conversations rows, so the
// ledger runs exactly once per message and a send can never leave a
// half-applied ledger behind.
func (r *ChatRepository) CreateMessageWithLedger(ctx context.Context, msg *model.ChatMessage, debit, credit model.UserRef) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sender model.Account
		err := tx.Table(model.TableForRole(debit.Role)).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", debit.ID).
			First(&sender).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInsufficientHomi
			}
			return fmt.Errorf("lock sender account failed: %w", err)
		}
		if sender.Homi < sendCost {
			return ErrInsufficientHomi
		}

		if err := tx.Create(msg).Error; err != nil {
			return fmt.Errorf("create chat message failed: %w", err)
		}

		err = tx.Table(model.TableForRole(debit.Role)).
			Where("id = ?", debit.ID).
			UpdateColumn("homi", gorm.Expr("homi - ?", sendCost)).Error
		if err != nil {
			return fmt.Errorf("debit sender homi failed: %w", err)
		}

		creditTable := model.TableForRole(credit.Role)
		if r.legacyMentorCredit {
			creditTable = model.TableForRole(model.RoleMentor)
		}
		res := tx.Table(creditTable).
			Where("id = ?", credit.ID).
			UpdateColumn("homi", gorm.Expr("homi + ?", sendCost))
		if res.Error != nil {
			return fmt.Errorf("credit recipient homi failed: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			r.log.Warn("homi credit matched no account",
				zap.String("recipient", credit.String()),
				zap.String("credit_table", creditTable),
				zap.Uint("message_id", msg.ID),
			)
		}
		return nil
	})
}

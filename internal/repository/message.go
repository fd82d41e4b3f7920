package repository

import (
	"context"
	"sort"

	"zestyy/internal/models"

	"gorm.io/gorm"
)

// MessageRepository stores direct messages and projects them into conversations.
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	Conversations(ctx context.Context, userID string) ([]models.ConversationView, error)
	Between(ctx context.Context, userID, partnerID string) ([]models.Message, error)
	MarkRead(ctx context.Context, userID, partnerID string) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *models.Message) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		if isForeignKeyError(err) {
			return models.NewNotFoundError("User", msg.ReceiverID)
		}
		return models.NewInternalError(err)
	}
	return nil
}

// latestPerPartnerSQL picks the newest message exchanged with each counterpart.
const latestPerPartnerSQL = `
SELECT partner_id, id FROM (
	SELECT id,
		CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END AS partner_id,
		ROW_NUMBER() OVER (
			PARTITION BY CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END
			ORDER BY created_at DESC, id DESC
		) AS rn
	FROM messages
	WHERE sender_id = ? OR receiver_id = ?
) latest
WHERE rn = 1`

type latestMessageRow struct {
	PartnerID string
	ID        string
}

// Conversations returns one entry per counterpart, most recent first.
func (r *messageRepository) Conversations(ctx context.Context, userID string) ([]models.ConversationView, error) {
	db := r.db.WithContext(ctx)

	var latest []latestMessageRow
	if err := db.Raw(latestPerPartnerSQL, userID, userID, userID, userID).Scan(&latest).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	conversations := []models.ConversationView{}
	if len(latest) == 0 {
		return conversations, nil
	}

	messageIDs := make([]string, 0, len(latest))
	partnerIDs := make([]string, 0, len(latest))
	for _, row := range latest {
		messageIDs = append(messageIDs, row.ID)
		partnerIDs = append(partnerIDs, row.PartnerID)
	}

	var messages []models.Message
	if err := db.Where("id IN ?", messageIDs).Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	byMessageID := make(map[string]models.Message, len(messages))
	for _, m := range messages {
		byMessageID[m.ID] = m
	}

	var users []models.User
	if err := db.Where("id IN ?", partnerIDs).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	byUserID := make(map[string]models.User, len(users))
	for _, u := range users {
		byUserID[u.ID] = u
	}

	var unreadFrom []string
	if err := db.Model(&models.Message{}).
		Where("receiver_id = ? AND read = ?", userID, false).
		Distinct().
		Pluck("sender_id", &unreadFrom).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	unread := make(map[string]bool, len(unreadFrom))
	for _, id := range unreadFrom {
		unread[id] = true
	}

	for _, row := range latest {
		partner, ok := byUserID[row.PartnerID]
		if !ok {
			continue
		}
		last := byMessageID[row.ID]
		conversations = append(conversations, models.ConversationView{
			ID:              partner.ID,
			User:            partner.Summary(),
			LastMessage:     last.Content,
			LastMessageTime: last.CreatedAt,
			Unread:          unread[partner.ID],
		})
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].LastMessageTime.After(conversations[j].LastMessageTime)
	})
	return conversations, nil
}

// Between returns every message exchanged by the two users, oldest first.
func (r *messageRepository) Between(ctx context.Context, userID, partnerID string) ([]models.Message, error) {
	messages := []models.Message{}
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, partnerID, partnerID, userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

// MarkRead flags partner→user messages as read and returns how many changed.
func (r *messageRepository) MarkRead(ctx context.Context, userID, partnerID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND read = ?", partnerID, userID, false).
		Update("read", true)
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}

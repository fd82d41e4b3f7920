package service

import (
	"context"
	"log/slog"

	"zestyy/internal/middleware"
	"zestyy/internal/models"
	"zestyy/internal/notifications"
	"zestyy/internal/observability"
	"zestyy/internal/repository"
)

// MaxMessageLength bounds a direct message body.
const MaxMessageLength = 2000

// MessageService sends direct messages and projects them into conversations.
type MessageService struct {
	store     *repository.Store
	publisher Publisher
}

type SendMessageInput struct {
	SenderID   string
	ReceiverID string
	Content    string
}

func NewMessageService(store *repository.Store, publisher Publisher) *MessageService {
	return &MessageService{store: store, publisher: publisher}
}

// Send stores an unread message and pushes it to the receiver.
func (s *MessageService) Send(ctx context.Context, in SendMessageInput) (*models.Message, error) {
	content, err := validateText("Content", in.Content, MaxMessageLength)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Users.GetByID(ctx, in.ReceiverID); err != nil {
		return nil, err
	}

	msg := &models.Message{
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
		Content:    content,
	}
	if err := s.store.Messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	observability.MessagesSent.Inc()

	if s.publisher != nil {
		if err := s.publisher.PublishEvent(ctx, msg.ReceiverID, notifications.EventMessage, msg); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to publish message",
				slog.String("message_id", msg.ID), slog.String("error", err.Error()))
		}
	}
	return msg, nil
}

// GetConversations returns one entry per counterpart, most recent first.
func (s *MessageService) GetConversations(ctx context.Context, userID string) ([]models.ConversationView, error) {
	return s.store.Messages.Conversations(ctx, userID)
}

// GetMessages returns the full exchange with partnerID, oldest first.
func (s *MessageService) GetMessages(ctx context.Context, userID, partnerID string) ([]models.Message, error) {
	return s.store.Messages.Between(ctx, userID, partnerID)
}

// MarkAsRead marks messages partnerID sent to userID as read. Messages userID
// sent are left alone.
func (s *MessageService) MarkAsRead(ctx context.Context, userID, partnerID string) (int64, error) {
	return s.store.Messages.MarkRead(ctx, userID, partnerID)
}

// Package repository 提供了数据访问层的接口和实现。
package repository

import (
	"context"

	"loanwise-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChatMessageRepository 定义了对话消息的持久化操作。
type ChatMessageRepository interface {
	Create(ctx context.Context, msg *model.ChatMessage) error
	FindByConversation(ctx context.Context, productID, userID *string) ([]model.ChatMessage, error)
}

// chatMessageRepository 是 ChatMessageRepository 接口的 GORM 实现。
type chatMessageRepository struct {
	db *gorm.DB
}

// NewChatMessageRepository 创建一个新的 ChatMessageRepository 实例。
func NewChatMessageRepository(db *gorm.DB) ChatMessageRepository {
	return &chatMessageRepository{db: db}
}

// Create 追加一条对话消息。主键冲突时直接忽略，使带相同 id 的重试写入幂等。
func (r *chatMessageRepository) Create(ctx context.Context, msg *model.ChatMessage) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(msg).Error
}

// FindByConversation 按可选的产品和用户过滤条件检索消息，按创建时间升序返回。
func (r *chatMessageRepository) FindByConversation(ctx context.Context, productID, userID *string) ([]model.ChatMessage, error) {
	query := r.db.WithContext(ctx).Model(&model.ChatMessage{})
	if productID != nil && *productID != "" {
		query = query.Where("product_id = ?", *productID)
	}
	if userID != nil && *userID != "" {
		query = query.Where("user_id = ?", *userID)
	}

	var messages []model.ChatMessage
	err := query.Order("created_at ASC").Find(&messages).Error
	return messages, err
}

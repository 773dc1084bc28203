// Package model 包含了应用的数据模型定义。
package model

import "time"

// 对话消息的角色取值。
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage 代表产品咨询对话中的一条消息。
// (product_id, user_id) 二元组界定一次会话：product_id 为空表示与具体产品无关的
// 通用咨询，user_id 为空表示匿名用户。消息一经写入不再修改或删除，
// created_at 定义了会话内消息的全序。
type ChatMessage struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID    *string   `gorm:"type:char(36);index" json:"user_id"`
	ProductID *string   `gorm:"type:char(36);index" json:"product_id"`
	Role      string    `gorm:"type:varchar(16);not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (ChatMessage) TableName() string {
	return "ai_chat_messages"
}

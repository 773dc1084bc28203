package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"loanwise-go/internal/model"
	"loanwise-go/internal/repository"
	"loanwise-go/pkg/llm"
	"loanwise-go/pkg/log"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrEmptyMessage 表示提交了空消息，此时不会有任何持久化动作。
	ErrEmptyMessage = errors.New("message is required")

	// ErrMissingFilter 表示检索历史时 productId 和 userId 均未提供。
	ErrMissingFilter = errors.New("productId or userId is required")

	// ErrStorage 表示消息存储不可用，调用方应将其映射为存储类错误响应。
	ErrStorage = errors.New("storage unavailable")
)

// ChatService 定义了产品咨询对话的操作接口。
type ChatService interface {
	// SubmitTurn 处理一次用户提问：持久化用户消息、构建产品上下文、
	// 调用生成服务并持久化助手回复，返回助手消息。
	SubmitTurn(ctx context.Context, productID, userID *string, message string) (*model.ChatMessage, error)

	// History 按产品和用户过滤检索对话历史，按创建时间升序返回。
	History(ctx context.Context, productID, userID *string) ([]model.ChatMessage, error)
}

type chatService struct {
	messageRepo repository.ChatMessageRepository
	productRepo repository.ProductRepository
	llmClient   llm.Client
}

// NewChatService 创建一个新的 ChatService 实例。
func NewChatService(messageRepo repository.ChatMessageRepository, productRepo repository.ProductRepository, llmClient llm.Client) ChatService {
	return &chatService{
		messageRepo: messageRepo,
		productRepo: productRepo,
		llmClient:   llmClient,
	}
}

// SubmitTurn 的各步骤严格串行：persist -> lookup -> generate -> persist。
// 用户消息写入失败会中止整个请求；助手消息写入失败只记录日志，
// 已生成的回复照常返回（两次写入本就不构成一个事务）。
func (s *chatService) SubmitTurn(ctx context.Context, productID, userID *string, message string) (*model.ChatMessage, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	// 1. 持久化用户消息。写不进去的提问不会被送去生成。
	userMsg := &model.ChatMessage{
		ID:        uuid.NewString(),
		UserID:    normalizeID(userID),
		ProductID: normalizeID(productID),
		Role:      model.RoleUser,
		Content:   message,
		CreatedAt: time.Now(),
	}
	if err := s.messageRepo.Create(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("%w: failed to save user message: %v", ErrStorage, err)
	}

	// 2. 构建产品上下文。产品不存在或查询失败都退化为无上下文的普通问答。
	var contextText string
	if userMsg.ProductID != nil {
		product, err := s.productRepo.FindByID(ctx, *userMsg.ProductID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			log.Infof("product %s not found, answering without product context", *userMsg.ProductID)
		case err != nil:
			log.Warnf("product lookup failed, answering without product context: %v", err)
		default:
			contextText = BuildProductContext(product)
		}
	}

	// 3. 调用生成服务。
	reply, err := s.llmClient.Generate(ctx, message, contextText)
	if err != nil {
		return nil, fmt.Errorf("failed to generate reply: %w", err)
	}

	// 4. 持久化助手回复。用户已经拿到回复，这一步失败不再影响响应。
	assistantMsg := &model.ChatMessage{
		ID:        uuid.NewString(),
		UserID:    userMsg.UserID,
		ProductID: userMsg.ProductID,
		Role:      model.RoleAssistant,
		Content:   reply,
		CreatedAt: time.Now(),
	}
	if err := s.messageRepo.Create(ctx, assistantMsg); err != nil {
		log.Errorf("failed to save assistant message: %v", err)
	}

	return assistantMsg, nil
}

// History 要求至少提供一个过滤条件，避免把全表消息返回给任意调用方。
func (s *chatService) History(ctx context.Context, productID, userID *string) ([]model.ChatMessage, error) {
	productID = normalizeID(productID)
	userID = normalizeID(userID)
	if productID == nil && userID == nil {
		return nil, ErrMissingFilter
	}

	messages, err := s.messageRepo.FindByConversation(ctx, productID, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load history: %v", ErrStorage, err)
	}
	return messages, nil
}

// normalizeID 把空字符串的标识统一归一为 nil。
func normalizeID(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	return id
}

// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"

	"loanwise-go/internal/model"
	"loanwise-go/internal/service"
	"loanwise-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// ChatHandler 负责处理产品咨询对话相关的 API 请求。
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler 创建一个新的 ChatHandler 实例。
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// SubmitTurnRequest 定义了提交一轮对话的请求体结构。
type SubmitTurnRequest struct {
	ProductID *string `json:"productId"`
	UserID    *string `json:"userId"`
	Message   string  `json:"message"`
}

// PostMessage 处理提交一轮对话的请求：持久化提问、生成并返回助手回复。
func (h *ChatHandler) PostMessage(c *gin.Context) {
	var req SubmitTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("PostMessage: invalid request payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	reply, err := h.chatService.SubmitTurn(c.Request.Context(), req.ProductID, req.UserID, req.Message)
	switch {
	case errors.Is(err, service.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	case errors.Is(err, service.ErrStorage):
		log.Errorf("PostMessage: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	case err != nil:
		log.Errorf("PostMessage: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         reply.ID,
		"role":       reply.Role,
		"content":    reply.Content,
		"created_at": reply.CreatedAt,
	})
}

// GetMessages 处理检索对话历史的请求，按创建时间升序返回消息数组。
// productId 和 userId 至少要提供一个，避免任意调用方拉走全量消息。
func (h *ChatHandler) GetMessages(c *gin.Context) {
	productID := optionalQuery(c, "productId")
	userID := optionalQuery(c, "userId")

	history, err := h.chatService.History(c.Request.Context(), productID, userID)
	switch {
	case errors.Is(err, service.ErrMissingFilter):
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId or userId is required"})
		return
	case err != nil:
		log.Errorf("GetMessages: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	if history == nil {
		history = []model.ChatMessage{}
	}
	c.JSON(http.StatusOK, history)
}

// optionalQuery 读取可选的查询参数，缺失或为空时返回 nil。
func optionalQuery(c *gin.Context, key string) *string {
	value := c.Query(key)
	if value == "" {
		return nil
	}
	return &value
}

// Package chatclient 是产品咨询对话接口的客户端，
// 并实现了带乐观更新的会话转录状态机。
package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Message 是对话接口的线格式消息。
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Client 封装了对 /api/chat 接口的 HTTP 调用。
type Client struct {
	baseURL    string
	productID  string
	userID     string
	httpClient *http.Client
}

// New 创建一个作用于指定产品和用户的对话客户端。
// productID 和 userID 均可为空，分别表示通用咨询和匿名用户。
func New(baseURL, productID, userID string) *Client {
	return &Client{
		baseURL:    baseURL,
		productID:  productID,
		userID:     userID,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// History 拉取当前会话的历史消息，服务端按创建时间升序返回。
func (c *Client) History(ctx context.Context) ([]Message, error) {
	endpoint, err := url.Parse(c.baseURL + "/api/chat")
	if err != nil {
		return nil, fmt.Errorf("无效的服务地址: %w", err)
	}
	query := endpoint.Query()
	if c.productID != "" {
		query.Set("productId", c.productID)
	}
	if c.userID != "" {
		query.Set("userId", c.userID)
	}
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("拉取历史消息失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newAPIError(resp)
	}

	var messages []Message
	if err := json.NewDecoder(resp.Body).Decode(&messages); err != nil {
		return nil, fmt.Errorf("解析历史消息失败: %w", err)
	}
	return messages, nil
}

// Send 提交一轮对话并返回服务端生成的助手消息。
func (c *Client) Send(ctx context.Context, message string) (*Message, error) {
	payload := map[string]string{"message": message}
	if c.productID != "" {
		payload["productId"] = c.productID
	}
	if c.userID != "" {
		payload["userId"] = c.userID
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("编码请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("发送消息失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newAPIError(resp)
	}

	var reply Message
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("解析助手回复失败: %w", err)
	}
	return &reply, nil
}

// newAPIError 把非 200 响应转换成带响应体信息的错误。
func newAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	var apiErr struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		return fmt.Errorf("服务端返回 [%d]: %s", resp.StatusCode, apiErr.Error)
	}
	return fmt.Errorf("服务端返回 [%d]: %s", resp.StatusCode, string(body))
}

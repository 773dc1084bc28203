// Package llm 提供了调用远程生成式 AI 服务（Gemini）的客户端。
package llm

import (
	"context"
	"fmt"
	"strings"

	"loanwise-go/internal/config"
	"loanwise-go/pkg/log"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const (
	// preferredModel 是首选模型，调用失败时才会走模型发现流程。
	preferredModel = "gemini-1.5-flash"

	// modelFamilyPrefix 是兜底匹配时认可的模型系列前缀。
	modelFamilyPrefix = "gemini"

	// emptyReplyText 在服务返回空文本时代替失败返回给调用方。
	emptyReplyText = "I'm sorry, I couldn't generate a response."
)

// Client 定义了生成客户端的接口。
type Client interface {
	// Generate 以可选的上下文文本和用户消息调用生成服务，返回回复文本。
	Generate(ctx context.Context, message, contextText string) (string, error)
	Close() error
}

// generativeAPI 是对 genai SDK 的最小抽象，便于在测试中替换为假实现。
type generativeAPI interface {
	generateText(ctx context.Context, modelID string, parts ...string) (string, error)
	listModelIDs(ctx context.Context) ([]string, error)
	close() error
}

type geminiClient struct {
	api   generativeAPI
	model string
}

// NewGeminiClient 创建一个新的 Gemini 生成客户端。
func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = preferredModel
	}

	return &geminiClient{api: &googleAPI{client: client}, model: model}, nil
}

// Generate 先用首选模型生成；失败时列出可用模型，按优先级挑一个兜底模型
// 重试一次。兜底流程自身的失败只记录日志，最终向调用方报告的仍是首次
// 调用的错误。
func (c *geminiClient) Generate(ctx context.Context, message, contextText string) (string, error) {
	text, primaryErr := c.api.generateText(ctx, c.model, contextText, message)
	if primaryErr == nil {
		return orEmptyReply(text), nil
	}
	log.Warnf("model %s generation failed: %v", c.model, primaryErr)

	fallback, err := c.findFallbackModel(ctx)
	if err != nil {
		log.Errorf("fallback model discovery failed: %v", err)
		return "", primaryErr
	}

	log.Infof("retrying generation with fallback model %s", fallback)
	text, err = c.api.generateText(ctx, fallback, contextText, message)
	if err != nil {
		log.Errorf("fallback model %s generation failed: %v", fallback, err)
		return "", primaryErr
	}
	return orEmptyReply(text), nil
}

// findFallbackModel 向服务查询当前可用的模型并按优先级选择一个兜底模型。
func (c *geminiClient) findFallbackModel(ctx context.Context) (string, error) {
	ids, err := c.api.listModelIDs(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list models: %w", err)
	}
	log.Infof("found %d available models", len(ids))

	fallback, ok := pickFallbackModel(ids)
	if !ok {
		return "", fmt.Errorf("no suitable %s model found", modelFamilyPrefix)
	}
	return fallback, nil
}

// pickFallbackModel 按严格的优先级顺序挑选兜底模型：
// 先找同时含 "flash" 和 "1.5" 的，再找含 "flash" 的，再找含 "pro" 的，
// 最后接受任何以认可前缀开头的模型。
func pickFallbackModel(ids []string) (string, bool) {
	matchers := []func(string) bool{
		func(id string) bool { return strings.Contains(id, "flash") && strings.Contains(id, "1.5") },
		func(id string) bool { return strings.Contains(id, "flash") },
		func(id string) bool { return strings.Contains(id, "pro") },
		func(id string) bool { return strings.HasPrefix(id, modelFamilyPrefix) },
	}
	for _, match := range matchers {
		for _, id := range ids {
			if match(id) {
				return id, true
			}
		}
	}
	return "", false
}

func orEmptyReply(text string) string {
	if strings.TrimSpace(text) == "" {
		return emptyReplyText
	}
	return text
}

func (c *geminiClient) Close() error {
	return c.api.close()
}

// googleAPI 用 genai SDK 实现 generativeAPI。
type googleAPI struct {
	client *genai.Client
}

func (g *googleAPI) generateText(ctx context.Context, modelID string, parts ...string) (string, error) {
	var in []genai.Part
	for _, p := range parts {
		if p != "" {
			in = append(in, genai.Text(p))
		}
	}

	resp, err := g.client.GenerativeModel(modelID).GenerateContent(ctx, in...)
	if err != nil {
		return "", err
	}
	return extractText(resp), nil
}

func (g *googleAPI) listModelIDs(ctx context.Context) ([]string, error) {
	var ids []string
	it := g.client.ListModels(ctx)
	for {
		m, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		// API 返回的名字形如 "models/gemini-1.5-flash"
		ids = append(ids, strings.TrimPrefix(m.Name, "models/"))
	}
	return ids, nil
}

func (g *googleAPI) close() error {
	return g.client.Close()
}

// extractText 将候选回复中的文本部分拼接成完整答案。
func extractText(resp *genai.GenerateContentResponse) string {
	var result strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				result.WriteString(fmt.Sprintf("%v", part))
			}
		}
	}
	return result.String()
}

package llm

import (
	"context"
	"errors"
	"testing"
)

// fakeAPI 是 generativeAPI 的测试替身。
type fakeAPI struct {
	failModels    map[string]error
	replies       map[string]string
	models        []string
	listErr       error
	generateCalls []string
	listCalls     int
}

func (f *fakeAPI) generateText(_ context.Context, modelID string, _ ...string) (string, error) {
	f.generateCalls = append(f.generateCalls, modelID)
	if err, ok := f.failModels[modelID]; ok {
		return "", err
	}
	return f.replies[modelID], nil
}

func (f *fakeAPI) listModelIDs(_ context.Context) ([]string, error) {
	f.listCalls++
	return f.models, f.listErr
}

func (f *fakeAPI) close() error { return nil }

func newTestClient(api *fakeAPI) *geminiClient {
	return &geminiClient{api: api, model: preferredModel}
}

func TestGeneratePrimarySuccess(t *testing.T) {
	api := &fakeAPI{replies: map[string]string{preferredModel: "hello"}}
	client := newTestClient(api)

	got, err := client.Generate(context.Background(), "hi", "")
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	if got != "hello" {
		t.Fatalf("unexpected reply: %q", got)
	}
	if len(api.generateCalls) != 1 || api.generateCalls[0] != preferredModel {
		t.Fatalf("unexpected generate calls: %v", api.generateCalls)
	}
	if api.listCalls != 0 {
		t.Fatalf("model listing should not happen on success, got %d calls", api.listCalls)
	}
}

func TestGenerateEmptyReplyReturnsPlaceholder(t *testing.T) {
	api := &fakeAPI{replies: map[string]string{preferredModel: "  \n"}}
	client := newTestClient(api)

	got, err := client.Generate(context.Background(), "hi", "")
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	if got != emptyReplyText {
		t.Fatalf("expected placeholder reply, got %q", got)
	}
}

func TestGenerateFallbackPrefersFlash15(t *testing.T) {
	primaryErr := errors.New("model unavailable")
	api := &fakeAPI{
		failModels: map[string]error{preferredModel: primaryErr},
		models:     []string{"gemini-pro", "gemini-1.5-flash", "text-bison"},
		replies:    map[string]string{"gemini-1.5-flash": "fallback reply"},
	}
	client := newTestClient(api)

	got, err := client.Generate(context.Background(), "hi", "ctx")
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	if got != "fallback reply" {
		t.Fatalf("unexpected reply: %q", got)
	}
	want := []string{preferredModel, "gemini-1.5-flash"}
	if len(api.generateCalls) != 2 || api.generateCalls[0] != want[0] || api.generateCalls[1] != want[1] {
		t.Fatalf("unexpected generate calls: %v, want %v", api.generateCalls, want)
	}
}

func TestGenerateFallbackFailureReturnsPrimaryError(t *testing.T) {
	primaryErr := errors.New("primary boom")
	fallbackErr := errors.New("fallback boom")
	api := &fakeAPI{
		failModels: map[string]error{
			preferredModel:     primaryErr,
			"gemini-1.5-flash": fallbackErr,
		},
		models: []string{"gemini-1.5-flash"},
	}
	client := newTestClient(api)

	_, err := client.Generate(context.Background(), "hi", "")
	if !errors.Is(err, primaryErr) {
		t.Fatalf("expected primary error, got %v", err)
	}
	if errors.Is(err, fallbackErr) {
		t.Fatalf("fallback error must not surface, got %v", err)
	}
}

func TestGenerateNoSuitableModelReturnsPrimaryError(t *testing.T) {
	primaryErr := errors.New("primary boom")
	api := &fakeAPI{
		failModels: map[string]error{preferredModel: primaryErr},
		models:     []string{"text-bison", "chat-bison"},
	}
	client := newTestClient(api)

	_, err := client.Generate(context.Background(), "hi", "")
	if !errors.Is(err, primaryErr) {
		t.Fatalf("expected primary error, got %v", err)
	}
	// 没有可用兜底模型时不允许再发起生成调用
	if len(api.generateCalls) != 1 {
		t.Fatalf("expected a single generate call, got %v", api.generateCalls)
	}
}

func TestGenerateListFailureReturnsPrimaryError(t *testing.T) {
	primaryErr := errors.New("primary boom")
	api := &fakeAPI{
		failModels: map[string]error{preferredModel: primaryErr},
		listErr:    errors.New("list boom"),
	}
	client := newTestClient(api)

	_, err := client.Generate(context.Background(), "hi", "")
	if !errors.Is(err, primaryErr) {
		t.Fatalf("expected primary error, got %v", err)
	}
}

func TestPickFallbackModel(t *testing.T) {
	tests := []struct {
		name   string
		ids    []string
		want   string
		wantOK bool
	}{
		{
			name:   "flash 1.5 wins over flash and pro",
			ids:    []string{"gemini-pro", "gemini-2.0-flash", "gemini-1.5-flash"},
			want:   "gemini-1.5-flash",
			wantOK: true,
		},
		{
			name:   "flash wins over pro",
			ids:    []string{"gemini-pro", "gemini-2.0-flash"},
			want:   "gemini-2.0-flash",
			wantOK: true,
		},
		{
			name:   "pro wins over bare family prefix",
			ids:    []string{"gemini-exp-1206", "gemini-pro"},
			want:   "gemini-pro",
			wantOK: true,
		},
		{
			name:   "family prefix as last resort",
			ids:    []string{"text-bison", "gemini-exp-1206"},
			want:   "gemini-exp-1206",
			wantOK: true,
		},
		{
			name:   "nothing suitable",
			ids:    []string{"text-bison", "chat-bison"},
			wantOK: false,
		},
		{
			name:   "empty list",
			ids:    nil,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := pickFallbackModel(tt.ids)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

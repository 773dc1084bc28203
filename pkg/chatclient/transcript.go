package chatclient

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotOpen 表示会话尚未打开（历史消息还没拉取）。
	ErrNotOpen = errors.New("transcript is not open")

	// ErrSendInProgress 表示上一轮发送还没结束，此时不接受新的提交。
	ErrSendInProgress = errors.New("a send is already in progress")

	// ErrEmptyInput 表示输入为空白。
	ErrEmptyInput = errors.New("message is empty")

	// ErrNoSuchEntry 表示指定的条目不存在或不处于失败状态。
	ErrNoSuchEntry = errors.New("no failed entry with that id")
)

// EntryState 是转录条目的确认状态。
type EntryState int

const (
	// StatePending 本地已乐观展示，服务端尚未确认。
	StatePending EntryState = iota
	// StateConfirmed 服务端已确认（历史消息和成功回合的消息）。
	StateConfirmed
	// StateFailed 发送失败，条目保留在转录中等待重发或被用户放弃。
	StateFailed
)

// Entry 是转录中的一条消息及其确认状态。
type Entry struct {
	Message Message
	State   EntryState
}

// Transcript 维护一次会话的本地转录。状态机：
// closed -> open(fetching) -> open(idle) <-> open(sending)。
// 发送时先乐观追加本地条目，服务端确认后标记 confirmed 并追加助手回复；
// 失败的条目标记 failed 留在原位，可通过 Resend 重发。
type Transcript struct {
	mu      sync.Mutex
	client  *Client
	entries []Entry
	open    bool
	sending bool
}

// NewTranscript 创建一个尚未打开的会话转录。
func NewTranscript(client *Client) *Transcript {
	return &Transcript{client: client}
}

// Open 打开会话并一次性拉取历史消息。重复调用是无害的空操作。
func (t *Transcript) Open(ctx context.Context) error {
	t.mu.Lock()
	if t.open {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()

	history, err := t.client.History(ctx)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.open {
		return nil
	}
	t.entries = make([]Entry, 0, len(history)+8)
	for _, msg := range history {
		t.entries = append(t.entries, Entry{Message: msg, State: StateConfirmed})
	}
	t.open = true
	return nil
}

// Send 提交一轮对话。本地条目立即以 pending 状态追加；
// 服务端确认后该条目转为 confirmed 并追加助手回复，失败则转为 failed。
func (t *Transcript) Send(ctx context.Context, text string) (*Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	t.mu.Lock()
	if !t.open {
		t.mu.Unlock()
		return nil, ErrNotOpen
	}
	if t.sending {
		t.mu.Unlock()
		return nil, ErrSendInProgress
	}

	entry := Entry{
		Message: Message{
			ID:        uuid.NewString(),
			Role:      "user",
			Content:   text,
			CreatedAt: time.Now(),
		},
		State: StatePending,
	}
	t.entries = append(t.entries, entry)
	t.sending = true
	t.mu.Unlock()

	return t.dispatch(ctx, entry.Message.ID, text)
}

// Resend 重发一条此前发送失败的条目。
func (t *Transcript) Resend(ctx context.Context, entryID string) (*Message, error) {
	t.mu.Lock()
	if !t.open {
		t.mu.Unlock()
		return nil, ErrNotOpen
	}
	if t.sending {
		t.mu.Unlock()
		return nil, ErrSendInProgress
	}

	idx := t.indexOf(entryID)
	if idx < 0 || t.entries[idx].State != StateFailed {
		t.mu.Unlock()
		return nil, ErrNoSuchEntry
	}
	t.entries[idx].State = StatePending
	content := t.entries[idx].Message.Content
	t.sending = true
	t.mu.Unlock()

	return t.dispatch(ctx, entryID, content)
}

// dispatch 执行网络调用并把结果合并回转录。
func (t *Transcript) dispatch(ctx context.Context, entryID, content string) (*Message, error) {
	reply, err := t.client.Send(ctx, content)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.sending = false

	idx := t.indexOf(entryID)
	if err != nil {
		if idx >= 0 {
			t.entries[idx].State = StateFailed
		}
		return nil, err
	}

	if idx >= 0 {
		t.entries[idx].State = StateConfirmed
	}
	t.entries = append(t.entries, Entry{Message: *reply, State: StateConfirmed})
	return reply, nil
}

// Entries 返回当前转录的快照。
func (t *Transcript) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	snapshot := make([]Entry, len(t.entries))
	copy(snapshot, t.entries)
	return snapshot
}

// LastFailedID 返回最近一条发送失败条目的 id，没有则返回空串。
func (t *Transcript) LastFailedID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i].State == StateFailed {
			return t.entries[i].Message.ID
		}
	}
	return ""
}

// indexOf 必须在持有锁时调用。
func (t *Transcript) indexOf(entryID string) int {
	for i := range t.entries {
		if t.entries[i].Message.ID == entryID {
			return i
		}
	}
	return -1
}

// Package llmtest provides a scripted chat model for tests.
package llmtest

import (
	"context"
	"errors"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ReplyFunc produces the completion for one call.
type ReplyFunc func(ctx context.Context, input []*schema.Message) (*schema.Message, error)

// Model is a model.BaseChatModel driven by a ReplyFunc. It records every
// input it receives.
type Model struct {
	Reply ReplyFunc

	mu    sync.Mutex
	calls [][]*schema.Message
}

var _ model.BaseChatModel = (*Model)(nil)

// Text returns a model that always answers with s.
func Text(s string) *Model {
	return &Model{Reply: func(context.Context, []*schema.Message) (*schema.Message, error) {
		return schema.AssistantMessage(s, nil), nil
	}}
}

// Failing returns a model whose every call fails with err.
func Failing(err error) *Model {
	return &Model{Reply: func(context.Context, []*schema.Message) (*schema.Message, error) {
		return nil, err
	}}
}

// Hanging returns a model that blocks until its context is done or release is
// closed.
func Hanging(release <-chan struct{}) *Model {
	return &Model{Reply: func(ctx context.Context, _ []*schema.Message) (*schema.Message, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-release:
			return schema.AssistantMessage("late", nil), nil
		}
	}}
}

func (m *Model) Generate(ctx context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	m.calls = append(m.calls, append([]*schema.Message(nil), input...))
	m.mu.Unlock()
	return m.Reply(ctx, input)
}

func (m *Model) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("llmtest: streaming not supported")
}

// Calls returns a copy of the recorded inputs.
func (m *Model) Calls() [][]*schema.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]*schema.Message(nil), m.calls...)
}

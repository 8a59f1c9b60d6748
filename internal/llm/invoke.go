package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

var (
	ErrTimeout  = errors.New("model call timed out")
	ErrUpstream = errors.New("model call failed")
)

type result struct {
	msg *schema.Message
	err error
}

// Complete runs one Generate call bounded by timeout and returns the reply
// text. It returns as soon as ctx is done even if the model never does; any
// late result is discarded.
func Complete(ctx context.Context, m model.BaseChatModel, messages []*schema.Message, timeout time.Duration) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("panic in model call: %v", r)}
			}
		}()
		msg, err := m.Generate(ctx, messages)
		done <- result{msg: msg, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctxError(ctx, timeout)
	case r := <-done:
		if r.err != nil {
			if ctx.Err() != nil {
				return "", ctxError(ctx, timeout)
			}
			return "", fmt.Errorf("%w: %v", ErrUpstream, r.err)
		}
		if r.msg == nil || strings.TrimSpace(r.msg.Content) == "" {
			return "", fmt.Errorf("%w: empty completion", ErrUpstream)
		}
		return r.msg.Content, nil
	}
}

func ctxError(ctx context.Context, timeout time.Duration) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", ErrTimeout, timeout)
	}
	return fmt.Errorf("%w: %v", ErrUpstream, ctx.Err())
}

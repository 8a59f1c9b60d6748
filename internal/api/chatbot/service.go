package chatbot

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Conversly/crm-assistant/internal/customers"
	"github.com/Conversly/crm-assistant/internal/llm"
	"github.com/Conversly/crm-assistant/internal/sessions"
	"github.com/Conversly/crm-assistant/internal/utils"
)

const SystemPrompt = "You are a helpful assistant. You are a human being. Talk like a human."

const errorReplyFormat = "Error processing message: %v"

type FilterExtractor interface {
	ExtractFilter(ctx context.Context, message string) (customers.Filter, error)
}

type CustomerQuerier interface {
	Query(f customers.Filter) []customers.Customer
}

// Reply is the outcome of one routed message.
type Reply struct {
	Text      string
	Customers []customers.Customer
	ThreadID  string
	Branch    string
	Failed    bool
}

type Service struct {
	extractor FilterExtractor
	store     CustomerQuerier
	sessions  *sessions.Registry
	chat      model.BaseChatModel
	timeout   time.Duration

	graph compose.Runnable[routeInput, *Reply]
}

// NewService compiles the routing graph. timeout bounds each chat model call
// and each wait for a busy thread.
func NewService(ctx context.Context, ex FilterExtractor, store CustomerQuerier, reg *sessions.Registry, chat model.BaseChatModel, timeout time.Duration) (*Service, error) {
	s := &Service{
		extractor: ex,
		store:     store,
		sessions:  reg,
		chat:      chat,
		timeout:   timeout,
	}

	graph, err := s.compileRouterGraph(ctx)
	if err != nil {
		return nil, err
	}
	s.graph = graph
	return s, nil
}

// Handle routes one message. The only error it returns is
// sessions.ErrInvalidThread; every other failure becomes reply text.
func (s *Service) Handle(ctx context.Context, threadID, message string) (*Reply, error) {
	if threadID == "" {
		threadID = uuid.NewString()
	}
	if err := sessions.ValidateThreadID(threadID); err != nil {
		return nil, err
	}

	start := time.Now()
	reply, err := s.graph.Invoke(ctx, routeInput{ThreadID: threadID, Message: message})
	if err != nil {
		utils.Zlog.Error("Router graph failed", zap.String("thread_id", threadID), zap.Error(err))
		return failureReply(threadID, BranchChat, err), nil
	}
	reply.ThreadID = threadID

	utils.Zlog.Info("Message routed",
		zap.String("thread_id", threadID),
		zap.String("branch", reply.Branch),
		zap.Bool("failed", reply.Failed),
		zap.Int("customers", len(reply.Customers)),
		zap.Duration("elapsed", time.Since(start)))
	return reply, nil
}

// History returns the turns of an existing thread.
func (s *Service) History(threadID string) ([]sessions.Turn, bool) {
	sess, ok := s.sessions.Lookup(threadID)
	if !ok {
		return nil, false
	}
	return sess.History(), true
}

func (s *Service) filteredReply(in *routeState) *Reply {
	out := customers.Format(s.store.Query(in.Filter))
	return &Reply{Text: out.Text, Customers: out.Records, Branch: BranchFilter}
}

// chatFallback appends the user turn, asks the model with the whole history
// and appends the answer. On failure only the user turn is kept.
func (s *Service) chatFallback(ctx context.Context, in routeInput) *Reply {
	sess, err := s.sessions.Get(in.ThreadID)
	if err != nil {
		return failureReply(in.ThreadID, BranchChat, err)
	}

	lockCtx, cancel := context.WithTimeout(ctx, s.timeout)
	err = sess.Lock(lockCtx)
	cancel()
	if err != nil {
		utils.Zlog.Warn("Thread busy", zap.String("thread_id", in.ThreadID), zap.Error(err))
		return failureReply(in.ThreadID, BranchChat, fmt.Errorf("thread is busy: %w", err))
	}
	defer sess.Unlock()

	sess.Append(sessions.RoleUser, in.Message)

	text, err := llm.Complete(ctx, s.chat, toMessages(sess.History()), s.timeout)
	if err != nil {
		utils.Zlog.Error("Chat model call failed", zap.String("thread_id", in.ThreadID), zap.Error(err))
		return failureReply(in.ThreadID, BranchChat, err)
	}

	sess.Append(sessions.RoleAssistant, text)
	return &Reply{Text: text, Branch: BranchChat}
}

func toMessages(turns []sessions.Turn) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(turns)+1)
	msgs = append(msgs, schema.SystemMessage(SystemPrompt))
	for _, t := range turns {
		switch t.Role {
		case sessions.RoleUser:
			msgs = append(msgs, schema.UserMessage(t.Content))
		case sessions.RoleAssistant:
			msgs = append(msgs, schema.AssistantMessage(t.Content, nil))
		}
	}
	return msgs
}

func failureReply(threadID, branch string, err error) *Reply {
	return &Reply{
		Text:     fmt.Sprintf(errorReplyFormat, err),
		ThreadID: threadID,
		Branch:   branch,
		Failed:   true,
	}
}

package chatbot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/require"

	"github.com/Conversly/crm-assistant/internal/customers"
	"github.com/Conversly/crm-assistant/internal/extractor"
	"github.com/Conversly/crm-assistant/internal/llm/llmtest"
	"github.com/Conversly/crm-assistant/internal/sessions"
)

type stubExtractor struct {
	filter customers.Filter
	err    error
}

func (s stubExtractor) ExtractFilter(context.Context, string) (customers.Filter, error) {
	if s.err != nil {
		return customers.Filter{}, s.err
	}
	return s.filter, nil
}

func echoModel() *llmtest.Model {
	return &llmtest.Model{Reply: func(_ context.Context, in []*schema.Message) (*schema.Message, error) {
		return schema.AssistantMessage("echo: "+in[len(in)-1].Content, nil), nil
	}}
}

func newTestService(t *testing.T, ex FilterExtractor, chat *llmtest.Model, timeout time.Duration) (*Service, *sessions.Registry) {
	t.Helper()
	reg := sessions.NewRegistry()
	svc, err := NewService(context.Background(), ex, customers.NewStore(customers.Fixture()), reg, chat, timeout)
	require.NoError(t, err)
	return svc, reg
}

func ids(records []customers.Customer) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestHandle_FilteredReply(t *testing.T) {
	chat := echoModel()
	ex := stubExtractor{filter: customers.Filter{RiskProfile: "high", SortBy: "aum", SortDir: "asc"}}
	svc, reg := newTestService(t, ex, chat, time.Second)

	reply, err := svc.Handle(context.Background(), "t1", "show high risk clients by aum")
	require.NoError(t, err)
	require.Equal(t, BranchFilter, reply.Branch)
	require.False(t, reply.Failed)
	require.Equal(t, []string{"17", "3", "14", "6", "9", "20", "11"}, ids(reply.Customers))
	require.True(t, strings.HasPrefix(reply.Text, "ID | Name | Age"))

	require.Empty(t, chat.Calls())
	require.Equal(t, 0, reg.Len())
}

func TestHandle_FilteredReplyNoMatches(t *testing.T) {
	lo, hi := int64(500000), int64(100)
	ex := stubExtractor{filter: customers.Filter{AUMMin: &lo, AUMMax: &hi}}
	svc, _ := newTestService(t, ex, echoModel(), time.Second)

	reply, err := svc.Handle(context.Background(), "t1", "aum between 500k and 100")
	require.NoError(t, err)
	require.Equal(t, BranchFilter, reply.Branch)
	require.Equal(t, customers.NoMatchesText, reply.Text)
	require.NotNil(t, reply.Customers)
	require.Empty(t, reply.Customers)
}

func TestHandle_EmptyExtractionFallsBackToChat(t *testing.T) {
	for _, extractErr := range []error{extractor.ErrNoFilters, extractor.ErrNoJSON, extractor.ErrModelCall} {
		chat := echoModel()
		svc, reg := newTestService(t, stubExtractor{err: extractErr}, chat, time.Second)

		reply, err := svc.Handle(context.Background(), "t1", "how are you?")
		require.NoError(t, err)
		require.Equal(t, BranchChat, reply.Branch)
		require.Equal(t, "echo: how are you?", reply.Text)
		require.Nil(t, reply.Customers)

		sess, ok := reg.Lookup("t1")
		require.True(t, ok)
		require.Equal(t, 2, sess.Len())
	}
}

func TestHandle_TwoTurnsBuildHistoryInOrder(t *testing.T) {
	chat := echoModel()
	svc, _ := newTestService(t, stubExtractor{err: extractor.ErrNoFilters}, chat, time.Second)

	_, err := svc.Handle(context.Background(), "thread-a", "hello")
	require.NoError(t, err)
	_, err = svc.Handle(context.Background(), "thread-a", "tell me a joke")
	require.NoError(t, err)

	turns, ok := svc.History("thread-a")
	require.True(t, ok)
	require.Equal(t, []sessions.Turn{
		{Role: sessions.RoleUser, Content: "hello", Seq: 1},
		{Role: sessions.RoleAssistant, Content: "echo: hello", Seq: 2},
		{Role: sessions.RoleUser, Content: "tell me a joke", Seq: 3},
		{Role: sessions.RoleAssistant, Content: "echo: tell me a joke", Seq: 4},
	}, turns)

	calls := chat.Calls()
	require.Len(t, calls, 2)
	require.Len(t, calls[1], 4)
	require.Equal(t, schema.System, calls[1][0].Role)
	require.Equal(t, SystemPrompt, calls[1][0].Content)
	require.Equal(t, schema.Assistant, calls[1][2].Role)
}

func TestHandle_ModelFailureKeepsOnlyUserTurn(t *testing.T) {
	chat := llmtest.Failing(errors.New("401 unauthorized"))
	svc, reg := newTestService(t, stubExtractor{err: extractor.ErrNoFilters}, chat, time.Second)

	reply, err := svc.Handle(context.Background(), "t1", "hi")
	require.NoError(t, err)
	require.True(t, reply.Failed)
	require.True(t, strings.HasPrefix(reply.Text, "Error processing message:"))
	require.Contains(t, reply.Text, "401 unauthorized")

	sess, _ := reg.Lookup("t1")
	require.Equal(t, []sessions.Turn{{Role: sessions.RoleUser, Content: "hi", Seq: 1}}, sess.History())
}

func TestHandle_TimeoutReleasesThread(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	stuck := &llmtest.Model{Reply: func(context.Context, []*schema.Message) (*schema.Message, error) {
		<-release
		return schema.AssistantMessage("too late", nil), nil
	}}
	svc, reg := newTestService(t, stubExtractor{err: extractor.ErrNoFilters}, stuck, 30*time.Millisecond)

	reply, err := svc.Handle(context.Background(), "t1", "are you there?")
	require.NoError(t, err)
	require.True(t, reply.Failed)
	require.Contains(t, reply.Text, "timed out")

	sess, _ := reg.Lookup("t1")
	require.Equal(t, 1, sess.Len())

	// the lock must be free again
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, sess.Lock(ctx))
	sess.Unlock()
}

func TestHandle_GeneratesThreadID(t *testing.T) {
	svc, reg := newTestService(t, stubExtractor{err: extractor.ErrNoFilters}, echoModel(), time.Second)

	reply, err := svc.Handle(context.Background(), "", "hi")
	require.NoError(t, err)
	require.NotEmpty(t, reply.ThreadID)

	_, ok := reg.Lookup(reply.ThreadID)
	require.True(t, ok)
}

func TestHandle_InvalidThreadID(t *testing.T) {
	svc, _ := newTestService(t, stubExtractor{err: extractor.ErrNoFilters}, echoModel(), time.Second)
	_, err := svc.Handle(context.Background(), "bad id", "hi")
	require.ErrorIs(t, err, sessions.ErrInvalidThread)
}

func TestHandle_ConcurrentSameThread(t *testing.T) {
	svc, _ := newTestService(t, stubExtractor{err: extractor.ErrNoFilters}, echoModel(), 5*time.Second)

	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Handle(context.Background(), "shared", "msg "+string(rune('a'+i)))
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	turns, ok := svc.History("shared")
	require.True(t, ok)
	require.Len(t, turns, 2*n)
	for i := 0; i < len(turns); i += 2 {
		require.Equal(t, sessions.RoleUser, turns[i].Role)
		require.Equal(t, "echo: "+turns[i].Content, turns[i+1].Content)
	}
}

func TestHandle_BusyThreadLeavesHistoryUntouched(t *testing.T) {
	chat := echoModel()
	svc, reg := newTestService(t, stubExtractor{err: extractor.ErrNoFilters}, chat, 30*time.Millisecond)

	_, err := svc.Handle(context.Background(), "t1", "first")
	require.NoError(t, err)

	sess, ok := reg.Lookup("t1")
	require.True(t, ok)
	before := sess.History()

	require.NoError(t, sess.Lock(context.Background()))
	reply, err := svc.Handle(context.Background(), "t1", "second")
	sess.Unlock()

	require.NoError(t, err)
	require.True(t, reply.Failed)
	require.Equal(t, BranchChat, reply.Branch)
	require.True(t, strings.HasPrefix(reply.Text, "Error processing message: thread is busy"))
	require.Equal(t, before, sess.History())
	require.Len(t, chat.Calls(), 1)
}

func TestHistory_UnknownThread(t *testing.T) {
	svc, _ := newTestService(t, stubExtractor{}, echoModel(), time.Second)
	_, ok := svc.History("nope")
	require.False(t, ok)
}

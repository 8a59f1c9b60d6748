package chatbot

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"go.uber.org/zap"

	"github.com/Conversly/crm-assistant/internal/customers"
	"github.com/Conversly/crm-assistant/internal/extractor"
	"github.com/Conversly/crm-assistant/internal/utils"
)

const (
	nodeExtract  = "extract"
	BranchFilter = "filtered_reply"
	BranchChat   = "chat_fallback"
)

type routeInput struct {
	ThreadID string
	Message  string
}

type routeState struct {
	In     routeInput
	Filter customers.Filter
}

func (s *Service) compileRouterGraph(ctx context.Context) (compose.Runnable[routeInput, *Reply], error) {
	graph := compose.NewGraph[routeInput, *Reply]()

	if err := graph.AddLambdaNode(nodeExtract,
		compose.InvokableLambda(func(ctx context.Context, in routeInput) (*routeState, error) {
			return s.extract(ctx, in), nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodeExtract, err)
	}

	if err := graph.AddLambdaNode(BranchFilter,
		compose.InvokableLambda(func(ctx context.Context, in *routeState) (*Reply, error) {
			return s.filteredReply(in), nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", BranchFilter, err)
	}

	if err := graph.AddLambdaNode(BranchChat,
		compose.InvokableLambda(func(ctx context.Context, in *routeState) (*Reply, error) {
			return s.chatFallback(ctx, in.In), nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", BranchChat, err)
	}

	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *routeState) (string, error) {
			if in.Filter.Empty() {
				return BranchChat, nil
			}
			return BranchFilter, nil
		},
		map[string]bool{
			BranchFilter: true,
			BranchChat:   true,
		},
	)
	if err := graph.AddBranch(nodeExtract, branch); err != nil {
		return nil, fmt.Errorf("add router branch: %w", err)
	}

	edges := [][2]string{
		{compose.START, nodeExtract},
		{BranchFilter, compose.END},
		{BranchChat, compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("chatbot.router"))
	if err != nil {
		return nil, fmt.Errorf("compile router graph: %w", err)
	}
	return runner, nil
}

// extract never fails; an extraction error just leaves the filter empty.
func (s *Service) extract(ctx context.Context, in routeInput) *routeState {
	f, err := s.extractor.ExtractFilter(ctx, in.Message)
	if err != nil {
		logExtractionMiss(in.ThreadID, err)
		return &routeState{In: in}
	}
	utils.Zlog.Debug("Extracted filter", zap.String("thread_id", in.ThreadID), zap.Any("filter", f))
	return &routeState{In: in, Filter: f}
}

func logExtractionMiss(threadID string, err error) {
	switch {
	case errors.Is(err, extractor.ErrModelCall):
		utils.Zlog.Warn("Filter extraction failed, falling back to chat",
			zap.String("thread_id", threadID), zap.Error(err))
	case errors.Is(err, extractor.ErrNoJSON):
		utils.Zlog.Debug("No JSON in extraction output", zap.String("thread_id", threadID))
	default:
		utils.Zlog.Debug("No usable filters extracted", zap.String("thread_id", threadID), zap.Error(err))
	}
}

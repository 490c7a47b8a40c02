package nodes

import (
	"context"
	"fmt"

	"github.com/cantrip-core/server/internal/agent/model"
	logx "github.com/cantrip-core/server/pkg/logger"
)

var branchNodes = map[model.Branch]string{
	model.BranchItinerary: NodeItinerary,
	model.BranchExplore:   NodeExplore,
	model.BranchPacking:   NodePacking,
	model.BranchChat:      NodeChat,
}

// NewSynthesizeCondition selects exactly one synthesize node after gather.
func NewSynthesizeCondition() func(context.Context, model.Results) (string, error) {
	return func(ctx context.Context, _ model.Results) (string, error) {
		type pick struct {
			branch    model.Branch
			sessionID string
		}
		p, err := readState(ctx, func(s *model.GraphState) pick {
			return pick{branch: SelectBranch(s.Task, s.Intent(), s.City), sessionID: s.SessionID}
		})
		if err != nil {
			return "", err
		}
		node, ok := branchNodes[p.branch]
		if !ok {
			return "", fmt.Errorf("no node for branch %q", p.branch)
		}
		logx.Debug().Str("session_id", p.sessionID).Str("branch", string(p.branch)).Msg("routing to synthesize branch")
		return node, nil
	}
}

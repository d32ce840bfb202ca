// Package core has core logic for parsing, diffing and gating.
package core

import (
	"context"

	"github.com/huangsam/typegate/internal/contract"
)

// ExecutorFunc defines the function signature for executing different typegate commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.SnapshotManager) error

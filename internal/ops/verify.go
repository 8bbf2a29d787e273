package ops

import (
	"context"
	"errors"
	"fmt"

	"github.com/BhaveshVarma1/Nirmaan/internal/storage"
)

// SnapshotStats summarizes a decoded snapshot.
type SnapshotStats struct {
	Version int `json:"version"`
	Groups  int `json:"groups"`
	Tasks   int `json:"tasks"`
}

// VerifySnapshot decodes the snapshot stored under key in the backend named by
// cfg. A data dir with no snapshot yet verifies as empty.
func VerifySnapshot(ctx context.Context, cfg storage.Config, key string) (SnapshotStats, error) {
	kv, err := storage.Open(cfg)
	if err != nil {
		return SnapshotStats{}, err
	}
	defer kv.Close()

	b, err := kv.Get(ctx, key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return SnapshotStats{}, nil
	}
	if err != nil {
		return SnapshotStats{}, fmt.Errorf("read snapshot %q: %w", key, err)
	}

	snap, err := storage.Decode(b)
	if err != nil {
		return SnapshotStats{}, err
	}
	st := SnapshotStats{Version: snap.Version, Groups: len(snap.Groups)}
	for _, g := range snap.Groups {
		st.Tasks += len(g.Tasks)
	}
	return st, nil
}

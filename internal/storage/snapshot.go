package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/BhaveshVarma1/Nirmaan/internal/model"
)

// SnapshotKey is the key the task store is persisted under.
const SnapshotKey = "nirmaanverse-tasks"

var (
	ErrUnsupportedVersion = errors.New("snapshot version is newer than this build")
	ErrNoMigration        = errors.New("no migration registered")
)

// Migration upgrades a raw snapshot document by exactly one version.
type Migration func(doc map[string]json.RawMessage) (map[string]json.RawMessage, error)

// migrations is keyed by the version a step upgrades from.
var migrations = map[int]Migration{
	// Snapshots written without a version field predate versioning and
	// already have the version 1 shape.
	0: func(doc map[string]json.RawMessage) (map[string]json.RawMessage, error) { return doc, nil },
}

// Encode serializes a snapshot stamped with the current version.
func Encode(s model.Snapshot) ([]byte, error) {
	s.Version = model.SnapshotVersion
	if s.Groups == nil {
		s.Groups = []model.TaskGroup{}
	}
	if s.ExpandedGroups == nil {
		s.ExpandedGroups = map[model.GroupID]bool{}
	}
	return json.MarshalIndent(s, "", "  ")
}

// Decode parses a snapshot, upgrading older versions through the migration
// chain. Documents in the {"state": {...}, "version": n} envelope used by
// browser persistence are unwrapped first.
func Decode(b []byte) (model.Snapshot, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(b, &doc); err != nil {
		return model.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}

	version, err := readVersion(doc)
	if err != nil {
		return model.Snapshot{}, err
	}
	if state, ok := doc["state"]; ok {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(state, &inner); err != nil {
			return model.Snapshot{}, fmt.Errorf("decode snapshot state: %w", err)
		}
		doc = inner
	}

	doc, err = Migrate(doc, version)
	if err != nil {
		return model.Snapshot{}, err
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return model.Snapshot{}, err
	}
	var s model.Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return model.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	s.Version = model.SnapshotVersion
	if s.ExpandedGroups == nil {
		s.ExpandedGroups = map[model.GroupID]bool{}
	}
	return s, nil
}

func readVersion(doc map[string]json.RawMessage) (int, error) {
	raw, ok := doc["version"]
	if !ok {
		return 0, nil
	}
	var v int
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("decode snapshot version: %w", err)
	}
	return v, nil
}

// Migrate runs every registered step from version up to the current one.
func Migrate(doc map[string]json.RawMessage, version int) (map[string]json.RawMessage, error) {
	if version > model.SnapshotVersion {
		return nil, fmt.Errorf("%w: %d > %d", ErrUnsupportedVersion, version, model.SnapshotVersion)
	}
	for v := version; v < model.SnapshotVersion; v++ {
		step, ok := migrations[v]
		if !ok {
			return nil, fmt.Errorf("%w: from version %d", ErrNoMigration, v)
		}
		var err error
		doc, err = step(doc)
		if err != nil {
			return nil, fmt.Errorf("migrate snapshot from version %d: %w", v, err)
		}
	}
	doc["version"] = json.RawMessage(fmt.Sprint(model.SnapshotVersion))
	return doc, nil
}

package ops

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/BhaveshVarma1/Nirmaan/internal/storage"
)

type DrillReport struct {
	Archive    string        `json:"archive"`
	RestoreDir string        `json:"restoreDir"`
	Digest     string        `json:"digest"`
	Snapshot   SnapshotStats `json:"snapshot"`
}

// Drill backs up cfg.DataDir, restores the archive under workDir and checks
// that the restored tree is byte-identical and its snapshot still decodes.
func Drill(ctx context.Context, cfg storage.Config, key, workDir string, now time.Time) (DrillReport, error) {
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return DrillReport{}, err
	}
	ts := now.UTC().Format("20060102T150405Z")
	rep := DrillReport{
		Archive:    filepath.Join(workDir, "nirmaan-drill-"+ts+".tar.gz"),
		RestoreDir: filepath.Join(workDir, "nirmaan-drill-restore-"+ts),
	}

	if err := BackupDataDir(cfg.DataDir, rep.Archive); err != nil {
		return rep, fmt.Errorf("backup: %w", err)
	}
	if err := RestoreDataDir(rep.Archive, rep.RestoreDir); err != nil {
		return rep, fmt.Errorf("restore: %w", err)
	}

	src, err := DirDigest(cfg.DataDir)
	if err != nil {
		return rep, err
	}
	restored, err := DirDigest(rep.RestoreDir)
	if err != nil {
		return rep, err
	}
	if src != restored {
		return rep, fmt.Errorf("digest mismatch after restore: src=%s restored=%s", src, restored)
	}
	rep.Digest = src

	restoredCfg := cfg
	restoredCfg.DataDir = rep.RestoreDir
	rep.Snapshot, err = VerifySnapshot(ctx, restoredCfg, key)
	if err != nil {
		return rep, fmt.Errorf("verify restored snapshot: %w", err)
	}
	return rep, nil
}

// DirDigest hashes relative paths and contents of every file under root,
// skipping snapshot temp files.
func DirDigest(root string) (string, error) {
	root = filepath.Clean(root)
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || isTempFile(d.Name()) || d.Type()&os.ModeSymlink != 0 {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return "", err
	}
	sort.Strings(files)

	h := sha256.New()
	for _, rel := range files {
		_, _ = io.WriteString(h, rel+"\n")
		f, err := os.Open(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return "", err
		}
		_, err = io.Copy(h, f)
		_ = f.Close()
		if err != nil {
			return "", err
		}
		_, _ = io.WriteString(h, "\n")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

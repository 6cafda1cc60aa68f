package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/okhramov/stockbook/internal/domain"
	"github.com/okhramov/stockbook/internal/port"
)

var _ port.SnapshotStore = (*Store)(nil)

// Store keeps one JSON snapshot file per symbol under a directory.
// Writes go to a temp file in the same directory and are renamed over
// the target, so a crash mid-save never clobbers the previous
// snapshot.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(symbol string) (string, error) {
	if symbol == "" || strings.ContainsAny(symbol, `/\`) {
		return "", fmt.Errorf("invalid symbol %q", symbol)
	}
	return filepath.Join(s.dir, symbol+".json"), nil
}

func (s *Store) Save(ctx context.Context, snap *domain.BookSnapshot) error {
	target, err := s.path(snap.Symbol)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("snapshot dir: %w", err)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, snap.Symbol+".*.tmp")
	if err != nil {
		return fmt.Errorf("snapshot temp file: %w", err)
	}
	// The rename below is the commit point; everything before it must
	// leave the old snapshot untouched.
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, symbol string) (*domain.BookSnapshot, error) {
	target, err := s.path(symbol)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(target)
	if os.IsNotExist(err) {
		return nil, port.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if len(data) == 0 {
		return nil, port.ErrSnapshotNotFound
	}

	var snap domain.BookSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", port.ErrSnapshotCorrupt, target, err)
	}
	if snap.Version != domain.SnapshotVersion {
		return nil, fmt.Errorf("%w: %s: unsupported version %d", port.ErrSnapshotCorrupt, target, snap.Version)
	}
	return &snap, nil
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	var symbols []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		symbols = append(symbols, strings.TrimSuffix(name, ".json"))
	}
	return symbols, nil
}

package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/isgwatch/isgwatch/internal/entry"
	"github.com/rs/zerolog"
)

// fileStore keeps the snapshot as a JSON array of
// [error_code, heatpump, date, time] rows. The layout matches the
// state file of earlier deployments, so existing state carries over.
type fileStore struct {
	path string
	log  zerolog.Logger
}

func openFile(cfg Config, log zerolog.Logger) (*fileStore, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("state.path is required for the file driver")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &fileStore{path: path, log: log}, nil
}

func (s *fileStore) Load() ([]entry.Entry, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read snapshot %s: %w", s.path, err)
	}

	var rows [][]string
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrCorruptState, s.path, err)
	}

	entries := make([]entry.Entry, 0, len(rows))
	for i, row := range rows {
		if len(row) != 4 {
			return nil, false, fmt.Errorf("%w: %s: row %d has %d fields, want 4",
				ErrCorruptState, s.path, i, len(row))
		}
		entries = append(entries, entry.Entry{
			ErrorCode: row[0],
			Heatpump:  row[1],
			Date:      row[2],
			Time:      row[3],
		})
	}
	return entries, true, nil
}

func (s *fileStore) Save(entries []entry.Entry) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.ErrorCode, e.Heatpump, e.Date, e.Time})
	}

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	data = append(data, '\n')

	// Write-then-rename so a partially written file is never observable.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace snapshot: %w", err)
	}

	s.log.Debug().
		Str("path", s.path).
		Int("entries", len(entries)).
		Msg("Snapshot saved")
	return nil
}

func (s *fileStore) Close() error { return nil }

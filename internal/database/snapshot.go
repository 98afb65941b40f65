package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"shareit/internal/config"
	"shareit/internal/logging"
)

const snapshotPrefix = "shareit_"

// SnapshotService writes periodic VACUUM INTO copies of the store and prunes old ones.
type SnapshotService struct {
	db     *DB
	config config.BackupConfig
	logger *zerolog.Logger
	now    func() time.Time
}

func NewSnapshotService(db *DB, cfg config.BackupConfig, logger *zerolog.Logger) *SnapshotService {
	return &SnapshotService{
		db:     db,
		config: cfg,
		logger: logging.Component(logger, "snapshots"),
		now:    time.Now,
	}
}

// Run blocks until ctx is done. The first snapshot is taken immediately.
func (s *SnapshotService) Run(ctx context.Context) {
	if !s.config.Enabled {
		s.logger.Info().Msg("Snapshots disabled")
		return
	}

	interval := 24 * time.Hour
	if s.config.Schedule != "" {
		d, err := time.ParseDuration(s.config.Schedule)
		if err != nil || d <= 0 {
			s.logger.Warn().Err(err).Str("schedule", s.config.Schedule).Msg("Bad snapshot schedule, using 24h")
		} else {
			interval = d
		}
	}
	s.logger.Info().Dur("interval", interval).Str("dir", s.config.StoragePath).Msg("Snapshots started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.Snapshot(ctx); err != nil {
			s.logger.Error().Err(err).Msg("Snapshot failed")
		}
		s.Prune()

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Snapshot writes a consistent copy of the live store and returns its path.
func (s *SnapshotService) Snapshot(ctx context.Context) (string, error) {
	if err := os.MkdirAll(s.config.StoragePath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	name := snapshotPrefix + s.now().UTC().Format("20060102_150405") + ".db"
	path := filepath.Join(s.config.StoragePath, name)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("snapshot %s already exists", name)
	}

	if _, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, path); err != nil {
		return "", fmt.Errorf("failed to vacuum into %s: %w", path, err)
	}

	s.logger.Info().Str("path", path).Msg("Snapshot written")
	return path, nil
}

// Prune removes snapshots older than the retention period. Other files are left alone.
func (s *SnapshotService) Prune() int {
	if s.config.RetentionDays <= 0 {
		return 0
	}

	entries, err := os.ReadDir(s.config.StoragePath)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to read snapshot directory")
		return 0
	}

	cutoff := s.now().AddDate(0, 0, -s.config.RetentionDays)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), snapshotPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.config.StoragePath, entry.Name())); err != nil {
			s.logger.Warn().Err(err).Str("file", entry.Name()).Msg("Failed to remove snapshot")
			continue
		}
		s.logger.Info().Str("file", entry.Name()).Msg("Old snapshot removed")
		removed++
	}
	return removed
}

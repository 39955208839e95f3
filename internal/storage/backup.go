package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

const backupLayout = "20060102_150405"

// BackupService takes timestamped snapshots of a store and prunes old ones.
type BackupService struct {
	path          string
	retentionDays int
	logger        *zerolog.Logger
	now           func() time.Time
}

func NewBackupService(path string, retentionDays int, logger *zerolog.Logger) *BackupService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &BackupService{
		path:          path,
		retentionDays: retentionDays,
		logger:        logger,
		now:           time.Now,
	}
}

// PerformBackup snapshots the store into path/<timestamp>/ and removes
// expired snapshots. It returns the snapshot directory.
func (s *BackupService) PerformBackup(store Store) (string, error) {
	if !store.Exists() {
		s.logger.Debug().Msg("Nothing to back up")
		return "", nil
	}

	dir := filepath.Join(s.path, s.now().Format(backupLayout))
	s.logger.Info().Str("path", dir).Msg("Performing backup")

	if err := store.Snapshot(dir); err != nil {
		return "", fmt.Errorf("backup: %w", err)
	}

	s.logger.Info().Msg("Backup completed successfully")
	s.CleanupOldBackups()
	return dir, nil
}

// CleanupOldBackups deletes snapshot directories older than the retention.
func (s *BackupService) CleanupOldBackups() {
	if s.retentionDays <= 0 {
		return
	}

	entries, err := os.ReadDir(s.path)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to read backup directory for cleanup")
		return
	}

	now := s.now()
	cutoff := now.AddDate(0, 0, -s.retentionDays)

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		taken, err := time.ParseInLocation(backupLayout, entry.Name(), now.Location())
		if err != nil {
			continue
		}

		if taken.Before(cutoff) {
			s.logger.Info().Str("snapshot", entry.Name()).Msg("Deleting old backup")
			if err := os.RemoveAll(filepath.Join(s.path, entry.Name())); err != nil {
				s.logger.Error().Err(err).Str("snapshot", entry.Name()).Msg("Failed to delete old backup")
			}
		}
	}
}

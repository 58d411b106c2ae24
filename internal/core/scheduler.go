package core

// scheduler.go runs the periodic report snapshot.
//
// Each run renders the consolidated workbook and hands it to an Archiver
// (S3 in production). The job logs failures and keeps going; one bad run
// never stops the server.

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/JonMunkholm/mseboard/internal/report"
)

// Archiver stores report snapshots.
type Archiver interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// SnapshotConfig holds the snapshot scheduler settings.
type SnapshotConfig struct {
	Interval time.Duration // how often to run (default: 24h)
	Prefix   string        // key prefix inside the bucket
}

// DefaultSnapshotInterval is used when SnapshotConfig.Interval is zero.
const DefaultSnapshotInterval = 24 * time.Hour

// StartSnapshotScheduler archives a consolidated workbook immediately and
// then every Interval until ctx is cancelled.
func (s *Service) StartSnapshotScheduler(ctx context.Context, a Archiver, cfg SnapshotConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultSnapshotInterval
	}
	slog.Info("snapshot scheduler started", "interval", cfg.Interval.String(), "prefix", cfg.Prefix)

	s.runSnapshotJob(ctx, a, cfg)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("snapshot scheduler stopped")
			return
		case <-ticker.C:
			s.runSnapshotJob(ctx, a, cfg)
		}
	}
}

func (s *Service) runSnapshotJob(ctx context.Context, a Archiver, cfg SnapshotConfig) {
	start := time.Now()

	key, err := s.Snapshot(ctx, a, cfg.Prefix)
	if err != nil {
		slog.Error("snapshot failed", "error", err)
		return
	}

	slog.Info("snapshot archived",
		"key", key,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// Snapshot renders the consolidated workbook and stores it under
// <prefix>/YYYY/MM/DD/<export id>-<file name>. It returns the key.
func (s *Service) Snapshot(ctx context.Context, a Archiver, prefix string) (string, error) {
	exp, err := s.Export(ctx, report.AllUnits, "")
	if err != nil {
		return "", err
	}

	key := SnapshotKey(prefix, s.now(), exp.ID, exp.FileName)
	if err := a.Put(ctx, key, exp.Data, report.ContentType); err != nil {
		return "", fmt.Errorf("archive %s: %w", key, err)
	}
	return key, nil
}

// SnapshotKey builds the object key for a snapshot taken at t.
func SnapshotKey(prefix string, t time.Time, id, fileName string) string {
	return path.Join(strings.Trim(prefix, "/"), t.UTC().Format("2006/01/02"), id+"-"+fileName)
}

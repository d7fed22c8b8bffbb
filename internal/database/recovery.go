package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// RecoveryResult indicates the outcome of a recovery attempt.
type RecoveryResult int

const (
	// RecoveryNotNeeded means the file was absent or passed its integrity check.
	RecoveryNotNeeded RecoveryResult = iota
	// RecoveryFromBackup means the file was replaced by the newest sound backup.
	RecoveryFromBackup
	// RecoveryFailed means the file is damaged and no usable backup exists.
	RecoveryFailed
)

func (r RecoveryResult) String() string {
	switch r {
	case RecoveryNotNeeded:
		return "not_needed"
	case RecoveryFromBackup:
		return "restored_from_backup"
	case RecoveryFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RecoveryReport describes what AttemptRecovery found and did.
type RecoveryReport struct {
	Result        RecoveryResult
	DatabasePath  string
	BackupUsed    string
	PreservedCopy string
	Problem       string
}

// AttemptRecovery checks the registry file before it is opened. A damaged
// file is moved aside and the newest backup that passes its own integrity
// check is copied into place.
func AttemptRecovery(dbPath, backupDir string) (*RecoveryReport, error) {
	report := &RecoveryReport{DatabasePath: dbPath}

	if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
		return report, nil
	}

	problem := verifyFile(dbPath)
	if problem == nil {
		slog.Debug("database integrity verified", "path", dbPath)
		return report, nil
	}
	report.Problem = problem.Error()
	slog.Warn("database integrity check failed", "path", dbPath, "error", problem)

	backup, err := newestSoundBackup(backupDir)
	if err != nil {
		report.Result = RecoveryFailed
		return report, fmt.Errorf("database %s is damaged (%v) and cannot be restored: %w", dbPath, problem, err)
	}

	preserved := dbPath + ".corrupted." + time.Now().Format("20060102-150405")
	if err := os.Rename(dbPath, preserved); err != nil {
		slog.Warn("failed to preserve damaged database", "path", dbPath, "error", err)
	} else {
		report.PreservedCopy = preserved
	}
	os.Remove(dbPath + "-wal")
	os.Remove(dbPath + "-shm")

	if err := copyFile(backup, dbPath); err != nil {
		report.Result = RecoveryFailed
		return report, fmt.Errorf("restoring backup %s: %w", backup, err)
	}

	report.Result = RecoveryFromBackup
	report.BackupUsed = backup
	slog.Warn("database restored from backup", "path", dbPath, "backup", backup)
	return report, nil
}

// verifyFile runs a read-only integrity check on a database file.
func verifyFile(path string) error {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var result []string
	rows, err := db.QueryContext(ctx, "PRAGMA integrity_check")
	if err != nil {
		return fmt.Errorf("running integrity check: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return fmt.Errorf("scanning result: %w", err)
		}
		result = append(result, line)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating results: %w", err)
	}

	if len(result) == 1 && result[0] == "ok" {
		return nil
	}
	return fmt.Errorf("integrity check failed: %s", strings.Join(result, "; "))
}

// newestSoundBackup returns the most recently modified backup in dir that
// passes an integrity check.
func newestSoundBackup(dir string) (string, error) {
	if dir == "" {
		return "", errors.New("no backup directory configured")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading backup directory: %w", err)
	}

	type candidate struct {
		path    string
		modTime time.Time
	}
	var candidates []candidate
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".db") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{filepath.Join(dir, entry.Name()), info.ModTime()})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].modTime.After(candidates[j].modTime)
	})

	for _, c := range candidates {
		if err := verifyFile(c.path); err != nil {
			slog.Debug("skipping unusable backup", "path", c.path, "error", err)
			continue
		}
		return c.path, nil
	}
	return "", errors.New("no valid backup found")
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0640)
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return out.Sync()
}

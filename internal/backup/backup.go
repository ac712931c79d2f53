// Package backup snapshots the SQLite database, encrypts it with a
// passphrase and uploads it to S3-compatible storage.
package backup

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/eonjeswim/eonjeswim/internal/database"
)

// ErrDisabled is returned when the manager has no storage or passphrase.
var ErrDisabled = errors.New("backup not configured")

const (
	keyPrefix = "eonjeswim-"
	keySuffix = ".db.enc"
	keyLayout = "2006-01-02T150405Z"
)

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, input *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Config holds S3-compatible storage configuration.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

func (c S3Config) complete() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// Config holds backup manager configuration.
type Config struct {
	S3            S3Config
	Passphrase    string
	RetentionDays int
	// Prefix is prepended to every object key, e.g. "prod/".
	Prefix string
}

// State represents the backup manager state.
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateDisabled State = "disabled"
	StateError    State = "error"
)

// Status holds the current backup manager status.
type Status struct {
	State      State      `json:"state"`
	LastBackup *time.Time `json:"last_backup,omitempty"`
	LastKey    string     `json:"last_key,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// Manager runs encrypted backups. Runs are serialized.
type Manager struct {
	run sync.Mutex

	mu     sync.RWMutex
	status Status

	cfg    Config
	db     *sql.DB
	client s3Client
	logger *slog.Logger
	now    func() time.Time
}

// NewManager creates a backup manager. Without a bucket, credentials and a
// passphrase it stays disabled and Run returns ErrDisabled.
func NewManager(cfg Config, db *sql.DB, logger *slog.Logger) *Manager {
	m := &Manager{
		cfg:    cfg,
		db:     db,
		logger: logger.With("component", "backup"),
		now:    time.Now,
		status: Status{State: StateDisabled},
	}
	if cfg.S3.complete() && cfg.Passphrase != "" {
		m.client = newS3Client(cfg.S3)
		m.status.State = StateIdle
	}
	return m
}

func newS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Status returns the current backup status.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Manager) setStatus(s Status) {
	m.mu.Lock()
	m.status = s
	m.mu.Unlock()
}

func (m *Manager) fail(prev Status, err error) error {
	prev.State = StateError
	prev.Error = err.Error()
	m.setStatus(prev)
	return err
}

// Key returns the object key for a backup taken at t.
func (m *Manager) Key(t time.Time) string {
	return m.cfg.Prefix + keyPrefix + t.UTC().Format(keyLayout) + keySuffix
}

// takenAt parses the timestamp out of an object key written by Key.
func (m *Manager) takenAt(key string) (time.Time, bool) {
	name, ok := strings.CutPrefix(key, m.cfg.Prefix+keyPrefix)
	if !ok {
		return time.Time{}, false
	}
	name, ok = strings.CutSuffix(name, keySuffix)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(keyLayout, name)
	return t, err == nil
}

// Run snapshots the database, seals it and uploads it, then prunes
// backups past the retention window. It returns the uploaded key.
func (m *Manager) Run(ctx context.Context) (string, error) {
	if m.client == nil {
		return "", ErrDisabled
	}
	m.run.Lock()
	defer m.run.Unlock()

	prev := m.Status()
	running := prev
	running.State = StateRunning
	running.Error = ""
	m.setStatus(running)

	plain, err := database.Snapshot(ctx, m.db)
	if err != nil {
		return "", m.fail(prev, fmt.Errorf("snapshot: %w", err))
	}
	sealed, err := Seal(plain, m.cfg.Passphrase)
	if err != nil {
		return "", m.fail(prev, fmt.Errorf("encrypt: %w", err))
	}

	now := m.now().UTC()
	key := m.Key(now)
	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(m.cfg.S3.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(sealed),
		ContentLength: aws.Int64(int64(len(sealed))),
	})
	if err != nil {
		return "", m.fail(prev, fmt.Errorf("upload to s3: %w", err))
	}

	m.setStatus(Status{State: StateIdle, LastBackup: &now, LastKey: key})
	m.logger.Info("backup uploaded", "key", key, "bytes", len(sealed))

	if m.cfg.RetentionDays > 0 {
		removed, err := m.Cleanup(ctx, now.AddDate(0, 0, -m.cfg.RetentionDays))
		if err != nil {
			m.logger.Warn("backup cleanup failed", "error", err)
		} else if removed > 0 {
			m.logger.Info("old backups removed", "count", removed)
		}
	}
	return key, nil
}

// List returns the backup keys in storage, oldest first.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	if m.client == nil {
		return nil, ErrDisabled
	}
	var keys []string
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(m.cfg.S3.Bucket),
		Prefix: aws.String(m.cfg.Prefix + keyPrefix),
	}
	for {
		out, err := m.client.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		for _, obj := range out.Contents {
			if _, ok := m.takenAt(aws.ToString(obj.Key)); ok {
				keys = append(keys, aws.ToString(obj.Key))
			}
		}
		if !aws.ToBool(out.IsTruncated) || out.NextContinuationToken == nil {
			break
		}
		input.ContinuationToken = out.NextContinuationToken
	}
	// Timestamps sort lexically.
	slices.Sort(keys)
	return keys, nil
}

// Cleanup deletes backups taken before the cutoff and returns how many went.
func (m *Manager) Cleanup(ctx context.Context, before time.Time) (int, error) {
	keys, err := m.List(ctx)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, key := range keys {
		t, _ := m.takenAt(key)
		if !t.Before(before) {
			continue
		}
		if _, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(m.cfg.S3.Bucket),
			Key:    aws.String(key),
		}); err != nil {
			m.logger.Warn("failed to delete backup", "key", key, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}

// Restore downloads key, decrypts it, checks its integrity and writes it
// to dst. The running server must be stopped before dst replaces its file.
func (m *Manager) Restore(ctx context.Context, key, dst string) error {
	if m.client == nil {
		return ErrDisabled
	}
	out, err := m.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.cfg.S3.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("download from s3: %w", err)
	}
	defer out.Body.Close()

	sealed, err := io.ReadAll(out.Body)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}
	plain, err := Open(sealed, m.cfg.Passphrase)
	if err != nil {
		return err
	}

	tmp := dst + ".restore"
	if err := os.WriteFile(tmp, plain, 0o600); err != nil {
		return fmt.Errorf("write restored db: %w", err)
	}
	if err := database.CheckIntegrity(tmp); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		return fmt.Errorf("replace database: %w", err)
	}
	os.Remove(dst + "-wal")
	os.Remove(dst + "-shm")
	m.logger.Info("backup restored", "key", key, "path", dst)
	return nil
}

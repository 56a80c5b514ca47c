// Package storage provides the key-value stores backing rotation state.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

// ErrBucketMissing is returned when the configured bucket disappeared from the file.
var ErrBucketMissing = errors.New("bucket missing")

// Bolt is a ports.KeyValueStore backed by a single bbolt bucket.
type Bolt struct {
	db     *bbolt.DB
	bucket []byte
}

// BoltConfig configures OpenBolt.
type BoltConfig struct {
	Path   string
	Bucket string
	// Timeout bounds waiting for the file lock held by another process.
	Timeout time.Duration
}

// OpenBolt opens (or creates) the database file and ensures the bucket exists.
func OpenBolt(cfg BoltConfig) (*Bolt, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
	}

	db, err := bbolt.Open(cfg.Path, 0o600, &bbolt.Options{Timeout: cfg.Timeout})
	if err != nil {
		return nil, fmt.Errorf("opening bolt %s: %w", cfg.Path, err)
	}

	bucket := []byte(cfg.Bucket)
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	}); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("creating bucket %q: %w", cfg.Bucket, err)
	}

	return &Bolt{db: db, bucket: bucket}, nil
}

// Get returns the value stored under key.
func (b *Bolt) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	var (
		value string
		found bool
	)

	err := b.db.View(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket(b.bucket)
		if bkt == nil {
			return ErrBucketMissing
		}

		// Values are only valid inside the transaction; string() copies.
		if v := bkt.Get([]byte(key)); v != nil {
			value, found = string(v), true
		}

		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("bolt get %q: %w", key, err)
	}

	return value, found, nil
}

// Set stores value under key.
func (b *Bolt) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := b.db.Update(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket(b.bucket)
		if bkt == nil {
			return ErrBucketMissing
		}

		return bkt.Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("bolt set %q: %w", key, err)
	}

	return nil
}

// Name implements ports.HealthChecker.
func (b *Bolt) Name() string {
	return "bolt-store"
}

// Check implements ports.HealthChecker by opening a read transaction.
func (b *Bolt) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return b.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(b.bucket) == nil {
			return ErrBucketMissing
		}

		return nil
	})
}

// Close releases the file lock.
func (b *Bolt) Close() error {
	return b.db.Close()
}

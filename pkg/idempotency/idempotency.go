// Package idempotency replays the stored outcome of a request that carries an
// Idempotency-Key the server has already seen.
package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

var (
	// ErrInFlight is returned while another request holds the key.
	ErrInFlight = errors.New("idempotency: request with this key is in progress")
	// ErrFingerprintMismatch is returned when a key is reused with a different request.
	ErrFingerprintMismatch = errors.New("idempotency: key was used with a different request")
)

// Record is the stored outcome of a completed request.
type Record struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType,omitempty"`
	Body        []byte `json:"body,omitempty"`
	Fingerprint string `json:"fingerprint"`
}

// Store persists reservations and records.
type Store interface {
	// Reserve claims key for lockTTL. It returns (nil, nil) when the caller
	// now owns the key, the stored record when the key already completed, and
	// ErrInFlight when another request owns it.
	Reserve(ctx context.Context, key string, lockTTL time.Duration) (*Record, error)
	// Save replaces the reservation with rec for ttl.
	Save(ctx context.Context, key string, rec *Record, ttl time.Duration) error
	// Release drops the reservation so the key can be retried.
	Release(ctx context.Context, key string) error
}

// Fingerprint hashes the parts that identify a request.
func Fingerprint(parts ...[]byte) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

type Option func(*Guard)

func WithTTL(ttl time.Duration) Option {
	return func(g *Guard) { g.ttl = ttl }
}

func WithLockTTL(ttl time.Duration) Option {
	return func(g *Guard) { g.lockTTL = ttl }
}

// Guard runs a request at most once per key.
type Guard struct {
	store   Store
	group   singleflight.Group
	ttl     time.Duration
	lockTTL time.Duration
	logger  *slog.Logger
}

func New(store Store, logger *slog.Logger, opts ...Option) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Guard{
		store:   store,
		ttl:     24 * time.Hour,
		lockTTL: 30 * time.Second,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type outcome struct {
	rec      *Record
	replayed bool
}

// Do returns the stored record for key when one exists, otherwise runs fn
// and stores its record. Records with a 5xx status are not kept so the
// client may retry. Concurrent callers with the same key and fingerprint
// share one execution and observe it as a replay.
func (g *Guard) Do(
	ctx context.Context,
	key, fingerprint string,
	fn func() (*Record, error),
) (rec *Record, replayed bool, err error) {
	log := g.logger.With("idempotency_key", key)
	leader := false
	v, err, _ := g.group.Do(key+"|"+fingerprint, func() (any, error) {
		leader = true
		return g.run(ctx, log, key, fingerprint, fn)
	})
	if err != nil {
		return nil, false, err
	}
	out := v.(*outcome)
	return out.rec, out.replayed || !leader, nil
}

func (g *Guard) run(
	ctx context.Context,
	log *slog.Logger,
	key, fingerprint string,
	fn func() (*Record, error),
) (*outcome, error) {
	existing, err := g.store.Reserve(ctx, key, g.lockTTL)
	if err != nil {
		if !errors.Is(err, ErrInFlight) {
			log.Error("Reserving idempotency key failed", "error", err)
		}
		return nil, err
	}
	if existing != nil {
		if existing.Fingerprint != fingerprint {
			return nil, ErrFingerprintMismatch
		}
		log.Info("🔁 Replaying stored response", "status", existing.Status)
		return &outcome{rec: existing, replayed: true}, nil
	}

	rec, err := g.call(log, key, fn)
	if err != nil {
		g.release(log, key)
		return nil, err
	}
	if rec == nil {
		g.release(log, key)
		return &outcome{}, nil
	}
	rec.Fingerprint = fingerprint
	if rec.Status >= 500 {
		g.release(log, key)
		return &outcome{rec: rec}, nil
	}
	// the response is already decided; a canceled request must not lose it
	if err := g.store.Save(context.WithoutCancel(ctx), key, rec, g.ttl); err != nil {
		log.Error("Saving idempotency record failed", "error", err)
		g.release(log, key)
	}
	return &outcome{rec: rec}, nil
}

// call runs fn and releases key if fn panics, so the caller may retry.
func (g *Guard) call(log *slog.Logger, key string, fn func() (*Record, error)) (*Record, error) {
	returned := false
	defer func() {
		if !returned {
			log.Error("Request panicked, releasing idempotency key")
			g.release(log, key)
		}
	}()
	rec, err := fn()
	returned = true
	return rec, err
}

func (g *Guard) release(log *slog.Logger, key string) {
	if err := g.store.Release(context.Background(), key); err != nil {
		log.Warn("Releasing idempotency key failed", "error", err)
	}
}

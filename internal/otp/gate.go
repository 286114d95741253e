// Package otp issues and checks six-digit verification codes for phone numbers and email
// addresses.
package otp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nss-bloodbank/backend/internal/otp/domain"
	"nss-bloodbank/backend/internal/otp/repository"
)

var (
	// ErrInvalidCode is returned when the candidate does not match, or no challenge is outstanding.
	ErrInvalidCode = errors.New("otp: invalid code")
	// ErrExpired is returned when the outstanding challenge has passed its expiry.
	ErrExpired = errors.New("otp: code expired")
	// ErrTooManyAttempts is returned on the guess that exhausts the attempt budget; the challenge is discarded.
	ErrTooManyAttempts = errors.New("otp: too many attempts")
	// ErrRateLimited is returned when a new code is requested before the resend interval elapsed.
	ErrRateLimited = errors.New("otp: code requested too recently")
	// ErrDelivery wraps sender failures.
	ErrDelivery = errors.New("otp: delivery failed")
)

// IsGateError reports whether err is one of the gate's sentinel errors.
func IsGateError(err error) bool {
	for _, target := range []error{ErrInvalidTarget, ErrInvalidCode, ErrExpired, ErrTooManyAttempts, ErrRateLimited, ErrDelivery} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Defaults applied by NewGate. TTL and MaxAttempts fall back when zero or negative.
// ResendInterval falls back only when negative; zero disables the resend limit.
const (
	DefaultTTL            = 10 * time.Minute
	DefaultMaxAttempts    = 5
	DefaultResendInterval = 30 * time.Second
)

// Options tunes the challenge lifecycle. See the Default constants for zero values.
type Options struct {
	TTL            time.Duration
	MaxAttempts    int
	ResendInterval time.Duration
}

// Receipt describes an issued challenge. It never carries the code.
type Receipt struct {
	ChallengeID string         `json:"challenge_id"`
	Target      string         `json:"target"`
	Channel     domain.Channel `json:"channel"`
	ExpiresAt   time.Time      `json:"expires_at"`
}

// Gate issues one challenge per target and verifies candidates against it.
// A challenge is consumed by its first successful verification.
type Gate struct {
	repo   repository.Repository
	sender Sender
	opts   Options
	logger *zap.Logger
	now    func() time.Time

	// mu serializes challenge transitions so a code cannot be consumed twice.
	mu sync.Mutex
	// verified remembers targets that passed verification until the challenge would have expired.
	verified map[string]time.Time
}

// NewGate returns a Gate. A nil logger is replaced with zap.NewNop.
func NewGate(repo repository.Repository, sender Sender, opts Options, logger *zap.Logger) *Gate {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.ResendInterval < 0 {
		opts.ResendInterval = DefaultResendInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{
		repo:     repo,
		sender:   sender,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
		verified: make(map[string]time.Time),
	}
}

// SendCode synthesizes a fresh code for target, replaces any outstanding challenge and
// delivers the code. Returns ErrRateLimited if the previous code is younger than the resend interval.
func (g *Gate) SendCode(ctx context.Context, rawTarget string) (*Receipt, error) {
	target, channel, err := NormalizeTarget(rawTarget)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now().UTC()
	prev, err := g.repo.Get(ctx, target)
	if err != nil {
		return nil, err
	}
	if prev != nil && g.opts.ResendInterval > 0 && now.Sub(prev.IssuedAt) < g.opts.ResendInterval {
		return nil, ErrRateLimited
	}

	code, err := GenerateCode()
	if err != nil {
		return nil, err
	}
	c := &domain.Challenge{
		ID:        uuid.New().String(),
		Target:    target,
		Channel:   channel,
		CodeHash:  HashCode(code),
		IssuedAt:  now,
		ExpiresAt: now.Add(g.opts.TTL),
	}
	if err := g.repo.Put(ctx, c); err != nil {
		return nil, err
	}
	delete(g.verified, target)

	if err := g.sender.Send(ctx, channel, target, code, c.ExpiresAt); err != nil {
		_ = g.repo.Delete(ctx, target)
		g.logger.Warn("otp: delivery failed",
			zap.String("channel", string(channel)),
			zap.String("target", MaskTarget(target)),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	return &Receipt{ChallengeID: c.ID, Target: target, Channel: channel, ExpiresAt: c.ExpiresAt}, nil
}

// VerifyCode succeeds iff candidate matches the most recently issued, unexpired, unconsumed
// code for target.
func (g *Gate) VerifyCode(ctx context.Context, rawTarget, candidate string) error {
	target, _, err := NormalizeTarget(rawTarget)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	c, err := g.repo.Get(ctx, target)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrInvalidCode
	}
	now := g.now().UTC()
	if c.Expired(now) {
		_ = g.repo.Delete(ctx, target)
		return ErrExpired
	}
	if !CodeEqual(strings.TrimSpace(candidate), c.CodeHash) {
		n, err := g.repo.IncrementAttempts(ctx, target)
		if err != nil {
			return err
		}
		if n >= g.opts.MaxAttempts {
			_ = g.repo.Delete(ctx, target)
			g.logger.Info("otp: challenge discarded after failed attempts",
				zap.String("target", MaskTarget(target)), zap.Int("attempts", n))
			return ErrTooManyAttempts
		}
		return ErrInvalidCode
	}
	if err := g.repo.Delete(ctx, target); err != nil {
		return err
	}
	g.verified[target] = c.ExpiresAt
	return nil
}

// ConsumeVerified reports whether target passed VerifyCode recently and forgets it, so one
// verification backs one submission.
func (g *Gate) ConsumeVerified(rawTarget string) bool {
	target, _, err := NormalizeTarget(rawTarget)
	if err != nil {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	until, ok := g.verified[target]
	if !ok {
		return false
	}
	delete(g.verified, target)
	return until.After(g.now().UTC())
}

// IsVerified reports whether target passed VerifyCode recently without consuming it.
func (g *Gate) IsVerified(rawTarget string) bool {
	target, _, err := NormalizeTarget(rawTarget)
	if err != nil {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	until, ok := g.verified[target]
	return ok && until.After(g.now().UTC())
}

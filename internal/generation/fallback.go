package generation

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// RotationPolicy decides what happens after a key is rotated on quota
// exhaustion.
type RotationPolicy string

const (
	// RotationRetrySameTier retries the current tier once with the new key.
	RotationRetrySameTier RotationPolicy = "same_tier"
	// RotationNextTier moves on and uses the new key from the next tier.
	RotationNextTier RotationPolicy = "next_tier"
)

func ParseRotationPolicy(s string) (RotationPolicy, error) {
	switch p := RotationPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return RotationRetrySameTier, nil
	case RotationRetrySameTier, RotationNextTier:
		return p, nil
	default:
		return "", fmt.Errorf("unknown rotation policy %q (want same_tier or next_tier)", s)
	}
}

type RunnerConfig struct {
	Tiers          []Tier
	Credentials    []string
	Policy         RotationPolicy
	TierPause      time.Duration
	AttemptTimeout time.Duration
	Logger         *log.Logger
}

// Runner owns the tier list and credentials shared by the pipelines. It
// holds no per-call state and is safe for concurrent use.
type Runner struct {
	client      *Client
	tiers       []Tier
	credentials []string
	policy      RotationPolicy
	pause       time.Duration
	logger      *log.Logger
}

func NewRunner(backend Backend, cfg RunnerConfig) *Runner {
	tiers := cfg.Tiers
	if len(tiers) == 0 {
		tiers = DefaultTiers
	}
	policy := cfg.Policy
	if policy == "" {
		policy = RotationRetrySameTier
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Runner{
		client:      NewClient(backend, cfg.AttemptTimeout),
		tiers:       append([]Tier(nil), tiers...),
		credentials: append([]string(nil), cfg.Credentials...),
		policy:      policy,
		pause:       cfg.TierPause,
		logger:      logger,
	}
}

func (r *Runner) Tiers() []Tier { return append([]Tier(nil), r.tiers...) }

func (r *Runner) Configured() bool {
	_, ok := NewCredentialPool(r.credentials).Current()
	return ok
}

// runFallback walks the tier list until one tier produces a response that
// accept turns into a value. Quota exhaustion rotates the key for the rest
// of this call. Transient and fatal failures, and responses rejected by
// accept, move on to the next tier. Only cancellation of ctx aborts early.
func runFallback[T any](ctx context.Context, r *Runner, task string, req Request, accept func(text string) (T, error)) (T, string, error) {
	var zero T

	pool := NewCredentialPool(r.credentials)
	if _, ok := pool.Current(); !ok {
		return zero, "", r.noCredentials()
	}

	attempts := 0
	lastErr := ""
	for i, tier := range r.tiers {
		if i > 0 {
			if err := r.wait(ctx); err != nil {
				return zero, "", err
			}
		}

		out := r.attempt(ctx, task, tier, req, pool, &attempts)
		if err := ctx.Err(); err != nil {
			return zero, "", err
		}

		if out.Kind == OutcomeQuotaExceeded {
			rotated := pool.Rotate()
			if rotated {
				r.logger.Printf("generation: %s quota exhausted on %s, rotated to key %d/%d", task, tier.ID, pool.Index()+1, pool.Len())
			} else {
				r.logger.Printf("generation: %s quota exhausted on %s, no keys left to rotate", task, tier.ID)
			}

			if rotated && r.policy == RotationRetrySameTier {
				out = r.attempt(ctx, task, tier, req, pool, &attempts)
				if err := ctx.Err(); err != nil {
					return zero, "", err
				}
			}
		}

		if out.Kind != OutcomeSuccess {
			lastErr = out.Message
			continue
		}

		value, err := accept(out.Text)
		if err != nil {
			r.logger.Printf("generation: %s response from %s rejected: %v", task, tier.ID, err)
			lastErr = err.Error()
			continue
		}

		r.logger.Printf("generation: %s succeeded with %s after %d attempt(s)", task, tier.ID, attempts)
		return value, tier.ID, nil
	}

	r.logger.Printf("generation: %s exhausted all %d tiers, last error: %s", task, len(r.tiers), lastErr)
	return zero, "", &ExhaustedError{Task: task, Attempts: attempts, LastError: lastErr}
}

func (r *Runner) noCredentials() error {
	return &NoCredentialsError{Backend: r.client.Backend().Name()}
}

func (r *Runner) attempt(ctx context.Context, task string, tier Tier, req Request, pool *CredentialPool, attempts *int) Outcome {
	credential, _ := pool.Current()
	*attempts++

	out := r.client.Attempt(ctx, tier, credential, req)
	if out.Kind != OutcomeSuccess {
		r.logger.Printf("generation: %s via %s (key %d/%d): %s: %s", task, tier.ID, pool.Index()+1, pool.Len(), out.Kind, out.Message)
	}
	return out
}

// wait pauses between tiers. It is a cancellation point.
func (r *Runner) wait(ctx context.Context) error {
	if r.pause <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(r.pause)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

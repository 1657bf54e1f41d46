package judge

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/todmy/hamster-court/internal/dispute"
)

// Resolver produces scores for a dispute using the requested strategy
type Resolver struct {
	sim    *Simulator
	ai     Completer
	labels dispute.LabelScheme
	logger *zap.Logger
}

// NewResolver creates a resolver. ai may be nil, in which case every AI
// request falls back to the simulator.
func NewResolver(sim *Simulator, ai Completer, labels dispute.LabelScheme, logger *zap.Logger) *Resolver {
	if sim == nil {
		sim = NewSimulator(nil, 0)
	}
	if labels == "" {
		labels = dispute.SchemeParties
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Resolver{
		sim:    sim,
		ai:     ai,
		labels: labels,
		logger: logger,
	}
}

// AIAvailable reports whether an AI client is wired in
func (r *Resolver) AIAvailable() bool {
	return r.ai != nil
}

// Resolve scores a validated input. It never fails: an AI error is logged
// and reported through Result.Fallback while the simulator takes over.
func (r *Resolver) Resolve(ctx context.Context, in dispute.Input, mode Mode) Result {
	if mode != ModeAI {
		return Result{Score: r.sim.Score(ctx, in), Requested: ModeSimulated}
	}

	score, err := r.ResolveAI(ctx, in)
	if err != nil {
		r.logger.Warn("AI scoring failed, falling back to simulated scoring", zap.Error(err))
		return Result{
			Score:          r.sim.Score(ctx, in),
			Requested:      ModeAI,
			Fallback:       true,
			FallbackReason: err,
		}
	}

	return Result{Score: score, Requested: ModeAI}
}

// ResolveAI asks the AI endpoint for scores. The reply is parsed best-effort
// so only transport-level problems produce an error.
func (r *Resolver) ResolveAI(ctx context.Context, in dispute.Input) (Score, error) {
	if r.ai == nil {
		return Score{}, ErrNotConfigured
	}

	reply, err := r.ai.Complete(ctx, buildSystemPrompt(in, r.labels), buildUserPrompt(in, r.labels))
	if err != nil {
		return Score{}, fmt.Errorf("request scores: %w", err)
	}

	parsed := ParseReply(reply)
	r.logger.Debug("AI reply parsed",
		zap.Int("score_a", parsed.A),
		zap.Int("score_b", parsed.B),
		zap.Int("reply_len", len(reply)),
	)

	return Score{
		A:        parsed.A,
		B:        parsed.B,
		Analysis: parsed.Analysis,
		Mode:     ModeAI,
	}, nil
}

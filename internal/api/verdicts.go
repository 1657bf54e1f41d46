package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/todmy/hamster-court/internal/dispute"
	"github.com/todmy/hamster-court/internal/judge"
	"github.com/todmy/hamster-court/internal/seal"
	"github.com/todmy/hamster-court/internal/verdict"
	"github.com/todmy/hamster-court/pkg/models"
)

const (
	warningNotConfigured = "未配置 AI 接口，已使用模拟裁决"
	warningAIFailed      = "AI 调用失败，已使用模拟裁决"
)

// judgement is one resolved, rendered and sealed dispute
type judgement struct {
	result judge.Result
	doc    verdict.Document
	seal   string
}

// resolveMode maps the requested mode onto a judge.Mode. An empty request
// picks AI when a client is wired in.
func resolveMode(resolver *judge.Resolver, raw string) (judge.Mode, error) {
	if strings.TrimSpace(raw) == "" {
		if resolver.AIAvailable() {
			return judge.ModeAI, nil
		}
		return judge.ModeSimulated, nil
	}
	return judge.ParseMode(raw)
}

// decide runs a validated input through the resolver, renderer and sealer
func (s *Server) decide(ctx context.Context, resolver *judge.Resolver, in dispute.Input, mode judge.Mode) (judgement, error) {
	res := resolver.Resolve(ctx, in, mode)
	doc := s.renderer.Render(in, res)

	token, err := s.sealer.Seal(doc)
	if err != nil {
		return judgement{}, fmt.Errorf("seal verdict %s: %w", doc.CaseID, err)
	}

	s.logger.Info("verdict issued",
		zap.String("case_id", doc.CaseID),
		zap.String("requested_mode", string(res.Requested)),
		zap.String("mode", string(res.Mode)),
		zap.Bool("fallback", res.Fallback),
		zap.String("winner", string(doc.Winner)),
	)

	return judgement{result: res, doc: doc, seal: token}, nil
}

// fallbackWarning is the user-facing notice for a degraded verdict. The
// underlying error is only logged.
func fallbackWarning(res judge.Result) string {
	if !res.Fallback {
		return ""
	}
	if errors.Is(res.FallbackReason, judge.ErrNotConfigured) {
		return warningNotConfigured
	}
	return warningAIFailed
}

func validationMessage(err error) string {
	var verr *dispute.ValidationError
	if errors.As(err, &verr) {
		return fmt.Sprintf("请输入%s的陈述内容", partyName(verr.Party))
	}
	return "请输入双方的陈述内容"
}

func partyName(p dispute.Party) string {
	if p == dispute.PartyB {
		return "乙方"
	}
	return "甲方"
}

// handleCreateVerdict scores and renders a dispute submitted as JSON
func (s *Server) handleCreateVerdict(w http.ResponseWriter, r *http.Request) {
	var req models.VerdictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	mode, err := resolveMode(s.resolver, req.Mode)
	if err != nil {
		respondError(w, http.StatusBadRequest, "mode must be simulated or ai")
		return
	}

	in, err := toInput(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := in.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, validationMessage(err))
		return
	}

	j, err := s.decide(r.Context(), s.resolver, in, mode)
	if err != nil {
		s.logger.Error("failed to issue verdict", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to issue verdict")
		return
	}

	respondJSON(w, http.StatusOK, toVerdictResponse(j))
}

// handleVerifySeal checks a seal taken from the body or the Authorization header
func (s *Server) handleVerifySeal(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token := strings.TrimSpace(req.Seal)
	if token == "" {
		token = seal.FromRequest(r)
	}
	if token == "" {
		respondError(w, http.StatusBadRequest, "seal is required")
		return
	}

	claims, err := s.sealer.Verify(token)
	if err != nil {
		s.logger.Debug("seal rejected", zap.Error(err))
		respondError(w, http.StatusUnauthorized, "invalid seal")
		return
	}

	respondJSON(w, http.StatusOK, models.SealClaims{
		CaseID:    claims.CaseID,
		PercentA:  claims.PercentA,
		PercentB:  claims.PercentB,
		Winner:    string(claims.Winner),
		Mode:      claims.Mode,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	})
}

func toInput(req models.VerdictRequest) (dispute.Input, error) {
	bgA, err := toBackground(req.BackgroundA)
	if err != nil {
		return dispute.Input{}, fmt.Errorf("background_a: %w", err)
	}
	bgB, err := toBackground(req.BackgroundB)
	if err != nil {
		return dispute.Input{}, fmt.Errorf("background_b: %w", err)
	}

	return dispute.Input{
		StatementA:       req.StatementA,
		StatementB:       req.StatementB,
		LabelA:           req.LabelA,
		LabelB:           req.LabelB,
		BackgroundA:      bgA,
		BackgroundB:      bgB,
		CriteriaOverride: req.Criteria,
	}, nil
}

func toBackground(b *models.Background) (*dispute.Background, error) {
	if b == nil {
		return nil, nil
	}

	pt, err := dispute.ParsePersonalityType(b.PersonalityType)
	if err != nil {
		return nil, err
	}

	return &dispute.Background{
		Name:             b.Name,
		PersonalityType:  pt,
		PersonalityNotes: b.PersonalityNotes,
		History:          b.History,
	}, nil
}

func toVerdictResponse(j judgement) models.Verdict {
	return models.Verdict{
		ID:            uuid.NewString(),
		CaseID:        j.doc.CaseID,
		IssuedAt:      j.doc.IssuedAt,
		Judge:         j.doc.Judge,
		Mode:          string(j.result.Mode),
		RequestedMode: string(j.result.Requested),
		ModeLabel:     j.doc.ModeLabel,
		Fallback:      j.result.Fallback,
		Warning:       fallbackWarning(j.result),
		LabelA:        j.doc.LabelA,
		LabelB:        j.doc.LabelB,
		ScoreA:        j.result.A,
		ScoreB:        j.result.B,
		PercentA:      j.doc.PercentA,
		PercentB:      j.doc.PercentB,
		Winner:        string(j.doc.Winner),
		WinnerLine:    j.doc.WinnerLine,
		Analysis:      j.result.Analysis,
		Advice:        j.doc.Advice,
		Markdown:      j.doc.Markdown,
		Seal:          j.seal,
	}
}

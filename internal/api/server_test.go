package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/todmy/hamster-court/internal/dispute"
	"github.com/todmy/hamster-court/internal/judge"
	"github.com/todmy/hamster-court/internal/seal"
	"github.com/todmy/hamster-court/internal/verdict"
	"github.com/todmy/hamster-court/pkg/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var fixedNow = time.Date(2026, 10, 16, 20, 30, 5, 0, time.UTC)

// constDrawer always draws the same offset
type constDrawer int

func (d constDrawer) Draw(lo, hi int) int { return int(d) }

type stubCompleter struct {
	reply string
	err   error
}

func (s *stubCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	return s.reply, s.err
}

type testServer struct {
	*Server
	sealer *seal.Sealer
}

// newTestServer builds a server with a deterministic simulator. A nil ai
// leaves the AI strategy unconfigured.
func newTestServer(t *testing.T, ai judge.Completer) testServer {
	t.Helper()

	sealer, err := seal.NewSealer(seal.Config{Secret: "test-secret", Validity: time.Hour})
	require.NoError(t, err)

	resolver := judge.NewResolver(judge.NewSimulator(constDrawer(40), 0), ai, dispute.SchemeParties, nil)
	srv := NewServer(ServerConfig{
		Resolver:       resolver,
		Renderer:       verdict.NewRenderer(dispute.SchemeParties, verdict.WithClock(func() time.Time { return fixedNow })),
		Sealer:         sealer,
		AllowedOrigins: []string{"http://localhost:*"},
	})
	return testServer{Server: srv, sealer: sealer}
}

func (ts testServer) do(t *testing.T, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeVerdict(t *testing.T, rec *httptest.ResponseRecorder) models.Verdict {
	t.Helper()

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var v models.Verdict
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","ai_available":false}`, rec.Body.String())
}

func TestPersonalityTypes(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/api/v1/personality-types", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var types []models.PersonalityType
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&types))
	require.Len(t, types, 17)
	assert.Equal(t, models.PersonalityType{Code: "INTJ", Label: "INTJ 建筑师"}, types[0])
	assert.Equal(t, "unspecified", types[16].Code)
}

func TestCreateVerdict_Simulated(t *testing.T) {
	ts := newTestServer(t, &stubCompleter{reply: "【甲方得分】：99分"})

	rec := ts.do(t, http.MethodPost, "/api/v1/verdicts",
		`{"statement_a":"abc","statement_b":"abcdefghij","mode":"simulated"}`, nil)
	v := decodeVerdict(t, rec)

	assert.Equal(t, "HC-1792182605", v.CaseID)
	assert.Equal(t, "simulated", v.Mode)
	assert.Equal(t, "simulated", v.RequestedMode)
	assert.False(t, v.Fallback)
	assert.Empty(t, v.Warning)
	assert.Equal(t, 43, v.ScoreA)
	assert.Equal(t, 50, v.ScoreB)
	assert.Equal(t, 46, v.PercentA)
	assert.Equal(t, 54, v.PercentB)
	assert.Equal(t, "B", v.Winner)
	assert.Equal(t, "🎉 乙方占理 54% - 胜诉！", v.WinnerLine)
	assert.Len(t, v.Advice, 5)
	assert.NotEmpty(t, v.ID)

	claims, err := ts.sealer.Verify(v.Seal)
	require.NoError(t, err)
	assert.Equal(t, v.CaseID, claims.CaseID)
	assert.Equal(t, verdict.WinnerB, claims.Winner)
}

func TestCreateVerdict_AI(t *testing.T) {
	reply := "【甲方得分】：80分\n【乙方得分】：20分\n详细分析：甲方更讲道理。"
	ts := newTestServer(t, &stubCompleter{reply: reply})

	rec := ts.do(t, http.MethodPost, "/api/v1/verdicts", `{
		"statement_a": "你总是不回消息",
		"statement_b": "我在忙",
		"background_a": {"name": "小红", "personality_type": "enfp"},
		"mode": "ai"
	}`, nil)
	v := decodeVerdict(t, rec)

	assert.Equal(t, "ai", v.Mode)
	assert.False(t, v.Fallback)
	assert.Equal(t, 80, v.PercentA)
	assert.Equal(t, "小红", v.LabelA)
	assert.Equal(t, "🎉 小红占理 80% - 胜诉！", v.WinnerLine)
	assert.Equal(t, reply, v.Analysis)
	assert.Empty(t, v.Advice)
	assert.Contains(t, v.Markdown, "AI 智能裁决")
}

func TestCreateVerdict_DefaultMode(t *testing.T) {
	ts := newTestServer(t, &stubCompleter{reply: "【甲方得分】：10分\n【乙方得分】：30分"})
	v := decodeVerdict(t, ts.do(t, http.MethodPost, "/api/v1/verdicts",
		`{"statement_a":"a","statement_b":"b"}`, nil))
	assert.Equal(t, "ai", v.RequestedMode)
	assert.Equal(t, 25, v.PercentA)

	ts = newTestServer(t, nil)
	v = decodeVerdict(t, ts.do(t, http.MethodPost, "/api/v1/verdicts",
		`{"statement_a":"a","statement_b":"b"}`, nil))
	assert.Equal(t, "simulated", v.RequestedMode)
	assert.False(t, v.Fallback)
}

func TestCreateVerdict_Fallback(t *testing.T) {
	tests := []struct {
		name    string
		ai      judge.Completer
		warning string
	}{
		{"not configured", nil, warningNotConfigured},
		{"ai failure", &stubCompleter{err: errors.New("connection reset")}, warningAIFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.ai)

			v := decodeVerdict(t, ts.do(t, http.MethodPost, "/api/v1/verdicts",
				`{"statement_a":"abc","statement_b":"abcdefghij","mode":"ai"}`, nil))

			assert.True(t, v.Fallback)
			assert.Equal(t, tt.warning, v.Warning)
			assert.Equal(t, "simulated", v.Mode)
			assert.Equal(t, "ai", v.RequestedMode)
			assert.Equal(t, "模拟裁决（AI 不可用，已降级）", v.ModeLabel)
			assert.Equal(t, 46, v.PercentA)
			assert.NotContains(t, v.Warning, "connection reset")
		})
	}
}

func TestCreateVerdict_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"malformed json", `{"statement_a":`, http.StatusBadRequest, "invalid request body"},
		{"unknown mode", `{"statement_a":"a","statement_b":"b","mode":"coin"}`, http.StatusBadRequest, "mode must be simulated or ai"},
		{"unknown personality", `{"statement_a":"a","statement_b":"b","background_b":{"personality_type":"XXXX"}}`, http.StatusBadRequest, ""},
		{"empty a", `{"statement_a":"  ","statement_b":"b"}`, http.StatusUnprocessableEntity, "请输入甲方的陈述内容"},
		{"empty b", `{"statement_a":"a"}`, http.StatusUnprocessableEntity, "请输入乙方的陈述内容"},
	}

	ts := newTestServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/api/v1/verdicts", tt.body, nil)
			require.Equal(t, tt.status, rec.Code)

			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			if tt.message != "" {
				assert.Equal(t, tt.message, body["error"])
			} else {
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}

func TestVerifySeal(t *testing.T) {
	ts := newTestServer(t, nil)
	v := decodeVerdict(t, ts.do(t, http.MethodPost, "/api/v1/verdicts",
		`{"statement_a":"abc","statement_b":"abcdefghij"}`, nil))

	t.Run("body", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/verdicts/verify", `{"seal":"`+v.Seal+`"}`, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var claims models.SealClaims
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&claims))
		assert.Equal(t, v.CaseID, claims.CaseID)
		assert.Equal(t, 46, claims.PercentA)
		assert.Equal(t, 54, claims.PercentB)
		assert.Equal(t, "B", claims.Winner)
		assert.Equal(t, "simulated", claims.Mode)
		assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
	})

	t.Run("bearer header", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/verdicts/verify", "", map[string]string{
			"Authorization": "Bearer " + v.Seal,
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("tampered", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/verdicts/verify", `{"seal":"`+v.Seal+`x"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("foreign court", func(t *testing.T) {
		other, err := seal.NewSealer(seal.Config{Secret: "another-secret"})
		require.NoError(t, err)
		token, err := other.Seal(verdict.Document{CaseID: "HC-1"})
		require.NoError(t, err)

		rec := ts.do(t, http.MethodPost, "/api/v1/verdicts/verify", `{"seal":"`+token+`"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/verdicts/verify", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodOptions, "/api/v1/verdicts", "", map[string]string{
		"Origin":                        "http://localhost:3000",
		"Access-Control-Request-Method": "POST",
	})

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

package api

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"

	"github.com/todmy/hamster-court/internal/dispute"
	"github.com/todmy/hamster-court/internal/judge"
	"github.com/todmy/hamster-court/pkg/models"
)

//go:embed templates/*.html
var templateFS embed.FS

type pages struct {
	form     *template.Template
	verdict  *template.Template
	markdown goldmark.Markdown
}

func loadPages() *pages {
	return &pages{
		form:    template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/form.html")),
		verdict: template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/verdict.html")),
		// Raw HTML in statements is dropped by goldmark's default renderer
		markdown: goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps())),
	}
}

// formValues echoes the submitted form back on a validation error
type formValues struct {
	StatementA string
	StatementB string
	LabelA     string
	LabelB     string
	NameA      string
	NameB      string
	MBTIA      string
	MBTIB      string
	NotesA     string
	NotesB     string
	HistoryA   string
	HistoryB   string
	Criteria   string
	Mode       string
}

type formPage struct {
	Error            string
	Form             formValues
	PersonalityTypes []models.PersonalityType
	AIAvailable      bool
	DefaultCriteria  string
}

type verdictPage struct {
	CaseID  string
	Warning string
	Body    template.HTML
	Seal    string
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	mode := judge.ModeSimulated
	if s.formResolver.AIAvailable() {
		mode = judge.ModeAI
	}
	s.renderForm(w, http.StatusOK, "", formValues{
		MBTIA: dispute.UnspecifiedLabel,
		MBTIB: dispute.UnspecifiedLabel,
		Mode:  string(mode),
	})
}

// handleSubmitForm judges a dispute posted from the HTML form
func (s *Server) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderForm(w, http.StatusBadRequest, "无法解析表单", formValues{})
		return
	}
	values := readForm(r)

	mode, err := resolveMode(s.formResolver, values.Mode)
	if err != nil {
		s.renderForm(w, http.StatusBadRequest, "请选择裁决模式", values)
		return
	}

	in, err := values.input()
	if err != nil {
		s.renderForm(w, http.StatusBadRequest, "未知的 MBTI 类型", values)
		return
	}

	if err := in.Validate(); err != nil {
		s.renderForm(w, http.StatusUnprocessableEntity, "⚠️ "+validationMessage(err)+"！", values)
		return
	}

	j, err := s.decide(r.Context(), s.formResolver, in, mode)
	if err != nil {
		s.logger.Error("failed to issue verdict", zap.Error(err))
		http.Error(w, "failed to issue verdict", http.StatusInternalServerError)
		return
	}

	var body bytes.Buffer
	if err := s.pages.markdown.Convert([]byte(j.doc.Markdown), &body); err != nil {
		s.logger.Error("failed to convert verdict markdown", zap.String("case_id", j.doc.CaseID), zap.Error(err))
		http.Error(w, "failed to render verdict", http.StatusInternalServerError)
		return
	}

	s.renderPage(w, http.StatusOK, s.pages.verdict, verdictPage{
		CaseID:  j.doc.CaseID,
		Warning: fallbackWarning(j.result),
		Body:    template.HTML(body.String()),
		Seal:    j.seal,
	})
}

func (s *Server) renderForm(w http.ResponseWriter, status int, message string, values formValues) {
	s.renderPage(w, status, s.pages.form, formPage{
		Error:            message,
		Form:             values,
		PersonalityTypes: personalityCatalogue(),
		AIAvailable:      s.formResolver.AIAvailable(),
		DefaultCriteria:  judge.DefaultCriteria,
	})
}

func (s *Server) renderPage(w http.ResponseWriter, status int, tmpl *template.Template, data interface{}) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		s.logger.Error("failed to render page", zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func readForm(r *http.Request) formValues {
	return formValues{
		StatementA: r.PostFormValue("statement_a"),
		StatementB: r.PostFormValue("statement_b"),
		LabelA:     r.PostFormValue("label_a"),
		LabelB:     r.PostFormValue("label_b"),
		NameA:      r.PostFormValue("name_a"),
		NameB:      r.PostFormValue("name_b"),
		MBTIA:      r.PostFormValue("mbti_a"),
		MBTIB:      r.PostFormValue("mbti_b"),
		NotesA:     r.PostFormValue("notes_a"),
		NotesB:     r.PostFormValue("notes_b"),
		HistoryA:   r.PostFormValue("history_a"),
		HistoryB:   r.PostFormValue("history_b"),
		Criteria:   r.PostFormValue("criteria"),
		Mode:       r.PostFormValue("mode"),
	}
}

func (v formValues) input() (dispute.Input, error) {
	ptA, err := dispute.ParsePersonalityType(v.MBTIA)
	if err != nil {
		return dispute.Input{}, err
	}
	ptB, err := dispute.ParsePersonalityType(v.MBTIB)
	if err != nil {
		return dispute.Input{}, err
	}

	return dispute.Input{
		StatementA: v.StatementA,
		StatementB: v.StatementB,
		LabelA:     dispute.Some(v.LabelA),
		LabelB:     dispute.Some(v.LabelB),
		BackgroundA: &dispute.Background{
			Name:             dispute.Some(v.NameA),
			PersonalityType:  ptA,
			PersonalityNotes: dispute.Some(v.NotesA),
			History:          dispute.Some(v.HistoryA),
		},
		BackgroundB: &dispute.Background{
			Name:             dispute.Some(v.NameB),
			PersonalityType:  ptB,
			PersonalityNotes: dispute.Some(v.NotesB),
			History:          dispute.Some(v.HistoryB),
		},
		CriteriaOverride: dispute.Some(v.Criteria),
	}, nil
}

// Package render turns quiz categories into static HTML pages.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"github.com/p-n-ai/quizgen/internal/quiz"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("pages").ParseFS(templateFS, "templates/*.tmpl"))

// Renderer renders index and category pages.
type Renderer struct {
	liveReload bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLiveReload adds the dev server's live reload script to every page.
func WithLiveReload() Option {
	return func(r *Renderer) {
		r.liveReload = true
	}
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type indexPage struct {
	LiveReload bool
	Categories []indexLink
}

type indexLink struct {
	Href  string
	Title Text
}

type categoryPage struct {
	LiveReload bool
	Title      Text
	Questions  []questionView
}

type questionView struct {
	Index   int
	Text    Text
	Answers []answerView
}

type answerView struct {
	Index   int
	Text    Text
	Correct bool
}

// IndexHTML renders the index page with one link per category.
func (r *Renderer) IndexHTML(categories []quiz.Category) (string, error) {
	page := indexPage{
		LiveReload: r.liveReload,
		Categories: make([]indexLink, 0, len(categories)),
	}
	for _, c := range categories {
		page.Categories = append(page.Categories, indexLink{
			Href:  c.PageName(),
			Title: Escape(c.Title),
		})
	}
	return execute("index", page)
}

// CategoryHTML renders the quiz page of a category. It returns false when the
// category has no content or no questions list. Questions that cannot be
// rendered are logged and left out; the rest of the page still renders.
func (r *Renderer) CategoryHTML(c quiz.Category) (string, bool) {
	if c.Content == nil || c.Content.Questions == nil {
		slog.Error("no content found for category", "title", c.Title, "file", c.File)
		return "", false
	}

	page := categoryPage{
		LiveReload: r.liveReload,
		Title:      Escape(c.Title),
		Questions:  make([]questionView, 0, len(c.Content.Questions)),
	}
	for i, q := range c.Content.Questions {
		if err := q.Err(); err != nil {
			slog.Error("skipping question", "title", c.Title, "question", i, "error", err)
			continue
		}
		page.Questions = append(page.Questions, newQuestionView(i, q))
	}

	html, err := execute("category", page)
	if err != nil {
		slog.Error("failed to render category", "title", c.Title, "error", err)
		return "", false
	}
	return html, true
}

func newQuestionView(index int, q quiz.Question) questionView {
	v := questionView{
		Index:   index,
		Text:    Escape(q.Question),
		Answers: make([]answerView, 0, len(q.Answers)),
	}
	for i, a := range q.Answers {
		v.Answers = append(v.Answers, answerView{
			Index:   i,
			Text:    Escape(a.Answer),
			Correct: a.Correct,
		})
	}
	return v
}

func execute(name string, data any) (string, error) {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("executing %s template: %w", name, err)
	}
	return b.String(), nil
}

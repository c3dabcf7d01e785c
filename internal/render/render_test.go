package render_test

import (
	"strings"
	"testing"

	"github.com/p-n-ai/quizgen/internal/quiz"
	"github.com/p-n-ai/quizgen/internal/render"
)

func TestIndexHTML_Empty(t *testing.T) {
	got, err := render.New().IndexHTML(nil)
	if err != nil {
		t.Fatalf("IndexHTML() error = %v", err)
	}

	if !strings.Contains(got, "<title>Quiz Index</title>") {
		t.Error("IndexHTML() missing Quiz Index title")
	}
	if strings.Contains(got, "<li>") {
		t.Error("IndexHTML(nil) should not contain list items")
	}
	if !strings.Contains(got, "<ul>") {
		t.Error("IndexHTML(nil) should still contain an empty list")
	}
}

func TestIndexHTML_Links(t *testing.T) {
	categories := []quiz.Category{
		{Title: "title1", File: "file1.json"},
		{Title: "title2", File: "file2.json"},
	}

	got, err := render.New().IndexHTML(categories)
	if err != nil {
		t.Fatalf("IndexHTML() error = %v", err)
	}

	for _, want := range []string{
		"<title>Quiz Index</title>",
		`<a href="file1.html">title1</a>`,
		`<a href="file2.html">title2</a>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("IndexHTML() missing %q", want)
		}
	}
	if n := strings.Count(got, "<li>"); n != 2 {
		t.Errorf("IndexHTML() has %d list items, want 2", n)
	}
}

func TestIndexHTML_EscapesTitle(t *testing.T) {
	got, err := render.New().IndexHTML([]quiz.Category{{Title: "<script>x</script>", File: "f.json"}})
	if err != nil {
		t.Fatalf("IndexHTML() error = %v", err)
	}

	if strings.Contains(got, "<script>x</script>") {
		t.Error("IndexHTML() left category title unescaped")
	}
	if !strings.Contains(got, "&lt;script&gt;x&lt;/script&gt;") {
		t.Error("IndexHTML() missing escaped category title")
	}
	if !strings.Contains(got, `<a href="f.html">`) {
		t.Error(`IndexHTML() missing <a href="f.html">`)
	}
}

func TestCategoryHTML_NoContent(t *testing.T) {
	r := render.New()

	tests := []struct {
		name     string
		category quiz.Category
	}{
		{"no content", quiz.Category{Title: "T"}},
		{"no questions", quiz.Category{Title: "T", Content: &quiz.Content{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.CategoryHTML(tt.category)
			if ok || got != "" {
				t.Errorf("CategoryHTML() = (%q, %v), want (\"\", false)", got, ok)
			}
		})
	}
}

func TestCategoryHTML(t *testing.T) {
	category := quiz.Category{
		Title: "title1",
		File:  "title1.json",
		Content: &quiz.Content{Questions: []quiz.Question{
			{
				Question: "question1",
				Answers: []quiz.Answer{
					{Answer: "answer1", Correct: true},
					{Answer: "answer2", Correct: false},
				},
			},
		}},
	}

	got, ok := render.New().CategoryHTML(category)
	if !ok {
		t.Fatal("CategoryHTML() ok = false, want true")
	}

	for _, want := range []string{
		"title1 Questions",
		"question1",
		"answer1",
		"answer2",
		`<form id="quiz-form">`,
		`class="questionDiv"`,
		`name="question0"`,
		`value="0"`,
		`value="1"`,
		`id="submitButton"`,
		`type="button" disabled>`,
		`<script src="main.js" defer></script>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("CategoryHTML() missing %q", want)
		}
	}
	if n := strings.Count(got, `data-is-correct="true"`); n != 1 {
		t.Errorf(`CategoryHTML() has %d data-is-correct="true", want 1`, n)
	}
	if n := strings.Count(got, `data-is-correct="false"`); n != 1 {
		t.Errorf(`CategoryHTML() has %d data-is-correct="false", want 1`, n)
	}
	if strings.Contains(got, "livereload.js") {
		t.Error("CategoryHTML() includes live reload script without WithLiveReload")
	}
}

func TestCategoryHTML_EscapesText(t *testing.T) {
	category := quiz.Category{
		Title: "HTML & CSS",
		Content: &quiz.Content{Questions: []quiz.Question{
			{
				Question: "What does <p> do?",
				Answers: []quiz.Answer{
					{Answer: `Makes a "paragraph"`, Correct: true},
					{Answer: "It's a pre tag", Correct: false},
				},
			},
		}},
	}

	got, ok := render.New().CategoryHTML(category)
	if !ok {
		t.Fatal("CategoryHTML() ok = false, want true")
	}

	for _, want := range []string{
		"HTML &amp; CSS Questions",
		"What does &lt;p&gt; do?",
		"Makes a &quot;paragraph&quot;",
		"It&#039;s a pre tag",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("CategoryHTML() missing %q", want)
		}
	}
	if strings.Contains(got, "<p>") {
		t.Error("CategoryHTML() left question text unescaped")
	}
}

func TestCategoryHTML_EmptyAnswers(t *testing.T) {
	category := quiz.Category{
		Title: "T",
		Content: &quiz.Content{Questions: []quiz.Question{
			{Question: "Anything?", Answers: []quiz.Answer{}},
		}},
	}

	got, ok := render.New().CategoryHTML(category)
	if !ok {
		t.Fatal("CategoryHTML() ok = false, want true")
	}
	if !strings.Contains(got, "Anything?") {
		t.Error("CategoryHTML() missing question text")
	}
	if strings.Contains(got, `type="radio"`) {
		t.Error("CategoryHTML() rendered options for a question without answers")
	}
}

func TestCategoryHTML_SkipsBrokenQuestion(t *testing.T) {
	v, err := quiz.NewValidator(nil, "")
	if err != nil {
		t.Fatalf("NewValidator() error = %v", err)
	}
	content := v.DecodeContent(map[string]any{
		"questions": []any{
			map[string]any{"question": "broken"},
			map[string]any{
				"question": "working",
				"answers": []any{
					map[string]any{"answer": "yes", "correct": true},
				},
			},
		},
	})

	got, ok := render.New().CategoryHTML(quiz.Category{Title: "T", Content: content})
	if !ok {
		t.Fatal("CategoryHTML() ok = false, want true")
	}
	if strings.Contains(got, "broken") {
		t.Error("CategoryHTML() rendered a broken question")
	}
	if !strings.Contains(got, "working") {
		t.Error("CategoryHTML() dropped a valid question")
	}
	if n := strings.Count(got, `class="questionDiv"`); n != 1 {
		t.Errorf("CategoryHTML() has %d questions, want 1", n)
	}
	if !strings.Contains(got, `name="question1"`) {
		t.Error("CategoryHTML() should keep the source question index in input names")
	}
}

func TestWithLiveReload(t *testing.T) {
	got, err := render.New(render.WithLiveReload()).IndexHTML(nil)
	if err != nil {
		t.Fatalf("IndexHTML() error = %v", err)
	}
	if !strings.Contains(got, `<script src="/livereload.js" defer></script>`) {
		t.Error("IndexHTML() missing live reload script")
	}
}

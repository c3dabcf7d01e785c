package export

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/quizgen/internal/quiz"
)

func TestWriteWorkbook(t *testing.T) {
	categories := []quiz.Category{
		{
			Title: "HTML",
			File:  "html.json",
			Content: &quiz.Content{Questions: []quiz.Question{
				{
					Question: "What does HTML stand for?",
					Answers: []quiz.Answer{
						{Answer: "HyperText Markup Language", Correct: true},
						{Answer: "Home Tool Markup Language", Correct: false},
					},
				},
				{Question: "Open question", Answers: []quiz.Answer{}},
			}},
		},
		{
			Title:   "CSS",
			File:    "css.json",
			Content: &quiz.Content{Questions: []quiz.Question{}},
		},
	}

	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, categories); err != nil {
		t.Fatalf("WriteWorkbook() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "HTML" || sheets[1] != "CSS" {
		t.Fatalf("GetSheetList() = %v, want [HTML CSS]", sheets)
	}

	rows, err := f.GetRows("HTML")
	if err != nil {
		t.Fatalf("GetRows(HTML) error = %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("HTML sheet has %d rows, want 4 (header + 2 answers + 1 open question)", len(rows))
	}
	if strings.Join(rows[0], ",") != "#,Question,Answer,Correct" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "1" || rows[1][2] != "HyperText Markup Language" || rows[1][3] != "TRUE" {
		t.Errorf("row 2 = %v", rows[1])
	}
	if rows[2][3] != "FALSE" {
		t.Errorf("row 3 = %v, want FALSE correct flag", rows[2])
	}
	if rows[3][0] != "2" || rows[3][1] != "Open question" {
		t.Errorf("row 4 = %v", rows[3])
	}

	cssRows, err := f.GetRows("CSS")
	if err != nil {
		t.Fatalf("GetRows(CSS) error = %v", err)
	}
	if len(cssRows) != 1 {
		t.Errorf("CSS sheet has %d rows, want header only", len(cssRows))
	}
}

func TestWriteWorkbook_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, nil); err != nil {
		t.Fatalf("WriteWorkbook() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != emptySheet {
		t.Errorf("GetSheetList() = %v, want [%s]", sheets, emptySheet)
	}
}

func TestSheetNamer(t *testing.T) {
	n := newSheetNamer()

	tests := []struct {
		title string
		want  string
	}{
		{"HTML", "HTML"},
		{"html", "html (2)"},
		{"A/B: C?", "A_B_ C_"},
		{"", "Sheet"},
		{"'quoted'", "quoted"},
	}

	for _, tt := range tests {
		if got := n.next(tt.title); got != tt.want {
			t.Errorf("next(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}

	long := strings.Repeat("x", 40)
	first := n.next(long)
	second := n.next(long)
	if utf8.RuneCountInString(first) != maxSheetName || utf8.RuneCountInString(second) != maxSheetName {
		t.Errorf("long names = %q, %q, want %d runes each", first, second, maxSheetName)
	}
	if first == second {
		t.Errorf("long names should be unique, both = %q", first)
	}
}

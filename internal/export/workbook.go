// Package export writes the built quiz bank to an Excel workbook.
package export

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"

	"github.com/p-n-ai/quizgen/internal/quiz"
)

const (
	defaultSheet = "Sheet1"
	emptySheet   = "Quizzes"
	maxSheetName = 31
)

var header = []any{"#", "Question", "Answer", "Correct"}

var sheetNameReplacer = strings.NewReplacer(
	":", "_", `\`, "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_",
)

// WriteWorkbook writes one sheet per category to w. Each answer is one row;
// a question without answers gets a single row with an empty answer.
// Questions that failed validation are left out.
func WriteWorkbook(w io.Writer, categories []quiz.Category) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	if len(categories) == 0 {
		if err := f.SetSheetName(defaultSheet, emptySheet); err != nil {
			return fmt.Errorf("renaming default sheet: %w", err)
		}
		return write(f, w)
	}

	names := newSheetNamer()
	for i, c := range categories {
		sheet := names.next(c.Title)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				return fmt.Errorf("renaming default sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("creating sheet %q: %w", sheet, err)
		}

		if err := writeCategory(f, sheet, bold, c); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	return write(f, w)
}

func writeCategory(f *excelize.File, sheet string, headerStyle int, c quiz.Category) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header for %q: %w", sheet, err)
	}
	if err := f.SetCellStyle(sheet, "A1", "D1", headerStyle); err != nil {
		return fmt.Errorf("styling header for %q: %w", sheet, err)
	}
	if err := f.SetColWidth(sheet, "B", "C", 60); err != nil {
		return fmt.Errorf("sizing columns for %q: %w", sheet, err)
	}

	if c.Content == nil {
		return nil
	}

	row := 2
	for i, q := range c.Content.Questions {
		if q.Err() != nil {
			continue
		}

		rows := make([][]any, 0, max(1, len(q.Answers)))
		for _, a := range q.Answers {
			rows = append(rows, []any{i + 1, q.Question, a.Answer, a.Correct})
		}
		if len(rows) == 0 {
			rows = append(rows, []any{i + 1, q.Question, "", nil})
		}

		for _, values := range rows {
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return fmt.Errorf("writing row %d of %q: %w", row, sheet, err)
			}
			row++
		}
	}
	return nil
}

func write(f *excelize.File, w io.Writer) error {
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// sheetNamer produces valid, case-insensitively unique sheet names.
type sheetNamer struct {
	fold cases.Caser
	used map[string]bool
}

func newSheetNamer() *sheetNamer {
	return &sheetNamer{
		fold: cases.Fold(),
		used: make(map[string]bool),
	}
}

func (n *sheetNamer) next(title string) string {
	base := strings.Trim(sheetNameReplacer.Replace(strings.TrimSpace(title)), "'")
	if base == "" {
		base = "Sheet"
	}
	base = truncate(base, maxSheetName)

	name := base
	for i := 2; n.used[n.fold.String(name)]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		name = truncate(base, maxSheetName-len(suffix)) + suffix
	}
	n.used[n.fold.String(name)] = true
	return name
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

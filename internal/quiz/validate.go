package quiz

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/afero"
	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/text/unicode/norm"
)

//go:embed schema/*.json
var schemaFS embed.FS

var (
	// ErrInvalidShape is returned when a JSON value does not match its schema.
	ErrInvalidShape = errors.New("invalid shape")
	// ErrMultipleCorrect is returned for a question with more than one correct answer.
	ErrMultipleCorrect = errors.New("more than one answer marked correct")
	// ErrNoCorrect is returned for a question whose answers have no correct one.
	ErrNoCorrect = errors.New("no answer marked correct")
)

// Validator checks untrusted index entries and category documents.
type Validator struct {
	fs      afero.Fs
	dataDir string

	indexEntry *gojsonschema.Schema
	question   *gojsonschema.Schema
}

// NewValidator creates a validator resolving category files under dataDir on fs.
func NewValidator(fs afero.Fs, dataDir string) (*Validator, error) {
	indexEntry, err := loadSchema("index_entry.json")
	if err != nil {
		return nil, err
	}
	question, err := loadSchema("question.json")
	if err != nil {
		return nil, err
	}

	return &Validator{
		fs:         fs,
		dataDir:    dataDir,
		indexEntry: indexEntry,
		question:   question,
	}, nil
}

func loadSchema(name string) (*gojsonschema.Schema, error) {
	data, err := schemaFS.ReadFile("schema/" + name)
	if err != nil {
		return nil, fmt.Errorf("reading schema %s: %w", name, err)
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("compiling schema %s: %w", name, err)
	}
	return s, nil
}

// ValidateIndexEntry reports whether entry has a non-empty string title and
// file, and whether file names a readable regular file directly inside the
// data directory. It never panics; every failure is reported as false.
func (v *Validator) ValidateIndexEntry(entry any) bool {
	if err := validate(v.indexEntry, entry); err != nil {
		slog.Warn("invalid index entry", "entry", entry, "error", err)
		return false
	}

	m, ok := entry.(map[string]any)
	if !ok {
		return false
	}
	file, ok := m["file"].(string)
	if !ok {
		return false
	}

	if !filepath.IsLocal(file) {
		slog.Warn("index entry points outside the data directory", "file", file)
		return false
	}
	// Pages are written flat next to the shared site assets.
	if strings.ContainsAny(file, `/\`) {
		slog.Warn("index entry file is in a subdirectory", "file", file)
		return false
	}

	path := filepath.Join(v.dataDir, file)
	f, err := v.fs.Open(path)
	if err != nil {
		slog.Warn("index entry file is not accessible", "path", path, "error", err)
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		slog.Warn("index entry file is not a regular file", "path", path, "error", err)
		return false
	}
	return true
}

// DecodeIndexEntry converts a validated index entry into an IndexEntry.
// Title is normalized to NFC; File is kept byte for byte so it still names
// the file that was validated.
func DecodeIndexEntry(entry any) (IndexEntry, error) {
	var e IndexEntry
	if err := decode(entry, &e); err != nil {
		return IndexEntry{}, fmt.Errorf("decoding index entry: %w", err)
	}
	if m, ok := entry.(map[string]any); ok {
		if file, ok := m["file"].(string); ok {
			e.File = file
		}
	}
	return e, nil
}

// DecodeContent converts a category document into Content. Each question is
// checked on its own: a malformed question keeps its slot but carries an
// error (see Question.Err) so the rest of the category stays usable.
// Questions is nil when doc has no questions list.
func (v *Validator) DecodeContent(doc map[string]any) *Content {
	raw, ok := doc["questions"].([]any)
	if !ok {
		return &Content{}
	}

	content := &Content{Questions: make([]Question, 0, len(raw))}
	for _, item := range raw {
		content.Questions = append(content.Questions, v.decodeQuestion(item))
	}
	return content
}

func (v *Validator) decodeQuestion(item any) Question {
	if err := validate(v.question, item); err != nil {
		return Question{err: err}
	}

	var q Question
	if err := decode(item, &q); err != nil {
		return Question{err: fmt.Errorf("decoding question: %w", err)}
	}
	q.err = checkCorrect(q.Answers)
	return q
}

// checkCorrect enforces exactly one correct answer whenever answers exist.
func checkCorrect(answers []Answer) error {
	if len(answers) == 0 {
		return nil
	}
	n := 0
	for _, a := range answers {
		if a.Correct {
			n++
		}
	}
	switch {
	case n == 0:
		return ErrNoCorrect
	case n > 1:
		return fmt.Errorf("%w (%d)", ErrMultipleCorrect, n)
	}
	return nil
}

func validate(schema *gojsonschema.Schema, v any) error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(v))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidShape, strings.Join(msgs, "; "))
}

func decode(in, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.DecodeHookFuncType(normalizeText),
		Result:     out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

// normalizeText brings decoded strings into Unicode NFC.
func normalizeText(from, _ reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	s, ok := data.(string)
	if !ok {
		return data, nil
	}
	return norm.NFC.String(s), nil
}

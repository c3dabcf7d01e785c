package quiz

import (
	"path/filepath"
	"strings"
)

// IndexEntry references one quiz category from the index file.
type IndexEntry struct {
	Title string `json:"title" mapstructure:"title"`
	File  string `json:"file" mapstructure:"file"`
}

// Category is an index entry merged with the contents of its file.
type Category struct {
	Title   string
	File    string
	Content *Content // nil when the file could not be loaded
}

// PageName returns the output page name for the category: File with its
// extension replaced by .html, using forward slashes.
func (c Category) PageName() string {
	return PageName(c.File)
}

// PageName maps a category file name (e.g. "css.json") to its page name ("css.html").
func PageName(file string) string {
	name := strings.TrimSuffix(file, filepath.Ext(file)) + ".html"
	return filepath.ToSlash(name)
}

// Content holds the decoded body of a category file.
type Content struct {
	Questions []Question // nil when the file has no questions list
}

// Question is a single quiz question with its answer choices.
type Question struct {
	Question string   `mapstructure:"question"`
	Answers  []Answer `mapstructure:"answers"`

	err error
}

// Err reports why the question cannot be rendered, or nil if it can.
func (q Question) Err() error {
	return q.err
}

// Answer is one answer choice of a question.
type Answer struct {
	Answer  string `mapstructure:"answer"`
	Correct bool   `mapstructure:"correct"`
}

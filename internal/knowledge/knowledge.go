// Package knowledge loads the static question/answer pairs that are injected
// into every prompt.
package knowledge

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrContextNotFound is returned by Load when the spreadsheet does not exist.
var ErrContextNotFound = errors.New("context file not found")

// Column headers that must be present in the spreadsheet's first row.
const (
	QuestionColumn = "Question"
	AnswerColumn   = "Answer"
)

// QAEntry is a single question/answer row.
type QAEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Block formats the entry the way it appears in the context blob.
func (e QAEntry) Block() string {
	return "Q: " + e.Question + "\nA: " + e.Answer
}

// Base is the knowledge loaded once at process start.
type Base struct {
	Source  string
	Entries []QAEntry
	Context string
}

// Load reads the spreadsheet at path and returns the flattened knowledge base.
// Both .xlsx and .csv files are accepted.
func Load(path string) (*Base, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrContextNotFound, path)
		}
		return nil, fmt.Errorf("accessing context file %s: %w", path, err)
	}

	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSV(path)
	default:
		rows, err = readXLSX(path)
	}
	if err != nil {
		return nil, err
	}

	entries, err := parseRows(rows)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return &Base{
		Source:  path,
		Entries: entries,
		Context: BuildContext(entries),
	}, nil
}

// BuildContext joins one "Q: ...\nA: ..." block per entry with single newlines.
func BuildContext(entries []QAEntry) string {
	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		blocks = append(blocks, e.Block())
	}
	return strings.Join(blocks, "\n")
}

// parseRows locates the Question and Answer columns in the header row and
// collects every data row in order. Rows where both cells are blank are
// skipped.
func parseRows(rows [][]string) ([]QAEntry, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("spreadsheet is empty")
	}

	qCol, aCol := -1, -1
	for i, h := range rows[0] {
		switch strings.TrimSpace(h) {
		case QuestionColumn:
			if qCol < 0 {
				qCol = i
			}
		case AnswerColumn:
			if aCol < 0 {
				aCol = i
			}
		}
	}
	if qCol < 0 {
		return nil, fmt.Errorf("missing %q column", QuestionColumn)
	}
	if aCol < 0 {
		return nil, fmt.Errorf("missing %q column", AnswerColumn)
	}

	var entries []QAEntry
	for _, row := range rows[1:] {
		q, a := cell(row, qCol), cell(row, aCol)
		if strings.TrimSpace(q) == "" && strings.TrimSpace(a) == "" {
			continue
		}
		entries = append(entries, QAEntry{Question: q, Answer: a})
	}
	return entries, nil
}

// cell returns row[i], or "" when the row is shorter than i+1.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

package knowledge

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, axis, &row))
	}

	path := filepath.Join(t.TempDir(), "qa.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadWorkbook(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Question", "Answer"},
		{"What are visiting hours?", "9am-5pm"},
		{"Where is the library?", "Building B"},
	})

	kb, err := Load(path)
	require.NoError(t, err)
	require.Len(t, kb.Entries, 2)

	assert.Equal(t, "What are visiting hours?", kb.Entries[0].Question)
	assert.Equal(t, "Building B", kb.Entries[1].Answer)
	assert.Equal(t,
		"Q: What are visiting hours?\nA: 9am-5pm\nQ: Where is the library?\nA: Building B",
		kb.Context)
	assert.Equal(t, path, kb.Source)
}

func TestLoadWorkbookColumnOrder(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Category", "Answer", "Question"},
		{"general", "9am-5pm", "What are visiting hours?"},
	})

	kb, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Q: What are visiting hours?\nA: 9am-5pm", kb.Context)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "Chatbot Questions & Answers.xlsx"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrContextNotFound))
	assert.Contains(t, err.Error(), "Chatbot Questions & Answers.xlsx")
}

func TestLoadMissingColumn(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Question", "Reply"},
		{"What are visiting hours?", "9am-5pm"},
	})

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Answer"`)
	assert.False(t, errors.Is(err, ErrContextNotFound))
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qa.csv")
	data := "Question,Answer\n\"Is there Wi-Fi?\",\"Yes, campus-wide\"\n,\n\"Who do I call?\",\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	kb, err := Load(path)
	require.NoError(t, err)
	require.Len(t, kb.Entries, 2, "blank rows are skipped")
	assert.Equal(t, "Yes, campus-wide", kb.Entries[0].Answer)
	assert.Equal(t, "Q: Who do I call?\nA: ", kb.Entries[1].Block())
}

func TestBuildContextOneBlockPerEntry(t *testing.T) {
	entries := []QAEntry{
		{Question: "q1", Answer: "a1"},
		{Question: "q2", Answer: "a2"},
		{Question: "q3", Answer: "a3"},
	}

	ctx := BuildContext(entries)

	assert.Equal(t, len(entries), strings.Count(ctx, "Q: "))
	assert.Equal(t, len(entries), strings.Count(ctx, "\nA: "))
	assert.Equal(t, "Q: q1\nA: a1\nQ: q2\nA: a2\nQ: q3\nA: a3", ctx)
}

func TestBuildContextEmpty(t *testing.T) {
	assert.Equal(t, "", BuildContext(nil))
}

func TestParseRowsEmpty(t *testing.T) {
	_, err := parseRows(nil)
	assert.Error(t, err)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iasistem/assistant/internal/locale"
	"github.com/iasistem/assistant/internal/model"
)

var fixedNow = time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

func sampleConversation() *model.Conversation {
	conv := model.NewConversation(locale.PTBR.Greeting, fixedNow)
	conv.Append(model.NewUserMessage("Status da OS 1234 <b>?</b>", fixedNow.Add(time.Minute)))
	conv.Append(model.NewAssistantMessage("A OS está pronta.", model.ServiceOrder{
		Number:       "1234",
		CustomerName: "Maria",
		Status:       model.StatusReady,
		DeviceType:   "Notebook",
		DeviceModel:  "X1",
		BudgetValue:  350,
	}, fixedNow.Add(2*time.Minute)))
	return conv
}

func testOptions(dir string) *Options {
	opts := DefaultOptions()
	opts.OutputDir = dir
	opts.Now = func() time.Time { return fixedNow }
	return opts
}

func TestForFormat(t *testing.T) {
	for format, ext := range map[string]string{
		"html": ".html", "HTM": ".html", "markdown": ".md", "md": ".md", "json": ".json",
	} {
		e, err := ForFormat(format, nil)
		require.NoError(t, err, format)
		assert.Equal(t, ext, e.FileExtension(), format)
	}

	_, err := ForFormat("pdf", nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestHTMLExporter_EscapesAndRendersPreview(t *testing.T) {
	out, err := NewHTMLExporter(testOptions(t.TempDir())).Export(sampleConversation())
	require.NoError(t, err)
	doc := string(out)

	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))
	assert.Contains(t, doc, `lang="pt-BR"`)
	assert.Contains(t, doc, "&lt;b&gt;?&lt;/b&gt;")
	assert.NotContains(t, doc, "<b>?</b>")
	assert.Contains(t, doc, "serviceOrder-preview")
	assert.Contains(t, doc, "Maria")
	assert.Contains(t, doc, "R$ 350.00")
	assert.Contains(t, doc, "<title>Status da OS 1234 &lt;b&gt;?&lt;/b&gt;</title>")
}

func TestHTMLExporter_DarkTheme(t *testing.T) {
	opts := testOptions(t.TempDir())
	opts.Theme = "dark"
	out, err := NewHTMLExporter(opts).Export(sampleConversation())
	require.NoError(t, err)
	assert.Contains(t, string(out), `class="theme-dark"`)
}

func TestMarkdownExporter(t *testing.T) {
	out, err := NewMarkdownExporter(testOptions(t.TempDir())).Export(sampleConversation())
	require.NoError(t, err)
	doc := string(out)

	assert.True(t, strings.HasPrefix(doc, "---\n"))
	assert.Contains(t, doc, "messages: 3")
	assert.Contains(t, doc, "### "+locale.PTBR.UserName)
	assert.Contains(t, doc, "### "+locale.PTBR.AssistantName)
	assert.Contains(t, doc, "> - **"+locale.PTBR.LabelCustomer+":** Maria")
}

func TestMarkdownExporter_WithoutMetadata(t *testing.T) {
	opts := testOptions(t.TempDir())
	opts.IncludeMetadata = false
	opts.IncludeTimestamps = false
	out, err := NewMarkdownExporter(opts).Export(sampleConversation())
	require.NoError(t, err)

	doc := string(out)
	assert.True(t, strings.HasPrefix(doc, "# "))
	assert.NotContains(t, doc, "<sub>")
}

func TestJSONExporter_ReadsBack(t *testing.T) {
	conv := sampleConversation()
	out, err := NewJSONExporter(nil).Export(conv)
	require.NoError(t, err)

	var back model.Conversation
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, conv.ID, back.ID)
	require.Len(t, back.Messages, 3)
	assert.Equal(t, conv.Messages[2].Attachment, back.Messages[2].Attachment)
}

func TestExport_RejectsEmpty(t *testing.T) {
	_, err := NewHTMLExporter(nil).Export(nil)
	assert.ErrorIs(t, err, ErrNilConversation)

	_, err = NewMarkdownExporter(nil).Export(&model.Conversation{CreatedAt: fixedNow})
	assert.Error(t, err)
}

func TestExportConversation_WritesFile(t *testing.T) {
	dir := t.TempDir()
	path, err := ExportConversation(sampleConversation(), "md", testOptions(dir))
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "conversation_Status_da_OS_1234"))
	assert.True(t, strings.HasSuffix(path, "_20250314_103000.md"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Maria")
}

func TestExportConversation_Nil(t *testing.T) {
	_, err := ExportConversation(nil, "html", nil)
	assert.ErrorIs(t, err, ErrNilConversation)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a-b_c", sanitizeFilename("a/b c"))
	assert.Equal(t, "conversation", sanitizeFilename(""))
	assert.Equal(t, "abc", sanitizeFilename("abc..."))
	assert.LessOrEqual(t, len([]rune(sanitizeFilename(strings.Repeat("x", 100)))), 40)
}

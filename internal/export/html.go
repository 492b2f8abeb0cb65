// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/iasistem/assistant/internal/model"
	"github.com/iasistem/assistant/internal/render"
	"github.com/iasistem/assistant/internal/storage"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports conversations to HTML format with embedded CSS.
type HTMLExporter struct {
	options  *Options
	renderer *render.HTMLRenderer
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	opts = opts.withDefaults()
	return &HTMLExporter{
		options:  opts,
		renderer: render.NewHTMLRenderer(opts.Locale),
	}
}

// Export converts a conversation to HTML format.
func (e *HTMLExporter) Export(conv *model.Conversation) ([]byte, error) {
	if err := validate(conv); err != nil {
		return nil, err
	}
	l := e.options.Locale
	title := storage.PreviewText(conv, l.NewConversation)

	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString(fmt.Sprintf("<html lang=\"%s\">\n", l.Tag.String()))
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", html.EscapeString(title)))
	sb.WriteString(e.getCSS())
	sb.WriteString("</head>\n")

	bodyClass := "theme-light"
	if e.options.Theme == "dark" {
		bodyClass = "theme-dark"
	}
	sb.WriteString(fmt.Sprintf("<body class=\"%s\">\n", bodyClass))
	sb.WriteString("    <div class=\"container\">\n")

	if e.options.IncludeMetadata {
		sb.WriteString(e.renderHeader(conv, title))
	}

	sb.WriteString("        <main class=\"messages\">\n")
	for _, msg := range conv.Messages {
		view := render.Message(l, msg)
		if !e.options.IncludeTimestamps {
			view.Time = ""
		}
		sb.WriteString("            ")
		sb.WriteString(e.renderer.Message(view))
		sb.WriteString("\n")
	}
	sb.WriteString("        </main>\n")

	sb.WriteString("        <footer>\n")
	sb.WriteString(fmt.Sprintf("            <p>%s &middot; %s</p>\n",
		html.EscapeString(l.AssistantName),
		html.EscapeString(formatTimestamp(e.options.Now()))))
	sb.WriteString("        </footer>\n")

	sb.WriteString("    </div>\n")
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

func (e *HTMLExporter) renderHeader(conv *model.Conversation, title string) string {
	var sb strings.Builder

	sb.WriteString("        <header>\n")
	sb.WriteString(fmt.Sprintf("            <h1>%s</h1>\n", html.EscapeString(title)))
	sb.WriteString("            <div class=\"metadata\">\n")
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\">%s</span>\n",
		html.EscapeString(formatTimestamp(conv.CreatedAt))))
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\">%d</span>\n", conv.MessageCount()))
	sb.WriteString("            </div>\n")
	sb.WriteString("        </header>\n")

	return sb.String()
}

// =============================================================================
// EMBEDDED CSS
// =============================================================================

// getCSS returns the embedded CSS for the HTML export. Class names match the
// fragments produced by render.HTMLRenderer.
func (e *HTMLExporter) getCSS() string {
	return `    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; line-height: 1.5; }
        .theme-light { background: #f5f6fa; color: #2d3436; }
        .theme-dark { background: #1e1e2e; color: #cdd6f4; }
        .container { max-width: 860px; margin: 0 auto; padding: 24px; }
        header { margin-bottom: 24px; border-bottom: 1px solid #dfe6e9; padding-bottom: 12px; }
        header h1 { font-size: 1.4em; }
        .metadata { font-size: 0.85em; opacity: 0.7; display: flex; gap: 16px; }
        .messages { display: flex; flex-direction: column; gap: 12px; }
        .message { display: flex; }
        .user-message { justify-content: flex-end; }
        .message-content { max-width: 75%; padding: 10px 14px; border-radius: 12px; }
        .user-message .message-content { background: #667eea; color: #fff; }
        .ai-message .message-content { background: #ffffff; border: 1px solid #dfe6e9; }
        .theme-dark .ai-message .message-content { background: #313244; border-color: #45475a; }
        .message-header { display: flex; justify-content: space-between; gap: 12px; font-size: 0.8em; margin-bottom: 4px; }
        .message-author { font-weight: 600; }
        .message-time { opacity: 0.7; }
        .data-preview { margin-top: 8px; padding: 8px 10px; border-left: 3px solid #667eea; background: rgba(102,126,234,0.08); border-radius: 6px; }
        .data-preview h4 { font-size: 0.9em; margin-bottom: 4px; }
        .preview-details { display: flex; flex-direction: column; font-size: 0.85em; }
        .produtos-lista ul { margin-left: 18px; font-size: 0.85em; }
        footer { margin-top: 24px; font-size: 0.8em; opacity: 0.6; text-align: center; }
        @media print { body { background: #fff; } .message-content { border: 1px solid #ccc; } }
    </style>
`
}

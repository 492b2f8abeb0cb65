// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import "strings"

// PlainMessage renders v without styles or wrapping, for output read by
// scripts: a header line, the text verbatim, then the preview fields
// indented by two spaces.
func PlainMessage(v MessageView) string {
	var b strings.Builder
	b.WriteString(v.Author)
	if v.Time != "" {
		b.WriteString(" · ")
		b.WriteString(v.Time)
	}
	b.WriteString("\n")
	b.WriteString(v.Text)
	if v.Preview != nil {
		b.WriteString("\n")
		b.WriteString(PlainPreview(v.Preview))
	}
	return b.String()
}

// PlainPreview renders a preview block as indented lines.
func PlainPreview(p *PreviewBlock) string {
	lines := []string{"  " + strings.TrimSpace(p.Icon+" "+p.Title)}
	for _, f := range p.Fields {
		lines = append(lines, "  "+f.Label+": "+f.Value)
	}
	if len(p.Items) > 0 {
		lines = append(lines, "  "+p.ListTitle)
		for _, item := range p.Items {
			lines = append(lines, "    - "+item)
		}
	}
	return strings.Join(lines, "\n")
}

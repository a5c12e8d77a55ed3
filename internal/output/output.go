// Package output renders a preview in raw, JSON or XML form.
package output

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/temirov/ctxpick/internal/types"
	"github.com/temirov/ctxpick/internal/utils"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	xmlHeader = xml.Header

	jsonEncodeErrorFormat = "json encode: %w"
	xmlEncodeErrorFormat  = "xml encode: %w"
	unknownFormatFormat   = "unsupported format %q"

	summaryLineFormat  = "Summary: %d %s, %s%s%s"
	summaryTokenFormat = ", %d tokens"
	summaryModelFormat = " (model: %s)"
	pluralFileLabel    = "files"
	singularFileLabel  = "file"
)

// Summarize aggregates file counts, sizes and tokens of the previewed files.
func Summarize(files []types.PreviewFile, model string) *types.OutputSummary {
	var totalBytes int64
	var totalTokens int
	for _, file := range files {
		totalBytes += file.SizeBytes
		totalTokens += file.Tokens
	}
	summary := &types.OutputSummary{
		TotalFiles:  len(files),
		TotalSize:   utils.FormatFileSize(totalBytes),
		TotalTokens: totalTokens,
	}
	if totalTokens > 0 {
		summary.Model = model
	}
	return summary
}

// FormatSummaryLine formats an OutputSummary into the raw summary line.
func FormatSummaryLine(summary *types.OutputSummary) string {
	if summary == nil {
		summary = &types.OutputSummary{TotalSize: utils.FormatFileSize(0)}
	}
	label := pluralFileLabel
	if summary.TotalFiles == 1 {
		label = singularFileLabel
	}
	tokens := ""
	if summary.TotalTokens > 0 {
		tokens = fmt.Sprintf(summaryTokenFormat, summary.TotalTokens)
	}
	model := ""
	if summary.Model != "" {
		model = fmt.Sprintf(summaryModelFormat, summary.Model)
	}
	return fmt.Sprintf(summaryLineFormat, summary.TotalFiles, label, summary.TotalSize, tokens, model)
}

// RenderJSON encodes the preview as indented JSON.
func RenderJSON(preview types.PreviewOutput) (string, error) {
	if preview.Files == nil {
		preview.Files = []types.PreviewFile{}
	}
	encoded, encodeErr := json.MarshalIndent(preview, indentPrefix, indentSpacer)
	if encodeErr != nil {
		return "", fmt.Errorf(jsonEncodeErrorFormat, encodeErr)
	}
	return string(encoded), nil
}

// RenderXML encodes the preview as an indented XML document.
func RenderXML(preview types.PreviewOutput) (string, error) {
	encoded, encodeErr := xml.MarshalIndent(preview, indentPrefix, indentSpacer)
	if encodeErr != nil {
		return "", fmt.Errorf(xmlEncodeErrorFormat, encodeErr)
	}
	return xmlHeader + string(encoded), nil
}

// Render returns the document for format. Raw output is the preview text itself.
func Render(format string, text string, preview types.PreviewOutput) (string, error) {
	switch format {
	case types.FormatRaw, "":
		return text, nil
	case types.FormatJSON:
		return RenderJSON(preview)
	case types.FormatXML:
		return RenderXML(preview)
	default:
		return "", fmt.Errorf(unknownFormatFormat, format)
	}
}

// WriteDocument writes document followed by a newline. For raw output an
// optional summary line goes to summaryWriter so the artifact stays byte-exact.
func WriteDocument(writer, summaryWriter io.Writer, format string, document string, summary *types.OutputSummary) error {
	if _, writeErr := fmt.Fprintln(writer, document); writeErr != nil {
		return writeErr
	}
	if summary == nil || (format != types.FormatRaw && format != "") {
		return nil
	}
	_, writeErr := fmt.Fprintln(summaryWriter, FormatSummaryLine(summary))
	return writeErr
}

// Package types defines the cross-package data structures used by the ctxpick CLI.
package types

import "encoding/xml"

const (
	CommandPreview = "preview"
	CommandBrowse  = "browse"
	CommandInit    = "init"

	FormatRaw  = "raw"
	FormatJSON = "json"
	FormatXML  = "xml"
)

// ValidatedPath is an absolute input path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}

// PreviewFile is one selected file as it appears in structured output.
type PreviewFile struct {
	Path      string `json:"path" xml:"path"`
	Name      string `json:"name" xml:"name"`
	Content   string `json:"content" xml:"content"`
	Size      string `json:"size" xml:"size"`
	SizeBytes int64  `json:"-" xml:"-"`
	Tokens    int    `json:"tokens,omitempty" xml:"tokens,omitempty"`
}

// PreviewOutput is the structured form of a preview. Message carries the
// placeholder text when nothing is loaded or selected.
type PreviewOutput struct {
	XMLName   xml.Name       `json:"-" xml:"preview"`
	Root      string         `json:"root" xml:"root"`
	Message   string         `json:"message,omitempty" xml:"message,omitempty"`
	Structure string         `json:"structure,omitempty" xml:"structure,omitempty"`
	Files     []PreviewFile  `json:"files" xml:"files>file"`
	Summary   *OutputSummary `json:"summary,omitempty" xml:"summary,omitempty"`
}

// OutputSummary captures aggregate information about rendered files.
type OutputSummary struct {
	TotalFiles  int    `json:"totalFiles" xml:"totalFiles"`
	TotalSize   string `json:"totalSize" xml:"totalSize"`
	TotalTokens int    `json:"totalTokens,omitempty" xml:"totalTokens,omitempty"`
	Model       string `json:"model,omitempty" xml:"model,omitempty"`
}

package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/temirov/ctxpick/internal/fstree"
	"github.com/temirov/ctxpick/internal/preview"
	"github.com/temirov/ctxpick/internal/services/clipboard"
)

const statusDuration = 2 * time.Second

// previewReadyMsg carries a preview built for the tree snapshot stamped with generation.
type previewReadyMsg struct {
	generation uint64
	text       string
}

// copyFinishedMsg reports the outcome of a clipboard copy.
type copyFinishedMsg struct {
	err error
}

type clearStatusMsg struct{}

func buildPreviewCmd(ctx context.Context, generation uint64, snapshot fstree.Node, fetcher preview.ContentFetcher) tea.Cmd {
	return func() tea.Msg {
		return previewReadyMsg{generation: generation, text: preview.Build(ctx, snapshot, fetcher)}
	}
}

func copyCmd(copier clipboard.Copier, text string) tea.Cmd {
	return func() tea.Msg {
		return copyFinishedMsg{err: copier.Copy(text)}
	}
}

func clearStatusCmd(duration time.Duration) tea.Cmd {
	return tea.Tick(duration, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

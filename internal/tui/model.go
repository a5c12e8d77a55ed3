// Package tui is the interactive browse surface: a collapsible selection tree
// on the left and the live preview on the right.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"go.uber.org/zap"

	"github.com/temirov/ctxpick/internal/fstree"
	"github.com/temirov/ctxpick/internal/preview"
	"github.com/temirov/ctxpick/internal/services/clipboard"
)

type pane int

const (
	treePane pane = iota
	previewPane
)

const (
	buildingStatus        = "building preview…"
	copiedStatus          = "copied preview to clipboard"
	nothingToCopyStatus   = "nothing to copy"
	clipboardMissingText  = "clipboard unavailable"
	copyFailedFormat      = "copy failed: %v"
	noMatchStatus         = "no matching file"
	selectionCountFormat  = "%d/%d files selected"
	searchPlaceholder     = "file name"
	searchPrompt          = "/ "
	searchCharacterLimit  = 256
	maxSearchMatches      = 8
	chromeHeight          = 4
	paneBorderWidth       = 2
	treeWidthNumerator    = 2
	treeWidthDenominator  = 5
	statusSeparator       = "  "
	stalePreviewMessage   = "discarding stale preview"
	appliedPreviewMessage = "preview updated"
	generationFieldName   = "generation"
	pathFieldName         = "path"
	selectionToggledEvent = "selection toggled"
)

// Options wires the collaborators of the browse view.
type Options struct {
	Context context.Context
	Fetcher preview.ContentFetcher
	Copier  clipboard.Copier
	Logger  *zap.Logger
}

// Model is the bubbletea model of the browse view.
type Model struct {
	ctx     context.Context
	fetcher preview.ContentFetcher
	copier  clipboard.Copier
	logger  *zap.Logger

	tree   fstree.Node
	rows   []row
	cursor int
	offset int
	focus  pane

	keys     keyMap
	help     help.Model
	viewport viewport.Model
	search   textinput.Model

	searching      bool
	matches        []string
	candidates     []string
	candidatePaths map[string]string

	sequencer      *preview.Sequencer
	previewText    string
	previewPending bool

	status        string
	statusIsError bool
	width         int
	height        int
	ready         bool
}

// New returns a browse model over root. The tree is normalized and the root
// directory starts open.
func New(root *fstree.Directory, options Options) Model {
	ctx := options.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	searchInput := textinput.New()
	searchInput.Placeholder = searchPlaceholder
	searchInput.Prompt = searchPrompt
	searchInput.CharLimit = searchCharacterLimit

	model := Model{
		ctx:            ctx,
		fetcher:        options.Fetcher,
		copier:         options.Copier,
		logger:         logger,
		keys:           defaultKeyMap(),
		help:           help.New(),
		search:         searchInput,
		candidatePaths: map[string]string{},
		sequencer:      &preview.Sequencer{},
	}

	var tree fstree.Node
	if root != nil {
		tree = fstree.ToggleExpand(fstree.Initialize(root), root.Path())
		model.indexCandidates(tree)
	}
	model.tree = tree
	model.rows = visibleRows(tree)
	model.previewText = preview.NoPreviewText
	if tree != nil {
		model.previewText = preview.NoSelectionText
	}
	return model
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (model Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		model.resize(msg.Width, msg.Height)
		return model, nil
	case previewReadyMsg:
		if !model.sequencer.IsCurrent(msg.generation) {
			model.logger.Debug(stalePreviewMessage, zap.Uint64(generationFieldName, msg.generation))
			return model, nil
		}
		model.previewText = msg.text
		model.previewPending = false
		model.syncViewport()
		model.logger.Debug(appliedPreviewMessage, zap.Uint64(generationFieldName, msg.generation))
		return model, nil
	case copyFinishedMsg:
		if msg.err != nil {
			model.setStatus(fmt.Sprintf(copyFailedFormat, msg.err), true)
		} else {
			model.setStatus(copiedStatus, false)
		}
		return model, clearStatusCmd(statusDuration)
	case clearStatusMsg:
		model.setStatus("", false)
		return model, nil
	case tea.KeyMsg:
		if model.searching {
			return model.updateSearch(msg)
		}
		return model.updateKeys(msg)
	}
	return model, nil
}

func (model Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, model.keys.Quit):
		return model, tea.Quit
	case key.Matches(msg, model.keys.Focus):
		if model.focus == treePane {
			model.focus = previewPane
		} else {
			model.focus = treePane
		}
		return model, nil
	case key.Matches(msg, model.keys.Copy):
		return model.copyPreview()
	case key.Matches(msg, model.keys.Search):
		if model.tree == nil {
			return model, nil
		}
		model.searching = true
		model.matches = nil
		model.search.SetValue("")
		return model, model.search.Focus()
	}

	if model.focus == previewPane {
		var viewportCmd tea.Cmd
		model.viewport, viewportCmd = model.viewport.Update(msg)
		return model, viewportCmd
	}

	current, hasCurrent := model.currentNode()
	switch {
	case key.Matches(msg, model.keys.Up):
		model.moveCursor(-1)
	case key.Matches(msg, model.keys.Down):
		model.moveCursor(1)
	case !hasCurrent:
	case key.Matches(msg, model.keys.Expand):
		if _, isDirectory := current.(*fstree.Directory); isDirectory {
			model.tree = fstree.ToggleExpand(model.tree, current.Path())
			model.refreshRows()
		}
	case key.Matches(msg, model.keys.Collapse):
		if directory, isDirectory := current.(*fstree.Directory); isDirectory && directory.IsOpen() {
			model.tree = fstree.ToggleExpand(model.tree, current.Path())
			model.refreshRows()
		} else if chain, found := fstree.Ancestors(model.tree, current.Path()); found && len(chain) > 0 {
			model.selectPath(chain[len(chain)-1].Path())
		}
	case key.Matches(msg, model.keys.Toggle):
		model.tree = fstree.ToggleSelect(model.tree, current.Path())
		model.refreshRows()
		model.logger.Debug(selectionToggledEvent, zap.String(pathFieldName, current.Path()))
		return model, model.requestPreview()
	}
	return model, nil
}

func (model Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, model.keys.Cancel):
		model.closeSearch()
		return model, nil
	case key.Matches(msg, model.keys.Jump):
		matches := model.matches
		model.closeSearch()
		if len(matches) == 0 {
			model.setStatus(noMatchStatus, true)
			return model, clearStatusCmd(statusDuration)
		}
		model.reveal(matches[0])
		return model, nil
	}
	var inputCmd tea.Cmd
	model.search, inputCmd = model.search.Update(msg)
	model.matches = model.rankMatches(model.search.Value())
	return model, inputCmd
}

func (model *Model) closeSearch() {
	model.searching = false
	model.matches = nil
	model.search.Blur()
}

func (model *Model) requestPreview() tea.Cmd {
	generation := model.sequencer.Next()
	model.previewPending = true
	return buildPreviewCmd(model.ctx, generation, model.tree, model.fetcher)
}

func (model Model) copyPreview() (tea.Model, tea.Cmd) {
	artifact, available := model.Artifact()
	switch {
	case !available:
		model.setStatus(nothingToCopyStatus, true)
		return model, clearStatusCmd(statusDuration)
	case model.copier == nil:
		model.setStatus(clipboardMissingText, true)
		return model, clearStatusCmd(statusDuration)
	}
	return model, copyCmd(model.copier, artifact)
}

func (model *Model) indexCandidates(tree fstree.Node) {
	rootPath := tree.Path()
	fstree.Walk(tree, func(node fstree.Node, _ int) bool {
		if _, isFile := node.(*fstree.File); !isFile {
			return true
		}
		relativePath, relativeErr := filepath.Rel(rootPath, node.Path())
		if relativeErr != nil {
			relativePath = node.Name()
		}
		relativePath = filepath.ToSlash(relativePath)
		model.candidates = append(model.candidates, relativePath)
		model.candidatePaths[relativePath] = node.Path()
		return true
	})
}

// rankMatches returns the absolute paths of the best fuzzy matches for query.
func (model Model) rankMatches(query string) []string {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	ranks := fuzzy.RankFindFold(query, model.candidates)
	sort.Stable(ranks)
	matches := make([]string, 0, maxSearchMatches)
	for _, rank := range ranks {
		if len(matches) == maxSearchMatches {
			break
		}
		matches = append(matches, model.candidatePaths[rank.Target])
	}
	return matches
}

// reveal opens every closed ancestor of path and moves the cursor onto it.
func (model *Model) reveal(path string) {
	chain, found := fstree.Ancestors(model.tree, path)
	if !found {
		return
	}
	for _, directory := range chain {
		if !directory.IsOpen() {
			model.tree = fstree.ToggleExpand(model.tree, directory.Path())
		}
	}
	model.refreshRows()
	model.selectPath(path)
}

func (model *Model) refreshRows() {
	current, hasCurrent := model.currentNode()
	model.rows = visibleRows(model.tree)
	if hasCurrent {
		model.selectPath(current.Path())
		return
	}
	model.moveCursor(0)
}

func (model *Model) selectPath(path string) {
	for index, candidate := range model.rows {
		if candidate.node.Path() == path {
			model.cursor = index
			model.ensureVisible()
			return
		}
	}
	model.moveCursor(0)
}

func (model *Model) moveCursor(delta int) {
	model.cursor += delta
	if model.cursor >= len(model.rows) {
		model.cursor = len(model.rows) - 1
	}
	if model.cursor < 0 {
		model.cursor = 0
	}
	model.ensureVisible()
}

func (model *Model) ensureVisible() {
	height := model.paneHeight()
	if height <= 0 {
		return
	}
	if model.cursor < model.offset {
		model.offset = model.cursor
	}
	if model.cursor >= model.offset+height {
		model.offset = model.cursor - height + 1
	}
}

func (model Model) currentNode() (fstree.Node, bool) {
	if model.cursor < 0 || model.cursor >= len(model.rows) {
		return nil, false
	}
	return model.rows[model.cursor].node, true
}

func (model *Model) setStatus(text string, isError bool) {
	model.status = text
	model.statusIsError = isError
}

func (model *Model) resize(width, height int) {
	model.width = width
	model.height = height
	model.help.Width = width
	previewWidth := width - model.treeWidth() - 2*paneBorderWidth
	if previewWidth < 1 {
		previewWidth = 1
	}
	if !model.ready {
		model.viewport = viewport.New(previewWidth, model.paneHeight())
		model.ready = true
	} else {
		model.viewport.Width = previewWidth
		model.viewport.Height = model.paneHeight()
	}
	model.syncViewport()
	model.ensureVisible()
}

func (model *Model) syncViewport() {
	if !model.ready {
		return
	}
	model.viewport.SetContent(model.previewText)
	model.viewport.GotoTop()
}

func (model Model) treeWidth() int {
	return model.width * treeWidthNumerator / treeWidthDenominator
}

func (model Model) paneHeight() int {
	if !model.ready && model.height == 0 {
		return len(model.rows)
	}
	height := model.height - chromeHeight
	if height < 1 {
		return 1
	}
	return height
}

// View implements tea.Model.
func (model Model) View() string {
	height := model.paneHeight()
	var treeLines []string
	for index := model.offset; index < len(model.rows) && index < model.offset+height; index++ {
		treeLines = append(treeLines, renderRow(model.rows[index], index == model.cursor))
	}
	treeContent := strings.Join(treeLines, "\n")
	if model.tree == nil {
		treeContent = preview.NoPreviewText
	}

	treeStyle, previewStyle := paneStyle, focusedPaneStyle
	if model.focus == treePane {
		treeStyle, previewStyle = focusedPaneStyle, paneStyle
	}

	var body string
	if model.ready {
		treeView := lipgloss.NewStyle().Width(model.treeWidth()).Height(height).Render(treeContent)
		body = lipgloss.JoinHorizontal(lipgloss.Top, treeStyle.Render(treeView), previewStyle.Render(model.viewport.View()))
	} else {
		body = treeStyle.Render(treeContent)
	}

	sections := []string{body}
	if model.searching {
		sections = append(sections, model.search.View())
		for _, match := range model.matches {
			sections = append(sections, matchStyle.Render(model.relativeLabel(match)))
		}
	}
	sections = append(sections, model.statusLine(), model.help.View(model.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (model Model) statusLine() string {
	selected, total := fstree.CountFiles(model.tree)
	parts := []string{titleStyle.Render(fmt.Sprintf(selectionCountFormat, selected, total))}
	if model.previewPending {
		parts = append(parts, statusStyle.Render(buildingStatus))
	}
	if model.status != "" {
		style := statusStyle
		if model.statusIsError {
			style = errorStyle
		}
		parts = append(parts, style.Render(model.status))
	}
	return strings.Join(parts, statusSeparator)
}

func (model Model) relativeLabel(path string) string {
	for relativePath, absolutePath := range model.candidatePaths {
		if absolutePath == path {
			return relativePath
		}
	}
	return path
}

// Tree returns the current selection tree.
func (model Model) Tree() fstree.Node {
	return model.tree
}

// CurrentPath returns the path under the cursor.
func (model Model) CurrentPath() string {
	current, hasCurrent := model.currentNode()
	if !hasCurrent {
		return ""
	}
	return current.Path()
}

// PreviewText returns the latest applied preview.
func (model Model) PreviewText() string {
	return model.previewText
}

// Artifact returns the applied preview when it is up to date and holds at
// least one file.
func (model Model) Artifact() (string, bool) {
	if model.previewPending || model.previewText == preview.NoPreviewText || model.previewText == preview.NoSelectionText {
		return "", false
	}
	return model.previewText, true
}

// Run starts the browse program and returns the final model.
func Run(root *fstree.Directory, options Options, programOptions ...tea.ProgramOption) (Model, error) {
	program := tea.NewProgram(New(root, options), programOptions...)
	finalModel, runErr := program.Run()
	if runErr != nil {
		return Model{}, runErr
	}
	browseModel, _ := finalModel.(Model)
	return browseModel, nil
}

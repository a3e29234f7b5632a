package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/klauern/skills-cli/internal/discovery"
)

// BrowserAction represents the action to perform on a selected skill.
type BrowserAction int

const (
	// BrowserActionNone means no action was taken (user quit).
	BrowserActionNone BrowserAction = iota
	// BrowserActionShow means the user wants the SKILL.md content printed.
	BrowserActionShow
	// BrowserActionPath means the user wants the skill directory printed.
	BrowserActionPath
)

// BrowserItem is one row of the browser: an installed skill and the skills
// directory it was found in.
type BrowserItem struct {
	Root  string
	Skill discovery.Installed
}

func (i BrowserItem) description() string {
	if i.Skill.Properties == nil {
		return "(invalid skill)"
	}
	return i.Skill.Properties.Description
}

func (i BrowserItem) status() string {
	if i.Skill.Valid() {
		return "valid"
	}
	return "invalid"
}

// BrowserResult contains the result of the browser interaction.
type BrowserResult struct {
	Action BrowserAction
	Item   BrowserItem
}

type browserKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Detail   key.Binding
	Show     key.Binding
	Path     key.Binding
	Filter   key.Binding
	ClearFlt key.Binding
	Help     key.Binding
	Back     key.Binding
	Quit     key.Binding
}

func defaultBrowserKeyMap() browserKeyMap {
	return browserKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Detail: key.NewBinding(
			key.WithKeys("enter", "v"),
			key.WithHelp("enter/v", "details"),
		),
		Show: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "print SKILL.md"),
		),
		Path: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "print path"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		ClearFlt: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear filter"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "esc"),
			key.WithHelp("b/esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// BrowserModel is the BubbleTea model behind "skills list --interactive".
type BrowserModel struct {
	table        table.Model
	items        []BrowserItem
	filtered     []BrowserItem
	keys         browserKeyMap
	result       BrowserResult
	filter       string
	filtering    bool
	showHelp     bool
	width        int
	height       int
	columnWidths browserColumnWidths
	phase        browserPhase
	detailItem   BrowserItem
	viewport     viewport.Model
	ready        bool
	quitting     bool
}

var browserStyles = struct {
	Title       lipgloss.Style
	Help        lipgloss.Style
	Filter      lipgloss.Style
	FilterInput lipgloss.Style
	Status      lipgloss.Style
	DetailBox   lipgloss.Style
	DetailTitle lipgloss.Style
	Invalid     lipgloss.Style
}{
	Title:       Styles.Title.Padding(0, 1),
	Help:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	Filter:      lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	FilterInput: Styles.Selected,
	Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1),
	DetailBox:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	DetailTitle: Styles.Title,
	Invalid:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
}

type browserPhase int

const (
	browserPhaseList browserPhase = iota
	browserPhaseDetail
)

const (
	browserNameWidth     = 25
	browserStatusWidth   = 8
	browserDescWidth     = 45
	browserRootWidth     = 20
	browserColumnPadding = 2
	browserColumnCount   = 4
	browserDetailLines   = 3
	browserDetailGap     = 1
	browserDetailHeight  = browserDetailLines + 1 + 2 // title + content + border
)

type browserColumnWidths struct {
	name   int
	status int
	desc   int
	root   int
}

// NewBrowserModel creates a browser over the given skill groups.
func NewBrowserModel(groups []discovery.Group) BrowserModel {
	var items []BrowserItem
	for _, g := range groups {
		for _, s := range g.Skills {
			items = append(items, BrowserItem{Root: g.Root, Skill: s})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].Skill.Name()) < strings.ToLower(items[j].Skill.Name())
	})

	columns, widths := browserColumns(0, items)
	m := BrowserModel{
		items:        items,
		filtered:     items,
		keys:         defaultBrowserKeyMap(),
		columnWidths: widths,
		phase:        browserPhaseList,
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(m.itemsToRows(items)),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m.table = t
	return m
}

func (m BrowserModel) itemsToRows(items []BrowserItem) []table.Row {
	rows := make([]table.Row, len(items))
	for i, it := range items {
		rows[i] = table.Row{
			truncateText(it.Skill.Name(), m.columnWidths.name),
			truncateText(it.status(), m.columnWidths.status),
			truncateText(it.description(), m.columnWidths.desc),
			truncateText(it.Root, m.columnWidths.root),
		}
	}
	return rows
}

// browserColumns grows the location column to fit the longest root, then
// splits the remaining width between name and description.
func browserColumns(totalWidth int, items []BrowserItem) ([]table.Column, browserColumnWidths) {
	widths := browserColumnWidths{
		name:   browserNameWidth,
		status: browserStatusWidth,
		desc:   browserDescWidth,
		root:   browserRootWidth,
	}

	if totalWidth > 0 {
		baseTotal := widths.name + widths.status + widths.desc + widths.root +
			(browserColumnPadding * browserColumnCount)
		extra := totalWidth - baseTotal
		if extra > 0 {
			maxRoot := widths.root
			for _, it := range items {
				maxRoot = max(maxRoot, runewidth.StringWidth(it.Root))
			}
			if need := maxRoot - widths.root; need > 0 {
				rootExtra := min(need, extra)
				widths.root += rootExtra
				extra -= rootExtra
			}

			nameExtra := extra / 3
			widths.name += nameExtra
			widths.desc += extra - nameExtra
		}
	}

	columns := []table.Column{
		{Title: "Name", Width: widths.name},
		{Title: "Status", Width: widths.status},
		{Title: "Description", Width: widths.desc},
		{Title: "Location", Width: widths.root},
	}
	return columns, widths
}

func (m *BrowserModel) updateColumns(totalWidth int) {
	columns, widths := browserColumns(totalWidth, m.items)
	m.columnWidths = widths
	m.table.SetColumns(columns)
}

func (m BrowserModel) detailPanelWidth() int {
	if m.width > 0 {
		return m.width
	}
	return m.columnWidths.name + m.columnWidths.status + m.columnWidths.desc + m.columnWidths.root +
		(browserColumnPadding * browserColumnCount)
}

func (m BrowserModel) renderDetailPanel() string {
	width := m.detailPanelWidth()
	contentWidth := max(width-4, 10)

	item, ok := m.selected()
	description := "No skill selected."
	if ok {
		description = strings.TrimSpace(item.description())
	}
	if description == "" {
		description = "No description available."
	}

	lines := padLines(wrapText(description, contentWidth, browserDetailLines), browserDetailLines)
	header := browserStyles.DetailTitle.Render("Description (selected)")
	content := append([]string{header}, lines...)

	return browserStyles.DetailBox.Width(width).Render(strings.Join(content, "\n"))
}

// Init implements tea.Model.
func (m BrowserModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.phase == browserPhaseDetail {
		return m.updateDetail(msg)
	}
	return m.updateList(msg)
}

func (m BrowserModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Reserve space for title, help, status, detail
		m.table.SetHeight(max(msg.Height-10-browserDetailHeight-browserDetailGap, 5))
		m.updateColumns(msg.Width)
		m.table.SetRows(m.itemsToRows(m.filtered))

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg), nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.Filter):
			m.filtering = true
			return m, nil

		case key.Matches(msg, m.keys.ClearFlt):
			m.filter = ""
			m.applyFilter()
			return m, nil

		case key.Matches(msg, m.keys.Detail):
			if item, ok := m.selected(); ok {
				m.detailItem = item
				m.phase = browserPhaseDetail
				m.ready = false
				m.ensureDetailViewport()
			}
			return m, nil

		case key.Matches(msg, m.keys.Show):
			return m.finish(BrowserActionShow)

		case key.Matches(msg, m.keys.Path):
			return m.finish(BrowserActionPath)
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m BrowserModel) updateFilter(msg tea.KeyMsg) BrowserModel {
	switch msg.String() {
	case "enter":
		m.filtering = false
	case "esc":
		m.filter = ""
		m.filtering = false
		m.applyFilter()
	case "backspace":
		if m.filter != "" {
			r := []rune(m.filter)
			m.filter = string(r[:len(r)-1])
			m.applyFilter()
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.filter += string(msg.Runes)
			m.applyFilter()
		}
	}
	return m
}

func (m BrowserModel) finish(action BrowserAction) (tea.Model, tea.Cmd) {
	item, ok := m.selected()
	if !ok {
		return m, nil
	}
	m.result = BrowserResult{Action: action, Item: item}
	m.quitting = true
	return m, tea.Quit
}

func (m BrowserModel) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureDetailViewport()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.Back):
			m.phase = browserPhaseList
			return m, nil
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *BrowserModel) applyFilter() {
	if m.filter == "" {
		m.filtered = m.items
	} else {
		var filtered []BrowserItem
		lower := strings.ToLower(m.filter)
		for _, it := range m.items {
			if strings.Contains(strings.ToLower(it.Skill.Name()), lower) ||
				strings.Contains(strings.ToLower(it.description()), lower) ||
				strings.Contains(strings.ToLower(it.Root), lower) {
				filtered = append(filtered, it)
			}
		}
		m.filtered = filtered
	}
	m.table.SetRows(m.itemsToRows(m.filtered))
	m.table.SetCursor(0)
}

func (m BrowserModel) selected() (BrowserItem, bool) {
	cursor := m.table.Cursor()
	if cursor >= 0 && cursor < len(m.filtered) {
		return m.filtered[cursor], true
	}
	return BrowserItem{}, false
}

// View implements tea.Model.
func (m BrowserModel) View() string {
	if m.quitting {
		return ""
	}
	if m.phase == browserPhaseDetail {
		return m.viewDetail()
	}

	var b strings.Builder

	b.WriteString(browserStyles.Title.Render("Installed Skills"))
	b.WriteString("\n\n")

	if m.filter != "" || m.filtering {
		filterVal := browserStyles.FilterInput.Render(m.filter)
		if m.filtering {
			filterVal += "█"
		}
		b.WriteString(browserStyles.Filter.Render("Filter: ") + filterVal + "\n\n")
	}

	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(m.renderDetailPanel())
	b.WriteString("\n")

	status := fmt.Sprintf("%d skill(s)", len(m.filtered))
	if m.filter != "" {
		status = fmt.Sprintf("%d of %d skill(s) (filtered)", len(m.filtered), len(m.items))
	}
	b.WriteString(browserStyles.Status.Render(status))
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString("\n")
		b.WriteString(m.renderFullHelp())
	} else {
		b.WriteString(m.renderShortHelp())
	}

	return b.String()
}

func (m BrowserModel) viewDetail() string {
	m.ensureDetailViewport()
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(browserStyles.Title.Render("Skill: " + m.detailItem.Skill.Name()))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	status := fmt.Sprintf("Scroll: %d%% • Press b or Esc to go back", int(m.viewport.ScrollPercent()*100))
	b.WriteString(browserStyles.Status.Render(status))
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString("\n")
		b.WriteString(m.renderDetailHelp())
	} else {
		b.WriteString(browserStyles.Help.Render(strings.Join([]string{
			"↑/↓ scroll",
			"b back",
			"? help",
			"q quit",
		}, " • ")))
	}

	return b.String()
}

func (m *BrowserModel) ensureDetailViewport() {
	if m.width <= 0 || m.height <= 0 {
		return
	}

	headerHeight := 4
	footerHeight := 4
	height := max(m.height-headerHeight-footerHeight, 5)

	if !m.ready {
		m.viewport = viewport.New(m.width-2, height)
		m.ready = true
	} else {
		m.viewport.Width = m.width - 2
		m.viewport.Height = height
	}
	m.viewport.SetContent(m.buildDetailContent(m.viewport.Width))
}

func (m BrowserModel) buildDetailContent(width int) string {
	var b strings.Builder

	item := m.detailItem
	if item.Skill.Dir == "" {
		return "No skill selected."
	}
	indent := "  "

	b.WriteString(browserStyles.DetailTitle.Render("Skill"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%sName: %s\n", indent, item.Skill.Name())
	fmt.Fprintf(&b, "%sDirectory: %s\n", indent, item.Skill.Dir)
	fmt.Fprintf(&b, "%sLocation: %s\n", indent, item.Root)

	props := item.Skill.Properties
	if props == nil {
		fmt.Fprintf(&b, "%sStatus: %s\n", indent, browserStyles.Invalid.Render("invalid"))
		if item.Skill.Err != nil {
			fmt.Fprintf(&b, "%sError: %s\n", indent, item.Skill.Err)
		}
		return b.String()
	}

	fmt.Fprintf(&b, "%sLicense: %s\n", indent, props.LicenseOr("-"))
	if props.Compatibility != nil {
		fmt.Fprintf(&b, "%sCompatibility: %s\n", indent, *props.Compatibility)
	}
	if props.AllowedTools != nil {
		fmt.Fprintf(&b, "%sAllowed tools: %s\n", indent, *props.AllowedTools)
	}

	if len(props.Metadata) > 0 {
		b.WriteString("\n")
		b.WriteString(browserStyles.DetailTitle.Render("Metadata"))
		b.WriteString("\n")
		keys := make([]string, 0, len(props.Metadata))
		for k := range props.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "%s%s: %s\n", indent, k, props.Metadata[k])
		}
	}

	b.WriteString("\n")
	b.WriteString(browserStyles.DetailTitle.Render("Description"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(max(width, 10)).Render(props.Description))
	b.WriteString("\n")

	return b.String()
}

func (m BrowserModel) renderShortHelp() string {
	keys := []string{
		"↑/↓ navigate",
		"enter details",
		"o print SKILL.md",
		"c print path",
		"/ filter",
		"? help",
		"q quit",
	}
	return browserStyles.Help.Render(strings.Join(keys, " • "))
}

func (m BrowserModel) renderFullHelp() string {
	help := `Navigation:
  ↑/k      Move up
  ↓/j      Move down
  g/Home   Go to top
  G/End    Go to bottom

Actions:
  Enter/v  View details
  o        Print SKILL.md and exit
  c        Print skill directory and exit

Filter:
  /        Start filtering (by name, description, or location)
  Esc      Clear filter
  Enter    Finish filtering

General:
  ?        Toggle full help
  q        Quit`
	return browserStyles.Help.Render(help)
}

func (m BrowserModel) renderDetailHelp() string {
	help := `Navigation:
  ↑/k      Scroll up
  ↓/j      Scroll down

Actions:
  b/Esc    Back to list

General:
  ?        Toggle full help
  q        Quit`
	return browserStyles.Help.Render(help)
}

// Result returns the result of the user interaction.
func (m BrowserModel) Result() BrowserResult {
	return m.result
}

// RunBrowser runs the interactive skill browser and returns the result.
func RunBrowser(groups []discovery.Group) (BrowserResult, error) {
	if len(groups) == 0 {
		return BrowserResult{}, nil
	}

	finalModel, err := Run(NewBrowserModel(groups), tea.WithAltScreen())
	if err != nil {
		return BrowserResult{}, err
	}

	if m, ok := finalModel.(BrowserModel); ok {
		return m.Result(), nil
	}
	return BrowserResult{}, nil
}

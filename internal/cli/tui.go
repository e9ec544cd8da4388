package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/calloutgen/pkg/core/callouts"
	"github.com/matzehuels/calloutgen/pkg/errors"
	"github.com/matzehuels/calloutgen/pkg/scene"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// FramePickerModel - Interactive frame selection
// =============================================================================

// frameRow is one candidate frame.
type frameRow struct {
	node        *scene.Node
	annotations int
}

// FramePickerModel is the bubbletea model for choosing target frames.
type FramePickerModel struct {
	Frames    []frameRow
	Cursor    int
	Checked   map[int]bool
	Height    int
	Offset    int
	Confirmed bool
}

// NewFramePickerModel lists the page's top-level containers. Frames with
// annotations start checked.
func NewFramePickerModel(page *scene.Page) FramePickerModel {
	m := FramePickerModel{Checked: make(map[int]bool), Height: 15}
	for _, n := range page.Children {
		if !n.Type.IsContainer() || n.Name == callouts.GroupName {
			continue
		}
		row := frameRow{node: n, annotations: countAnnotations(n)}
		if row.annotations > 0 {
			m.Checked[len(m.Frames)] = true
		}
		m.Frames = append(m.Frames, row)
	}
	return m
}

// Selected returns the IDs of the checked frames in page order, or nil when
// the picker was cancelled.
func (m FramePickerModel) Selected() []string {
	if !m.Confirmed {
		return nil
	}
	var ids []string
	for i, f := range m.Frames {
		if m.Checked[i] {
			ids = append(ids, f.node.ID)
		}
	}
	return ids
}

func (m FramePickerModel) Init() tea.Cmd {
	return nil
}

func (m FramePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Frames)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			if len(m.Frames) > 0 {
				m.Checked[m.Cursor] = !m.Checked[m.Cursor]
			}
		case "a":
			all := len(m.checkedIDs()) == len(m.Frames)
			for i := range m.Frames {
				m.Checked[i] = !all
			}
		case "enter":
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m FramePickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Frames"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ generate  q quit"))
	b.WriteString("\n\n")

	if len(m.Frames) == 0 {
		b.WriteString(listDimStyle.Render("  No frames on this page"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Frames))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		f := m.Frames[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		check := "[ ]"
		if m.Checked[i] {
			check = "[x]"
		}
		count := "—"
		if f.annotations > 0 {
			count = strconv.Itoa(f.annotations)
		}
		rows = append(rows, []string{cursor, check, f.node.Name, string(f.node.Type), count})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Frame", "Type", "Annotations").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Frames) {
				return lipgloss.NewStyle()
			}
			switch {
			case idx == m.Cursor:
				return listSelectedStyle
			case m.Frames[idx].annotations == 0:
				return listDimStyle
			case col == 4:
				return StyleAnnotated
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d selected · [%d/%d]", len(m.checkedIDs()), m.Cursor+1, len(m.Frames))))

	return b.String()
}

func (m FramePickerModel) checkedIDs() []string {
	confirmed := m
	confirmed.Confirmed = true
	return confirmed.Selected()
}

// pickFrames runs the picker and returns the chosen frame IDs.
func pickFrames(ctx context.Context, page *scene.Page) ([]string, error) {
	model := NewFramePickerModel(page)
	if len(model.Frames) == 0 {
		return nil, errors.New(errors.ErrCodeNoTargets, "page %q has no frames to pick from", page.Name)
	}
	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, fmt.Errorf("frame picker: %w", err)
	}
	return final.(FramePickerModel).Selected(), nil
}

// countAnnotations counts the annotations in n's subtree.
func countAnnotations(n *scene.Node) int {
	count := 0
	n.Walk(func(c *scene.Node) bool {
		count += len(c.Annotations)
		return true
	})
	return count
}

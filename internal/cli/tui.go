package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bleviet/regcraft/pkg/bitrange"
	"github.com/bleviet/regcraft/pkg/errors"
	"github.com/bleviet/regcraft/pkg/gesture"
	"github.com/bleviet/regcraft/pkg/layout"
	"github.com/bleviet/regcraft/pkg/regmap"
	"github.com/bleviet/regcraft/pkg/session"
)

// Grid geometry. Each bit is a fixed-width cell; the grid row's position is
// fixed so mouse coordinates map straight to bit positions.
const (
	cellW   = 3 // characters per bit cell
	gridRow = 4 // zero-based terminal row of the bit cells
)

// Editor styles.
var (
	styleGridGap     = lipgloss.NewStyle().Foreground(colorDim)
	styleFieldRow    = lipgloss.NewStyle().Foreground(colorWhite)
	styleFieldRowSel = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
)

// gestureCommits buffers the results of gesture callbacks so the model can
// apply them through the session after Commit returns.
type gestureCommits struct {
	resize  *gesture.FieldRange
	create  *[2]uint // hi, lo
	batch   []gesture.FieldRange
	preview []layout.Segment
}

// editorModel is the bubbletea model for the interactive editor. It shows one
// register at a time: a bit grid on top, the field table below.
type editorModel struct {
	sess *session.Session

	block    int
	reg      int
	fieldSel int

	// Cached view of the current register, refreshed after every edit.
	blocks []regmap.AddressBlock
	fields []regmap.BitField
	size   uint

	shift   *gesture.ShiftDrag
	ctrl    *gesture.CtrlDrag
	commits *gestureCommits

	statusErr error
	width     int
}

func newEditorModel(sess *session.Session) (*editorModel, error) {
	m := &editorModel{sess: sess, commits: &gestureCommits{}}

	m.shift = gesture.NewShiftDrag(
		func(fieldIndex int, hi, lo uint) {
			m.commits.resize = &gesture.FieldRange{FieldIndex: fieldIndex, Hi: hi, Lo: lo}
		},
		func(hi, lo uint) {
			m.commits.create = &[2]uint{hi, lo}
		},
	)
	m.ctrl = gesture.NewCtrlDrag(
		func(segments []layout.Segment) {
			m.commits.preview = segments
		},
		func(updates []gesture.FieldRange) {
			m.commits.batch = updates
		},
	)

	if err := m.refresh(); err != nil {
		return nil, err
	}
	return m, nil
}

// refresh reloads the cached blocks and current register from the session,
// clamping the selection when the structure shrank.
func (m *editorModel) refresh() error {
	blocks, err := m.sess.Blocks()
	if err != nil {
		return err
	}
	m.blocks = blocks

	if len(blocks) == 0 {
		m.block, m.reg, m.fieldSel = 0, 0, 0
		m.fields, m.size = nil, regmap.DefaultRegisterSize
		return nil
	}
	m.block = clampIndex(m.block, len(blocks))
	regs := blocks[m.block].Registers
	if len(regs) == 0 {
		m.reg, m.fieldSel = 0, 0
		m.fields, m.size = nil, regmap.DefaultRegisterSize
		return nil
	}
	m.reg = clampIndex(m.reg, len(regs))

	fields, size, err := m.sess.Fields(m.block, m.reg)
	if err != nil {
		// Arrays have no editable fields; show an empty grid.
		m.fields, m.size = nil, regmap.DefaultRegisterSize
		return nil
	}
	m.fields, m.size = fields, size
	m.fieldSel = clampIndex(m.fieldSel, len(fields))
	return nil
}

func clampIndex(i, n int) int {
	if n == 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func (m *editorModel) Init() tea.Cmd { return nil }

func (m *editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.MouseMsg:
		m.updateMouse(msg)
	}
	return m, nil
}

func (m *editorModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.shift.Cancel()
		m.ctrl.Cancel()
		m.commits.preview = nil
		m.statusErr = nil

	case "left":
		m.fieldSel = clampIndex(m.fieldSel-1, len(m.fields))
	case "right":
		m.fieldSel = clampIndex(m.fieldSel+1, len(m.fields))
	case "up":
		m.reg--
		m.apply(m.refresh())
	case "down":
		m.reg++
		m.apply(m.refresh())
	case "tab":
		m.block++
		m.apply(m.refresh())
	case "shift+tab":
		m.block--
		m.apply(m.refresh())

	case "a":
		m.insertField(session.After)
	case "b":
		m.insertField(session.Before)
	case "r":
		m.insertRegister(session.After)
	case "R":
		m.insertRegister(session.Before)
	case "n":
		m.insertBlock(session.After)
	case "N":
		m.insertBlock(session.Before)

	case "d":
		if len(m.fields) > 0 {
			m.apply(m.sess.DeleteField(m.block, m.reg, m.fieldSel))
			m.apply(m.refresh())
		}
	}
	return m, nil
}

func (m *editorModel) insertField(place session.Placement) {
	idx, err := m.sess.InsertField(m.block, m.reg, m.fieldSel, place)
	if m.apply(err) {
		m.fieldSel = idx
		m.apply(m.refresh())
	}
}

func (m *editorModel) insertRegister(place session.Placement) {
	idx, err := m.sess.InsertRegister(m.block, m.reg, place)
	if m.apply(err) {
		m.reg = idx
		m.apply(m.refresh())
	}
}

func (m *editorModel) insertBlock(place session.Placement) {
	idx, err := m.sess.InsertBlock(m.block, place)
	if m.apply(err) {
		m.block = idx
		m.reg = 0
		m.apply(m.refresh())
	}
}

// apply records err for the status line and reports whether the operation
// succeeded.
func (m *editorModel) apply(err error) bool {
	if err != nil {
		m.statusErr = err
		return false
	}
	m.statusErr = nil
	return true
}

// updateMouse routes mouse events into the gesture machines and applies
// their commits through the session.
func (m *editorModel) updateMouse(msg tea.MouseMsg) {
	bit, onGrid := m.bitAt(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !onGrid {
			return
		}
		if msg.Shift {
			// Select the grabbed field first so resize previews track it.
			if owner := layout.FieldOwning(m.fields, bit); owner >= 0 {
				m.fieldSel = owner
			}
			m.shift.Start(m.fields, m.size, bit)
		} else if msg.Ctrl {
			m.ctrl.Start(m.fields, m.size, bit)
		} else if owner := layout.FieldOwning(m.fields, bit); owner >= 0 {
			m.fieldSel = owner
		}

	case tea.MouseActionMotion:
		if m.shift.Active() && onGrid {
			m.shift.Move(bit)
		}
		if m.ctrl.Active() && onGrid {
			m.ctrl.Move(bit)
		}

	case tea.MouseActionRelease:
		if m.shift.Active() {
			m.shift.Commit()
			m.drainShift()
		}
		if m.ctrl.Active() {
			m.ctrl.Commit()
			m.drainCtrl()
		}
	}
}

// drainShift applies a buffered shift-drag commit.
func (m *editorModel) drainShift() {
	if r := m.commits.resize; r != nil {
		m.commits.resize = nil
		m.apply(m.sess.ResizeField(m.block, m.reg, r.FieldIndex, r.Hi, r.Lo))
		m.apply(m.refresh())
	}
	if c := m.commits.create; c != nil {
		m.commits.create = nil
		idx, err := m.sess.CreateField(m.block, m.reg, c[0], c[1])
		if m.apply(err) {
			m.fieldSel = idx
		}
		m.apply(m.refresh())
	}
}

// drainCtrl applies a buffered ctrl-drag batch commit.
func (m *editorModel) drainCtrl() {
	m.commits.preview = nil
	if b := m.commits.batch; b != nil {
		m.commits.batch = nil
		m.apply(m.sess.ApplyFieldRanges(m.block, m.reg, b))
		m.apply(m.refresh())
	}
}

// bitAt maps terminal coordinates to a bit position on the grid row.
func (m *editorModel) bitAt(x, y int) (uint, bool) {
	if y != gridRow || x < 0 {
		return 0, false
	}
	col := uint(x) / cellW
	if col >= m.size {
		return 0, false
	}
	return m.size - 1 - col, true
}

// =============================================================================
// View
// =============================================================================

func (m *editorModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("regcraft"))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render("shift+drag resize/create · ctrl+drag reorder"))
	b.WriteString("\n\n")

	b.WriteString(m.contextLine())
	b.WriteString("\n")

	segments := m.currentSegments()
	b.WriteString(m.bitIndexRow())
	b.WriteString("\n")
	b.WriteString(m.gridRowView(segments))
	b.WriteString("\n\n")

	b.WriteString(m.fieldTable())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

// currentSegments returns what the grid should show: the ctrl-drag preview
// while reordering, the live shift-drag range while resizing or creating,
// otherwise the committed layout.
func (m *editorModel) currentSegments() []layout.Segment {
	if m.commits.preview != nil {
		return m.commits.preview
	}
	segments := layout.BuildSegments(m.fields, m.size)
	if hi, lo, ok := m.shift.Preview(); ok {
		// Replay the layout with the provisional range standing in for the
		// grabbed field (resize) or added on top (create).
		probe := make([]regmap.BitField, 0, len(m.fields)+1)
		for i, f := range m.fields {
			if m.shift.Mode() == gesture.ShiftResizing && i == m.fieldSel {
				continue
			}
			probe = append(probe, f)
		}
		probe = append(probe, regmap.BitField{Name: "·", BitOffset: lo, BitWidth: hi - lo + 1})
		segments = layout.BuildSegments(probe, m.size)
	}
	return segments
}

func (m *editorModel) contextLine() string {
	if len(m.blocks) == 0 {
		return StyleDim.Render("empty map — press n to create an address block")
	}
	blk := m.blocks[m.block]
	line := fmt.Sprintf("block %s (%s)", StyleHighlight.Render(blk.Name),
		bitrange.FormatHex(int64(blk.BaseAddress)))
	if len(blk.Registers) == 0 {
		return line + StyleDim.Render("  ·  no registers — press r")
	}
	r := blk.Registers[m.reg]
	line += fmt.Sprintf("  ·  register %s (+%s)", StyleHighlight.Render(r.RegisterName()),
		bitrange.FormatHex(int64(r.Offset())))
	return line
}

func (m *editorModel) bitIndexRow() string {
	var b strings.Builder
	for bit := int(m.size) - 1; bit >= 0; bit-- {
		b.WriteString(StyleDim.Render(fmt.Sprintf("%*d", cellW-1, bit)))
		b.WriteString(" ")
	}
	return strings.TrimRight(b.String(), " ")
}

func (m *editorModel) gridRowView(segments []layout.Segment) string {
	cells := make([]string, m.size)
	for _, s := range segments {
		for bit := s.End; bit <= s.Start; bit++ {
			col := m.size - 1 - bit
			switch s.Kind {
			case layout.SegmentGap:
				cells[col] = styleGridGap.Render("··")
			case layout.SegmentField:
				style := lipgloss.NewStyle().Foreground(fieldPalette[s.Color%len(fieldPalette)])
				if s.FieldIndex == m.fieldSel {
					style = style.Bold(true).Underline(true)
				}
				cells[col] = style.Render("▇▇")
			}
		}
	}
	for i, c := range cells {
		if c == "" {
			cells[i] = styleGridGap.Render("··")
		}
	}
	return strings.Join(cells, " ")
}

func (m *editorModel) fieldTable() string {
	if len(m.fields) == 0 {
		return StyleDim.Render("no fields — shift+drag on the grid or press a")
	}
	var b strings.Builder
	for i, f := range m.fields {
		style := styleFieldRow
		marker := "  "
		if i == m.fieldSel {
			style = styleFieldRowSel
			marker = "▸ "
		}
		line := fmt.Sprintf("%s%-8s %-20s", marker, f.Range(), f.Name)
		if f.Access != "" {
			line += "  " + StyleDim.Render(f.Access)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *editorModel) statusLine() string {
	if m.statusErr != nil {
		return StyleError.Render(iconError + " " + errors.UserMessage(m.statusErr))
	}
	if m.ctrl.Active() {
		return StyleWarning.Render("reordering — release to commit, esc to cancel")
	}
	if m.shift.Active() {
		if hi, lo, ok := m.shift.Preview(); ok {
			return StyleHighlight.Render(fmt.Sprintf("range %s — release to commit, esc to cancel",
				bitrange.Format(hi, lo)))
		}
	}
	return StyleDim.Render("a/b field · r/R register · n/N block · d delete · q quit")
}

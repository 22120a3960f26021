package components

import (
	"github.com/allbin/pandad/internal/tui/colors"
	"github.com/allbin/pandad/internal/tui/styles"
	"github.com/allbin/pandad/internal/usbdev"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"
)

const (
	columnKeySerial  = "serial"
	columnKeyMode    = "mode"
	columnKeyAddress = "address"
)

// BoardTable renders attached boards as a styled table.
type BoardTable struct {
	table table.Model
}

// NewBoardTable creates an empty board table.
func NewBoardTable() *BoardTable {
	columns := []table.Column{
		table.NewColumn(columnKeySerial, "Serial", 20),
		table.NewColumn(columnKeyMode, "Mode", 10),
		table.NewColumn(columnKeyAddress, "Bus:Dev", 9),
	}

	t := table.New(columns).
		BorderRounded().
		WithBaseStyle(lipgloss.NewStyle().
			BorderForeground(colors.Surface1).
			Foreground(colors.Text))

	return &BoardTable{table: t}
}

// SetBoards replaces the table contents.
func (b *BoardTable) SetBoards(boards []usbdev.BoardInfo) {
	rows := make([]table.Row, 0, len(boards))
	for _, board := range boards {
		serial := board.Serial
		if serial == "" {
			serial = "-"
		}
		rows = append(rows, table.NewRow(table.RowData{
			columnKeySerial:  serial,
			columnKeyMode:    styles.ModeStyle(string(board.Mode)).Render(string(board.Mode)),
			columnKeyAddress: board.Address(),
		}))
	}
	b.table = b.table.WithRows(rows)
}

// View renders the table.
func (b *BoardTable) View() string {
	return b.table.View()
}

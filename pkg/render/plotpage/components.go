package plotpage

import (
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/Sumatoshi-tech/yearcal/pkg/calendar"
	"github.com/Sumatoshi-tech/yearcal/pkg/render"
)

// Table renders a data table with a bold header row.
type Table struct {
	Headers []string
	Rows    [][]string
	Striped bool
}

// NewTable creates a new table.
func NewTable(headers []string) *Table {
	return &Table{Headers: headers}
}

// AddRow appends a row to the table.
func (t *Table) AddRow(cells ...string) *Table {
	t.Rows = append(t.Rows, cells)

	return t
}

// WithStriped enables alternating row colours.
func (t *Table) WithStriped(striped bool) *Table {
	t.Striped = striped

	return t
}

// Render writes the table HTML.
func (t *Table) Render(w io.Writer) error {
	html, err := renderTemplate("table.html", tableData{
		Headers: t.Headers,
		Rows:    t.Rows,
		Striped: t.Striped,
	})
	if err != nil {
		return err
	}

	_, err = w.Write([]byte(html))
	if err != nil {
		return fmt.Errorf("writing table: %w", err)
	}

	return nil
}

// MonthGrids renders month grids as shaded calendar tables, three rows of
// four months.
type MonthGrids struct {
	Months []calendar.MonthGrid
	theme  ThemeConfig
}

// NewMonthGrids creates the grid component for months.
func NewMonthGrids(months []calendar.MonthGrid, theme Theme) *MonthGrids {
	return &MonthGrids{Months: months, theme: GetThemeConfig(theme)}
}

// Render writes the month grids HTML.
func (m *MonthGrids) Render(w io.Writer) error {
	data := monthsData{
		Weekdays: calendar.WeekdayLabels[:],
		Months:   make([]monthData, len(m.Months)),
	}

	for i, grid := range m.Months {
		month := monthData{
			Title: grid.Title(),
			Weeks: make([][]cellData, len(grid.Weeks)),
		}

		for w, week := range grid.Weeks {
			cells := make([]cellData, len(week))
			for col, cell := range week {
				cells[col] = m.cell(grid, cell)
			}

			month.Weeks[w] = cells
		}

		data.Months[i] = month
	}

	html, err := renderTemplate("months.html", data)
	if err != nil {
		return err
	}

	_, err = w.Write([]byte(html))
	if err != nil {
		return fmt.Errorf("writing month grids: %w", err)
	}

	return nil
}

func (m *MonthGrids) cell(grid calendar.MonthGrid, cell calendar.DayCell) cellData {
	background := template.CSS(m.theme.EmptyCell)

	switch cell.Kind {
	case calendar.CellPadding:
		return cellData{Background: background}
	case calendar.CellPlain:
		return cellData{Text: strconv.Itoa(cell.Day), Background: background}
	case calendar.CellEvent:
		return cellData{
			Text:       strconv.Itoa(cell.Day),
			Title:      fmt.Sprintf("%s: %d event(s)", calendar.NewDate(grid.Year, grid.Month, cell.Day), cell.Count),
			Background: template.CSS(render.Shade(cell.Intensity).Hex()),
			HasEvents:  true,
		}
	default:
		return cellData{Background: background}
	}
}

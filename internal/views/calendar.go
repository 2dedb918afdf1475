package views

import (
	"errors"
	"time"

	"pantry/internal/core"
	"pantry/internal/log"
)

// maxInlineLabels caps the receipt labels shown inside a day cell;
// anything beyond becomes an overflow count.
const maxInlineLabels = 3

// ErrEmptyDay signals selection of a day with no receipts; such days
// are not selectable.
var ErrEmptyDay = errors.New("no receipts on this day")

// ReceiptSource provides the receipt snapshot the calendar buckets.
type ReceiptSource interface {
	Receipts() []core.Receipt
}

// CalendarCell aggregates the receipts of one calendar date.
type CalendarCell struct {
	Receipts []core.Receipt
	Total    core.Money
}

// GridCell is one rendered cell of the month grid. Leading blanks pad
// the first week so the grid starts on Monday.
type GridCell struct {
	Blank    bool
	Day      int
	Labels   []string
	Overflow int
	Total    core.Money
	HasData  bool
}

// Grid is a full month, ready for the renderer.
type Grid struct {
	Year  int
	Month int
	Cells []GridCell
}

// DaySelection is the outcome of picking a day: a single receipt opens
// directly, several receipts go through a picker list.
type DaySelection struct {
	Direct  *core.Receipt
	Choices []core.Receipt
}

// Calendar buckets the whole receipt history by calendar date and
// tracks the displayed month. Bucketing is global: navigation never
// re-fetches, it only re-renders.
type Calendar struct {
	source ReceiptSource
	logger *log.Logger

	year  int
	month int
	cells map[string]*CalendarCell
}

func NewCalendar(source ReceiptSource, logger *log.Logger) *Calendar {
	now := time.Now()
	return &Calendar{
		source: source,
		logger: logger.WithComponent(log.ComponentCalendar),
		year:   now.Year(),
		month:  int(now.Month()),
		cells:  make(map[string]*CalendarCell),
	}
}

// Current returns the displayed (year, month) pair.
func (c *Calendar) Current() (year, month int) {
	return c.year, c.month
}

// SetMonth jumps the displayed month to an absolute position.
func (c *Calendar) SetMonth(year, month int) {
	t := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	c.year, c.month = t.Year(), int(t.Month())
}

// Rebuild re-buckets the full receipt collection in one pass. Days
// without receipts get no entry; the map stays sparse.
func (c *Calendar) Rebuild() {
	cells := make(map[string]*CalendarCell)
	for _, r := range c.source.Receipts() {
		key := r.Date.Key()
		cell, ok := cells[key]
		if !ok {
			cell = &CalendarCell{}
			cells[key] = cell
		}
		cell.Receipts = append(cell.Receipts, r)
		cell.Total = cell.Total.Add(r.Total)
	}
	c.cells = cells
	c.logger.Debug("Calendar rebuilt", "days", len(cells))
}

// View renders the month grid, Monday-first. The calendar library
// weekday is Sunday-based, hence the off-by-one remap.
func (c *Calendar) View(year, month int) Grid {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()

	offset := int(first.Weekday()) - 1
	if first.Weekday() == time.Sunday {
		offset = 6
	}

	grid := Grid{
		Year:  year,
		Month: month,
		Cells: make([]GridCell, 0, offset+daysInMonth),
	}
	for i := 0; i < offset; i++ {
		grid.Cells = append(grid.Cells, GridCell{Blank: true})
	}
	for day := 1; day <= daysInMonth; day++ {
		gc := GridCell{Day: day}
		if cell, ok := c.cells[core.NewDate(year, month, day).Key()]; ok {
			gc.HasData = true
			gc.Total = cell.Total
			for i, r := range cell.Receipts {
				if i == maxInlineLabels {
					gc.Overflow = len(cell.Receipts) - maxInlineLabels
					break
				}
				gc.Labels = append(gc.Labels, r.Shop)
			}
		}
		grid.Cells = append(grid.Cells, gc)
	}
	return grid
}

// Navigate shifts the displayed month by delta months, rolling the
// year at any magnitude, and returns the recomputed grid.
func (c *Calendar) Navigate(delta int) Grid {
	t := time.Date(c.year, time.Month(c.month+delta), 1, 0, 0, 0, 0, time.UTC)
	c.year, c.month = t.Year(), int(t.Month())
	return c.View(c.year, c.month)
}

// SelectDay resolves a day of the displayed month. One receipt opens
// directly; several go to a picker; an empty day is not selectable.
func (c *Calendar) SelectDay(day int) (DaySelection, error) {
	cell, ok := c.cells[core.NewDate(c.year, c.month, day).Key()]
	if !ok || len(cell.Receipts) == 0 {
		return DaySelection{}, ErrEmptyDay
	}
	if len(cell.Receipts) == 1 {
		r := cell.Receipts[0]
		return DaySelection{Direct: &r}, nil
	}
	choices := make([]core.Receipt, len(cell.Receipts))
	copy(choices, cell.Receipts)
	return DaySelection{Choices: choices}, nil
}

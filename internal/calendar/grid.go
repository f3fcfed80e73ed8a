package calendar

import (
	"strconv"
	"time"

	"github.com/fruettli/hauskal/internal/dateutil"
	"github.com/fruettli/hauskal/internal/model"
)

// GridCells is the fixed grid size: six full ISO weeks.
const GridCells = 42

// VisibleCap is how many items a cell shows directly before collapsing the
// rest into a "+N" indicator.
const VisibleCap = 3

// Cell is one day of the month grid.
type Cell struct {
	Date           string           `json:"date"` // normalized YYYY-MM-DD
	Day            int              `json:"day"`
	IsCurrentMonth bool             `json:"is_current_month"`
	IsToday        bool             `json:"is_today"`
	Events         []model.Event    `json:"events"`
	SchoolEvents   []model.Event    `json:"school_events"`
	Vacations      []model.Vacation `json:"vacations"`

	// Visible is the capped display list: school events first, then
	// vacations, then primary events. MoreCount is what got collapsed.
	Visible   []CellItem `json:"visible"`
	MoreCount int        `json:"more_count"`
}

// CellItem is one line in a cell's capped display list.
type CellItem struct {
	Kind  string `json:"kind"` // school | vacation | event
	ID    string `json:"id"`
	Title string `json:"title"`
	Time  string `json:"time,omitempty"`
}

// GridBuilder turns an aggregation bundle into the 42-cell month grid. It is
// a pure function of its inputs; nothing is cached between calls.
type GridBuilder struct {
	norm *dateutil.Normalizer
	now  func() time.Time
}

func NewGridBuilder(norm *dateutil.Normalizer, now func() time.Time) *GridBuilder {
	if now == nil {
		now = time.Now
	}
	return &GridBuilder{norm: norm, now: now}
}

// Build returns exactly 42 cells for the month containing anchor, starting at
// the Monday on or before the 1st. Cells outside the anchor month carry
// school events and vacations for visual continuity but no primary events.
func (g *GridBuilder) Build(anchor time.Time, bundle *Bundle) []Cell {
	loc := g.norm.Location()
	anchor = anchor.In(loc)
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, loc)

	// Monday-start offset: Go's Weekday has Sunday = 0.
	offset := (int(first.Weekday()) + 6) % 7
	gridStart := first.AddDate(0, 0, -offset)

	byDay := make(map[string][]model.Event, len(bundle.Events))
	for _, ev := range bundle.Events {
		if ev.Date == "" {
			continue
		}
		byDay[ev.Date] = append(byDay[ev.Date], ev)
	}

	today := g.norm.FormatLocal(g.now())

	cells := make([]Cell, 0, GridCells)
	for i := 0; i < GridCells; i++ {
		day := gridStart.AddDate(0, 0, i)
		key := g.norm.FormatLocal(day)
		inMonth := day.Month() == anchor.Month() && day.Year() == anchor.Year()

		cell := Cell{
			Date:           key,
			Day:            day.Day(),
			IsCurrentMonth: inMonth,
			IsToday:        key == today,
			SchoolEvents:   SchoolDayEvents(bundle, g.norm, key),
			Vacations:      vacationsForDay(bundle.Vacations, g.norm, key),
		}
		if inMonth {
			cell.Events = byDay[key]
		}
		cell.Visible, cell.MoreCount = capItems(cell)
		cells = append(cells, cell)
	}
	return cells
}

func vacationsForDay(vacations []model.Vacation, norm *dateutil.Normalizer, day string) []model.Vacation {
	var out []model.Vacation
	for _, v := range vacations {
		start := norm.Normalize(v.StartDate)
		end := norm.Normalize(v.EndDate)
		if start == "" || end == "" {
			continue
		}
		if day >= start && day <= end {
			out = append(out, v)
		}
	}
	return out
}

// capItems fills the cell's display list up to VisibleCap, preferring school
// events, then vacations, then primary events, so primary events are the
// first to be displaced when the cell is full.
func capItems(cell Cell) ([]CellItem, int) {
	total := len(cell.SchoolEvents) + len(cell.Vacations) + len(cell.Events)
	if total == 0 {
		return nil, 0
	}

	visible := make([]CellItem, 0, VisibleCap)
	add := func(item CellItem) bool {
		if len(visible) >= VisibleCap {
			return false
		}
		visible = append(visible, item)
		return true
	}

	for _, ev := range cell.SchoolEvents {
		if !add(CellItem{Kind: "school", ID: ev.ID, Title: ev.Title}) {
			break
		}
	}
	for _, v := range cell.Vacations {
		if !add(CellItem{Kind: "vacation", ID: vacationItemID(v.ID), Title: v.Title}) {
			break
		}
	}
	for _, ev := range cell.Events {
		if !add(CellItem{Kind: "event", ID: ev.ID, Title: ev.Title, Time: ev.Time}) {
			break
		}
	}

	return visible, total - len(visible)
}

func vacationItemID(id int64) string {
	return "vacation-" + strconv.FormatInt(id, 10)
}

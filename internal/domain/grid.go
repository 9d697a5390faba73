package domain

// Weekday is a recognized day label in the weekly grid.
type Weekday string

// The five recognized weekdays, in display order.
const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
)

// Weekdays is the canonical ordered weekday enumeration. Grid assembly and
// rendering iterate this, never ad hoc literals.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

// TimeSlot is a time-slot label. Slots are opaque strings matched by exact
// equality; no time parsing happens anywhere in the pipeline.
type TimeSlot string

// LunchSlot is always rendered as a lunch period, regardless of row content.
const LunchSlot TimeSlot = "12:00-1:00"

// TimeSlots is the canonical ordered slot enumeration.
var TimeSlots = []TimeSlot{
	"9:00-10:00",
	"10:00-11:00",
	"11:00-12:00",
	LunchSlot,
	"1:00-2:00",
	"2:00-3:00",
	"3:00-4:00",
	"4:00-5:00",
}

// Sentinels appearing in raw rows.
const (
	// DayAll marks rows that apply to every day (lunch markers and the
	// like); such rows never become schedule entries.
	DayAll = "ALL"
	// LunchMarker is the literal course name used for lunch rows.
	LunchMarker = "LUNCH"
	// DayMarker is the decorative emphasis marker that may wrap day cells
	// in raw rows ("**Monday**").
	DayMarker = "**"
)

// IsWeekday reports whether day is one of the five recognized weekday labels.
func IsWeekday(day string) bool {
	for _, d := range Weekdays {
		if string(d) == day {
			return true
		}
	}
	return false
}

// CellState is the tri-state result of looking up a grid cell.
type CellState string

const (
	// CellFree marks a (day, slot) pair with no entries: a free period,
	// not a missing value.
	CellFree CellState = "free"
	// CellLunch marks the lunch slot. It wins over any entry data.
	CellLunch CellState = "lunch"
	// CellOccupied marks a cell holding one or more entries.
	CellOccupied CellState = "occupied"
)

// GridCell is one resolved cell of the weekly grid. For occupied cells the
// first entry is the primary displayed one; the rest are overflow, all
// individually inspectable.
type GridCell struct {
	State   CellState
	Entries []ScheduleEntry
}

// Primary returns the displayed entry of an occupied cell.
func (c GridCell) Primary() (ScheduleEntry, bool) {
	if c.State != CellOccupied || len(c.Entries) == 0 {
		return ScheduleEntry{}, false
	}
	return c.Entries[0], true
}

// Overflow returns how many entries beyond the primary the cell holds.
func (c GridCell) Overflow() int {
	if c.State != CellOccupied || len(c.Entries) == 0 {
		return 0
	}
	return len(c.Entries) - 1
}

// WeeklyGrid is a day × time-slot index of schedule entries. Keys that were
// never added represent free periods; the lunch slot is forced to the lunch
// state no matter what was added there.
type WeeklyGrid struct {
	cells map[Weekday]map[TimeSlot][]ScheduleEntry
}

// NewWeeklyGrid returns an empty grid.
func NewWeeklyGrid() *WeeklyGrid {
	return &WeeklyGrid{cells: make(map[Weekday]map[TimeSlot][]ScheduleEntry)}
}

// Add appends an entry to its exact (day, time) group, preserving insertion
// order within the group.
func (g *WeeklyGrid) Add(e ScheduleEntry) {
	day := Weekday(e.Day)
	slot := TimeSlot(e.Time)
	if g.cells[day] == nil {
		g.cells[day] = make(map[TimeSlot][]ScheduleEntry)
	}
	g.cells[day][slot] = append(g.cells[day][slot], e)
}

// Cell resolves the tri-state cell for a (day, slot) pair. Callers never
// null-check: absence is CellFree, the lunch slot is always CellLunch.
func (g *WeeklyGrid) Cell(day Weekday, slot TimeSlot) GridCell {
	if slot == LunchSlot {
		return GridCell{State: CellLunch}
	}
	entries := g.cells[day][slot]
	if len(entries) == 0 {
		return GridCell{State: CellFree}
	}
	return GridCell{State: CellOccupied, Entries: entries}
}

// Len returns the total number of entries in the grid, lunch excluded.
func (g *WeeklyGrid) Len() int {
	n := 0
	for day, slots := range g.cells {
		for slot, entries := range slots {
			if g.Cell(day, slot).State == CellOccupied {
				n += len(entries)
			}
		}
	}
	return n
}

package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/mseboard/internal/record"
	"github.com/JonMunkholm/mseboard/internal/unit"
	"github.com/xuri/excelize/v2"
)

const (
	// ContentType is the MIME type of generated workbooks.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	allRecordsSheet = "Все записи"
	oversightSheet  = "Записи"
	defaultSheet    = "Sheet1"
	selectorAll     = "all"

	maxSheetNameLen = 31
)

// Selector names what an export covers: everything, or one unit.
type Selector struct {
	all  bool
	unit unit.Unit
}

// AllUnits selects every record with one sheet per configured unit.
var AllUnits = Selector{all: true}

// ForUnit selects a single unit.
func ForUnit(u unit.Unit) Selector { return Selector{unit: u} }

// ParseSelector accepts "all" or a unit identifier.
func ParseSelector(s string) (Selector, error) {
	if strings.EqualFold(strings.TrimSpace(s), selectorAll) {
		return AllUnits, nil
	}
	u, err := unit.Parse(s)
	if err != nil {
		return Selector{}, err
	}
	return ForUnit(u), nil
}

// Consolidated reports whether the export renders in the consolidated
// layout. The oversight unit sees everything, so its sheet mixes unit kinds.
func (s Selector) Consolidated() bool { return s.all || s.unit.IsOversight() }

// Unit returns the selected unit and false for "all".
func (s Selector) Unit() (unit.Unit, bool) { return s.unit, !s.all }

func (s Selector) String() string {
	if s.all {
		return selectorAll
	}
	return s.unit.String()
}

// FileName is the download name for an export made on day.
func FileName(s Selector, day time.Time) string {
	stamp := day.Format("20060102")
	switch {
	case s.all:
		return "mse_all_records_" + stamp + ".xlsx"
	case s.unit.IsOversight():
		return "mse_records_" + stamp + ".xlsx"
	default:
		return fmt.Sprintf("mse_%s_records_%s.xlsx", s.unit, stamp)
	}
}

// SheetName truncates name to the 31 characters a sheet title may hold.
func SheetName(name string) string {
	r := []rune(name)
	if len(r) > maxSheetNameLen {
		r = r[:maxSheetNameLen]
	}
	return string(r)
}

// sheetPlan is one sheet to render, in creation order.
type sheetPlan struct {
	name    string
	records []record.Record
	mode    Mode
	hint    unit.Kind
}

// Assemble renders records into a workbook and returns its bytes.
//
// The all selector yields the all-records sheet, then a sheet per configured
// bureau in ascending order, then per expert panel in configured order. The
// oversight unit gets a single consolidated sheet of every record. Any other
// unit gets one sheet holding only its own records. Any failure discards the
// whole workbook.
func Assemble(records []record.Record, sel Selector, dir *unit.Directory) ([]byte, error) {
	return render(planSheets(records, sel, dir))
}

func render(plan []sheetPlan) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i, p := range plan {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, p.name); err != nil {
				return nil, fmt.Errorf("rename sheet %q: %w", p.name, err)
			}
		} else if _, err := f.NewSheet(p.name); err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", p.name, err)
		}

		if err := BuildSheet(f, p.name, p.records, p.mode, p.hint); err != nil {
			return nil, fmt.Errorf("build sheet %q: %w", p.name, err)
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func planSheets(records []record.Record, sel Selector, dir *unit.Directory) []sheetPlan {
	if !sel.all {
		if sel.unit.IsOversight() {
			return []sheetPlan{{
				name:    SheetName(oversightSheet),
				records: records,
				mode:    Consolidated,
				hint:    unit.Bureau,
			}}
		}
		own := make([]record.Record, 0, len(records))
		for _, r := range records {
			if r.Unit == sel.unit {
				own = append(own, r)
			}
		}
		return []sheetPlan{{
			name:    SheetName(sel.unit.Label()),
			records: own,
			mode:    SingleUnit,
			hint:    sel.unit.Kind,
		}}
	}

	byUnit := make(map[unit.Unit][]record.Record)
	for _, r := range records {
		byUnit[r.Unit] = append(byUnit[r.Unit], r)
	}

	plan := []sheetPlan{{
		name:    SheetName(allRecordsSheet),
		records: records,
		mode:    Consolidated,
		hint:    unit.Bureau,
	}}
	units := append(dir.Bureaus(), dir.Experts()...)
	for _, u := range units {
		plan = append(plan, sheetPlan{
			name:    SheetName(u.Label()),
			records: byUnit[u],
			mode:    SingleUnit,
			hint:    u.Kind,
		})
	}
	return plan
}

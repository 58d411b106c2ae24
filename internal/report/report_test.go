package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/mseboard/internal/record"
	"github.com/JonMunkholm/mseboard/internal/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newRecord(t *testing.T, id int64, u string, kv ...any) record.Record {
	t.Helper()
	p := record.Payload{{Key: "mseDate", Value: "2024-01-15"}}
	for i := 0; i+1 < len(kv); i += 2 {
		p = append(p, record.Entry{Key: kv[i].(string), Value: kv[i+1]})
	}
	n, err := record.Normalize(p, nil)
	require.NoError(t, err)

	r := record.Record{ID: id, Unit: unit.MustParse(u)}
	r.Apply(n)
	return r
}

func testDirectory(t *testing.T) *unit.Directory {
	t.Helper()
	dir, err := unit.NewDirectory(42, []int{25, 26, 27, 31, 41}, []int{1, 2, 3, 5, 8, 9})
	require.NoError(t, err)
	return dir
}

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func buildOne(t *testing.T, records []record.Record, mode Mode, hint unit.Kind) (*excelize.File, [][]string) {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })

	require.NoError(t, BuildSheet(f, "Sheet1", records, mode, hint))
	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	return f, rows
}

func TestBuildSheet_EmptyBatch(t *testing.T) {
	tests := []struct {
		name    string
		mode    Mode
		hint    unit.Kind
		columns int
		first   string
	}{
		{"bureau", SingleUnit, unit.Bureau, 26, headerSequence},
		{"expert", SingleUnit, unit.ExpertPanel, 28, headerSequence},
		{"oversight", SingleUnit, unit.Oversight, 26, headerSequence},
		{"consolidated", Consolidated, unit.Bureau, 26, headerSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, rows := buildOne(t, nil, tt.mode, tt.hint)

			require.Len(t, rows, 2)
			assert.Len(t, rows[0], tt.columns)
			assert.Equal(t, tt.first, rows[0][0])
			assert.Equal(t, placeholderText, rows[1][0])

			merged, err := f.GetMergeCells("Sheet1")
			require.NoError(t, err)
			assert.Empty(t, merged)

			lastCol, err := excelize.ColumnNumberToName(tt.columns)
			require.NoError(t, err)
			first, err := f.GetCellStyle("Sheet1", "A2")
			require.NoError(t, err)
			last, err := f.GetCellStyle("Sheet1", lastCol+"2")
			require.NoError(t, err)
			assert.NotZero(t, first)
			assert.Equal(t, first, last)

			for _, col := range []string{"A", "B", lastCol} {
				w, err := f.GetColWidth("Sheet1", col)
				require.NoError(t, err)
				assert.InDelta(t, emptyColumnWidth, w, 0.01, col)
			}
		})
	}
}

func TestBuildSheet_SingleUnitRows(t *testing.T) {
	records := []record.Record{
		newRecord(t, 1, "bureau_3",
			"fullName", "  Ivan   Petrov  ",
			"specialMarks", []any{"amputee", "svo"},
			"birthDate", "1980-02-01",
			"ageCategory", "adult",
			"ipraContainsTsr", "no",
			"purpose", "disabled_child",
		),
		newRecord(t, 2, "bureau_3", "fullName", "Anna", "specialMarks", "bogus"),
	}

	_, rows := buildOne(t, records, SingleUnit, unit.Bureau)
	require.Len(t, rows, 3)

	header := rows[0]
	require.Len(t, header, 26)
	assert.Equal(t, "ИПРА содержит ТСР", header[24])

	first := rows[1]
	assert.Equal(t, "1", first[0])
	assert.Equal(t, "Ivan Petrov", first[1])
	assert.Equal(t, "01.02.1980", first[2])
	assert.Equal(t, "15.01.2024", first[4])
	assert.Equal(t, "Взрослые", first[7])
	assert.Equal(t, "Ампутант; Участник СВО", first[8])
	assert.Equal(t, "Категория 'ребенок-инвалид'", first[11])
	assert.Equal(t, "Нет", first[24])

	assert.Equal(t, "2", rows[2][0])
	assert.Equal(t, "bogus", rows[2][8])
}

func TestBuildSheet_ExpertLayout(t *testing.T) {
	records := []record.Record{
		newRecord(t, 7, "expert_5", "procedureType", "appeal", "changed", "yes", "purpose", "disabled_child"),
	}

	_, rows := buildOne(t, records, SingleUnit, unit.Bureau)
	require.Len(t, rows, 2)
	require.Len(t, rows[0], 28)
	assert.Equal(t, "Порядок проведения МСЭ", rows[0][23])
	assert.Equal(t, "Обжалование", rows[1][23])
	assert.Equal(t, "Да", rows[1][27])
	assert.Equal(t, "Категория ребенок-инвалид", rows[1][11])
}

func TestBuildSheet_MixedKinds(t *testing.T) {
	records := []record.Record{
		newRecord(t, 1, "bureau_1", "ipraDirection", "regular"),
		newRecord(t, 2, "expert_2", "procedureType", "control"),
		newRecord(t, 3, "omo"),
	}

	t.Run("single unit fails", func(t *testing.T) {
		f := excelize.NewFile()
		defer f.Close()
		err := BuildSheet(f, "Sheet1", records, SingleUnit, unit.Bureau)
		assert.True(t, errors.Is(err, ErrMixedUnitKinds))
	})

	t.Run("consolidated renders both suffixes", func(t *testing.T) {
		_, rows := buildOne(t, records, Consolidated, unit.Bureau)
		require.Len(t, rows, 4)
		require.Len(t, rows[0], 31)

		assert.Equal(t, headerSource, rows[0][0])
		assert.Equal(t, "Бюро №1", rows[1][0])
		assert.Equal(t, "В очередной срок", rows[1][23])
		assert.Equal(t, "ЭС №2", rows[2][0])
		assert.Equal(t, "Контроль", rows[2][26])
		assert.Equal(t, "omo", rows[3][0])
	})
}

func TestBuildSheet_OversightAndBureauShareLayout(t *testing.T) {
	records := []record.Record{newRecord(t, 1, "omo"), newRecord(t, 2, "bureau_4")}
	_, rows := buildOne(t, records, SingleUnit, unit.Oversight)
	assert.Len(t, rows, 3)
}

func TestBuildSheet_ColumnWidths(t *testing.T) {
	long := strings.Repeat("x", 80)
	records := []record.Record{newRecord(t, 1, "bureau_2", "mainDiagnosis", long, "snils", "123")}

	f, _ := buildOne(t, records, SingleUnit, unit.Bureau)

	w, err := f.GetColWidth("Sheet1", "V")
	require.NoError(t, err)
	assert.InDelta(t, maxColumnWidth, w, 0.01)

	// "СНИЛС" header is longer than the value.
	w, err = f.GetColWidth("Sheet1", "D")
	require.NoError(t, err)
	assert.InDelta(t, columnWidth(5), w, 0.01)
}

func TestColumnWidth(t *testing.T) {
	assert.InDelta(t, 6.0, columnWidth(3), 1e-9)
	assert.InDelta(t, 50.0, columnWidth(40), 1e-9)
	assert.InDelta(t, 49.2, columnWidth(39), 1e-9)
}

func TestAssemble_AllSheets(t *testing.T) {
	dir := testDirectory(t)
	records := []record.Record{
		newRecord(t, 1, "bureau_3", "fullName", "Ivan"),
		newRecord(t, 2, "expert_5", "fullName", "Olga"),
		newRecord(t, 3, "bureau_3", "fullName", "Petr"),
	}

	data, err := Assemble(records, AllUnits, dir)
	require.NoError(t, err)
	f := openWorkbook(t, data)

	sheets := f.GetSheetList()
	require.Len(t, sheets, 1+(42-5)+6)
	assert.Equal(t, "Все записи", sheets[0])
	assert.Equal(t, "Бюро №1", sheets[1])
	assert.Equal(t, "Бюро №42", sheets[37])
	assert.Equal(t, []string{"ЭС №1", "ЭС №2", "ЭС №3", "ЭС №5", "ЭС №8", "ЭС №9"}, sheets[38:])
	assert.NotContains(t, sheets, "Бюро №25")

	all, err := f.GetRows("Все записи")
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "Бюро №3", all[1][0])

	b3, err := f.GetRows("Бюро №3")
	require.NoError(t, err)
	require.Len(t, b3, 3)
	assert.Equal(t, "Ivan", b3[1][1])
	assert.Equal(t, "Petr", b3[2][1])

	e5, err := f.GetRows("ЭС №5")
	require.NoError(t, err)
	require.Len(t, e5, 2)
	assert.Len(t, e5[0], 28)

	b1, err := f.GetRows("Бюро №1")
	require.NoError(t, err)
	require.Len(t, b1, 2)
	assert.Equal(t, placeholderText, b1[1][0])
}

func TestAssemble_Deterministic(t *testing.T) {
	dir := testDirectory(t)
	records := []record.Record{newRecord(t, 1, "expert_9"), newRecord(t, 2, "bureau_40")}

	var lists [][]string
	for range 3 {
		data, err := Assemble(records, AllUnits, dir)
		require.NoError(t, err)
		lists = append(lists, openWorkbook(t, data).GetSheetList())
	}
	assert.Equal(t, lists[0], lists[1])
	assert.Equal(t, lists[0], lists[2])
}

func TestAssemble_EmptyExpertExport(t *testing.T) {
	sel, err := ParseSelector("expert_5")
	require.NoError(t, err)

	data, err := Assemble(nil, sel, testDirectory(t))
	require.NoError(t, err)
	f := openWorkbook(t, data)

	require.Equal(t, []string{"ЭС №5"}, f.GetSheetList())
	rows, err := f.GetRows("ЭС №5")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Len(t, rows[0], 28)
	assert.Equal(t, placeholderText, rows[1][0])
}

func TestAssemble_OversightIsConsolidated(t *testing.T) {
	sel, err := ParseSelector("OMO")
	require.NoError(t, err)
	assert.True(t, sel.Consolidated())

	records := []record.Record{
		newRecord(t, 1, "bureau_1"),
		newRecord(t, 2, "expert_1", "procedureType", "control"),
		newRecord(t, 3, "omo"),
	}
	data, err := Assemble(records, sel, testDirectory(t))
	require.NoError(t, err)
	f := openWorkbook(t, data)

	require.Equal(t, []string{"Записи"}, f.GetSheetList())
	rows, err := f.GetRows("Записи")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, headerSource, rows[0][0])
	assert.Equal(t, "Бюро №1", rows[1][0])
	assert.Equal(t, "ЭС №1", rows[2][0])
	assert.Equal(t, "omo", rows[3][0])
}

func TestAssemble_EmptyOversightExport(t *testing.T) {
	data, err := Assemble(nil, ForUnit(unit.OMO), testDirectory(t))
	require.NoError(t, err)
	f := openWorkbook(t, data)

	require.Equal(t, []string{"Записи"}, f.GetSheetList())
	rows, err := f.GetRows("Записи")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, headerSource, rows[0][0])
	assert.Equal(t, placeholderText, rows[1][0])
}

func TestAssemble_UnitSelectorFilters(t *testing.T) {
	records := []record.Record{
		newRecord(t, 1, "bureau_1"),
		newRecord(t, 2, "bureau_2"),
		newRecord(t, 3, "expert_1"),
		newRecord(t, 4, "bureau_1"),
	}

	data, err := Assemble(records, ForUnit(unit.NewBureau(1)), testDirectory(t))
	require.NoError(t, err)
	f := openWorkbook(t, data)

	require.Equal(t, []string{"Бюро №1"}, f.GetSheetList())
	rows, err := f.GetRows("Бюро №1")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "2", rows[2][0])
	assert.Len(t, rows[0], 26)
}

func TestAssemble_FailureReturnsNothing(t *testing.T) {
	plan := []sheetPlan{
		{name: "Бюро №1", mode: SingleUnit, hint: unit.Bureau},
		{
			name:    "Бюро №2",
			records: []record.Record{newRecord(t, 1, "bureau_2"), newRecord(t, 2, "expert_1")},
			mode:    SingleUnit,
			hint:    unit.Bureau,
		},
	}
	data, err := render(plan)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMixedUnitKinds))
	assert.Nil(t, data)
}

func TestParseSelector(t *testing.T) {
	for _, in := range []string{"all", "ALL", " all "} {
		sel, err := ParseSelector(in)
		require.NoError(t, err)
		assert.Equal(t, AllUnits, sel)
	}

	sel, err := ParseSelector("bureau_12")
	require.NoError(t, err)
	u, ok := sel.Unit()
	assert.True(t, ok)
	assert.Equal(t, unit.NewBureau(12), u)
	assert.False(t, sel.Consolidated())

	_, err = ParseSelector("bureau_x")
	assert.ErrorIs(t, err, unit.ErrMalformed)
}

func TestFileName(t *testing.T) {
	day := time.Date(2024, time.March, 9, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, "mse_all_records_20240309.xlsx", FileName(AllUnits, day))
	assert.Equal(t, "mse_bureau_7_records_20240309.xlsx", FileName(ForUnit(unit.NewBureau(7)), day))
	assert.Equal(t, "mse_expert_5_records_20240309.xlsx", FileName(ForUnit(unit.NewExpert(5)), day))
	assert.Equal(t, "mse_records_20240309.xlsx", FileName(ForUnit(unit.OMO), day))
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "ЭС №5", SheetName("ЭС №5"))

	long := strings.Repeat("Б", 40)
	got := SheetName(long)
	assert.Equal(t, 31, len([]rune(got)))
}

package report

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/JonMunkholm/mseboard/internal/record"
	"github.com/JonMunkholm/mseboard/internal/taxonomy"
)

// Column headers are fixed Russian strings; the workbook is read by people.
const (
	headerSequence = "№ п/п"
	headerSource   = "Источник"

	placeholderText = "Нет записей"
)

type column struct {
	header string
	field  record.Field
}

// commonColumns follow the leading sequence/source column. Together they
// form the 23-column prefix every unit type shares.
var commonColumns = []column{
	{"ФИО", record.FullName},
	{"Дата рождения", record.BirthDate},
	{"СНИЛС", record.SNILS},
	{"Дата проведения МСЭ", record.MSEDate},
	{"Дата вынесения решения", record.DecisionDate},
	{"Дата регистрации направления", record.RegDate},
	{"Возрастная категория", record.AgeCategory},
	{"Особые отметки", record.SpecialMarks},
	{"Воинский учет", record.MilitaryRegistration},
	{"Формат документа", record.DocumentFormat},
	{"Цель освидетельствования", record.Purpose},
	{"МСЭ проводится", record.MSEType},
	{"Форма проведения МСЭ", record.MSEForm},
	{"Изменение формы проведения МСЭ", record.MSEFormChange},
	{"Инвалидность (предыдущая МСЭ)", record.PrevDisability},
	{"Причина инвалидности (предыдущая МСЭ)", record.PrevDisabilityReason},
	{"Срок инвалидности (предыдущая МСЭ)", record.PrevDisabilityTerm},
	{"Инвалидность (текущая МСЭ)", record.CurrentDisability},
	{"Причина инвалидности (текущая МСЭ)", record.CurrentDisabilityReason},
	{"Срок инвалидности (текущая МСЭ)", record.CurrentDisabilityTerm},
	{"Диагноз основной (с шифром МКБ)", record.MainDiagnosis},
	{"ПДО разработана", record.PDODeveloped},
}

var expertColumns = []column{
	{"Порядок проведения МСЭ", record.ProcedureType},
	{"Решение изменено в части", record.DecisionChangedPart},
	{"Из них изменено в части ТСР", record.TSRChanged},
	{"МСЭ по обращению ОСФР", record.SFRAppeal},
	{"Из них изменено", record.Changed},
}

var bureauColumns = []column{
	{"Разработана ИПРА по направлению", record.IPRADirection},
	{"ИПРА содержит ТСР", record.IPRAContainsTSR},
	{"Внесение изменений в ИПРА", record.IPRAChanges},
}

// layout is the resolved column set of one sheet.
type layout struct {
	mode    Mode
	columns []column
}

func newLayout(mode Mode, suffix ...[]column) layout {
	cols := make([]column, 0, len(commonColumns)+len(expertColumns)+len(bureauColumns))
	cols = append(cols, commonColumns...)
	for _, s := range suffix {
		cols = append(cols, s...)
	}
	return layout{mode: mode, columns: cols}
}

// width counts the leading column too.
func (l layout) width() int { return len(l.columns) + 1 }

func (l layout) headers() []string {
	out := make([]string, 0, l.width())
	if l.mode == Consolidated {
		out = append(out, headerSource)
	} else {
		out = append(out, headerSequence)
	}
	for _, c := range l.columns {
		out = append(out, c.header)
	}
	return out
}

// row renders one record. seq is the 1-based position in the sheet.
func (l layout) row(r *record.Record, seq int) []string {
	out := make([]string, 0, l.width())
	if l.mode == Consolidated {
		out = append(out, r.Unit.Label())
	} else {
		out = append(out, strconv.Itoa(seq))
	}
	for _, c := range l.columns {
		out = append(out, cellText(r, c.field))
	}
	return out
}

// cellText renders one field with the record's own unit taxonomy.
func cellText(r *record.Record, f record.Field) string {
	if f.IsDate() {
		return record.FormatDate(r.Date(f))
	}
	raw := r.Text(f)
	if f == record.SpecialMarks {
		return strings.Join(taxonomy.Resolve(r.Unit.Kind).RenderCodes(f, raw), "; ")
	}
	return taxonomy.Render(r.Unit, f, raw)
}

// columnWidth is the auto-fit width for a column whose longest value has
// n characters.
func columnWidth(n int) float64 {
	return min(float64(n+2)*1.2, maxColumnWidth)
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }

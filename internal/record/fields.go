package record

import "strings"

// Field is a canonical (database) field name of a case record.
type Field string

const (
	FullName                Field = "full_name"
	BirthDate               Field = "birth_date"
	SNILS                   Field = "snils"
	AgeCategory             Field = "age_category"
	MSEDate                 Field = "mse_date"
	DecisionDate            Field = "decision_date"
	RegDate                 Field = "reg_date"
	SpecialMarks            Field = "special_marks"
	MilitaryRegistration    Field = "military_registration"
	DocumentFormat          Field = "document_format"
	Purpose                 Field = "purpose"
	MSEType                 Field = "mse_type"
	MSEForm                 Field = "mse_form"
	MSEFormChange           Field = "mse_form_change"
	PrevDisability          Field = "prev_disability"
	PrevDisabilityReason    Field = "prev_disability_reason"
	PrevDisabilityTerm      Field = "prev_disability_term"
	CurrentDisability       Field = "current_disability"
	CurrentDisabilityReason Field = "current_disability_reason"
	CurrentDisabilityTerm   Field = "current_disability_term"
	MainDiagnosis           Field = "main_diagnosis"
	PDODeveloped            Field = "pdo_developed"

	// Expert panel fields.
	ProcedureType       Field = "procedure_type"
	DecisionChangedPart Field = "decision_changed_part"
	TSRChanged          Field = "tsr_changed"
	SFRAppeal           Field = "sfr_appeal"
	Changed             Field = "changed"

	// Bureau fields.
	IPRADirection   Field = "ipra_direction"
	IPRAContainsTSR Field = "ipra_contains_tsr"
	IPRAChanges     Field = "ipra_changes"
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindDate
	kindSet
)

// fieldDef describes one canonical field and its camelCase spelling.
type fieldDef struct {
	name  Field
	camel string
	kind  fieldKind
}

// fieldDefs lists every field in storage order.
var fieldDefs = []fieldDef{
	{FullName, "fullName", kindText},
	{BirthDate, "birthDate", kindDate},
	{SNILS, "snils", kindText},
	{AgeCategory, "ageCategory", kindText},
	{MSEDate, "mseDate", kindDate},
	{DecisionDate, "decisionDate", kindDate},
	{RegDate, "regDate", kindDate},
	{SpecialMarks, "specialMarks", kindSet},
	{MilitaryRegistration, "militaryRegistration", kindText},
	{DocumentFormat, "documentFormat", kindText},
	{Purpose, "purpose", kindText},
	{MSEType, "mseType", kindText},
	{MSEForm, "mseForm", kindText},
	{MSEFormChange, "mseFormChange", kindText},
	{PrevDisability, "prevDisability", kindText},
	{PrevDisabilityReason, "prevDisabilityReason", kindText},
	{PrevDisabilityTerm, "prevDisabilityTerm", kindText},
	{CurrentDisability, "currentDisability", kindText},
	{CurrentDisabilityReason, "currentDisabilityReason", kindText},
	{CurrentDisabilityTerm, "currentDisabilityTerm", kindText},
	{MainDiagnosis, "mainDiagnosis", kindText},
	{PDODeveloped, "pdoDeveloped", kindText},
	{ProcedureType, "procedureType", kindText},
	{DecisionChangedPart, "decisionChangedPart", kindText},
	{TSRChanged, "tsrChanged", kindText},
	{SFRAppeal, "sfrAppeal", kindText},
	{Changed, "changed", kindText},
	{IPRADirection, "ipraDirection", kindText},
	{IPRAContainsTSR, "ipraContainsTsr", kindText},
	{IPRAChanges, "ipraChanges", kindText},
}

// legacyAliases are older expert-panel spellings that collapse onto shared
// fields.
var legacyAliases = map[string]Field{
	"expertDocumentFormat": DocumentFormat,
	"expertPurpose":        Purpose,
	"pdoDevelopedExpert":   PDODeveloped,
}

// droppedKeys are payload keys that never become record fields. The owning
// unit and the id travel outside the payload.
var droppedKeys = map[string]bool{
	"bureaunumber": true,
	"id":           true,
}

var (
	keyTable = buildKeyTable()
	kinds    = buildKinds()
)

// foldKey makes snake_case and camelCase spellings of a key compare equal.
func foldKey(k string) string {
	return strings.ToLower(strings.ReplaceAll(k, "_", ""))
}

func buildKeyTable() map[string]Field {
	t := make(map[string]Field, len(fieldDefs)+len(legacyAliases))
	for _, def := range fieldDefs {
		t[foldKey(string(def.name))] = def.name
		t[foldKey(def.camel)] = def.name
	}
	for alias, f := range legacyAliases {
		t[foldKey(alias)] = f
	}
	return t
}

func buildKinds() map[Field]fieldKind {
	m := make(map[Field]fieldKind, len(fieldDefs))
	for _, def := range fieldDefs {
		m[def.name] = def.kind
	}
	return m
}

// LookupKey resolves an external payload key to its canonical field.
func LookupKey(key string) (Field, bool) {
	f, ok := keyTable[foldKey(key)]
	return f, ok
}

// Fields returns all canonical fields in storage order.
func Fields() []Field {
	out := make([]Field, len(fieldDefs))
	for i, def := range fieldDefs {
		out[i] = def.name
	}
	return out
}

// IsDate reports whether f holds a calendar date.
func (f Field) IsDate() bool { return kinds[f] == kindDate }

// Valid reports whether f is a known canonical field.
func (f Field) Valid() bool {
	_, ok := kinds[f]
	return ok
}

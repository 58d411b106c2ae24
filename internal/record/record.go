// Package record defines the MSE case record and the normalizer that turns
// submitted payloads into its canonical shape.
package record

import (
	"time"

	"github.com/JonMunkholm/mseboard/internal/unit"
	"github.com/jackc/pgx/v5/pgtype"
)

// Record is one persisted MSE decision.
type Record struct {
	ID   int64     `json:"id"`
	Unit unit.Unit `json:"bureauNumber"`

	FullName     pgtype.Text `json:"fullName"`
	BirthDate    pgtype.Date `json:"birthDate"`
	SNILS        pgtype.Text `json:"snils"`
	AgeCategory  pgtype.Text `json:"ageCategory"`
	MSEDate      pgtype.Date `json:"mseDate"`
	DecisionDate pgtype.Date `json:"decisionDate"`
	RegDate      pgtype.Date `json:"regDate"`

	SpecialMarks         pgtype.Text `json:"specialMarks"`
	MilitaryRegistration pgtype.Text `json:"militaryRegistration"`
	DocumentFormat       pgtype.Text `json:"documentFormat"`
	Purpose              pgtype.Text `json:"purpose"`
	MSEType              pgtype.Text `json:"mseType"`
	MSEForm              pgtype.Text `json:"mseForm"`
	MSEFormChange        pgtype.Text `json:"mseFormChange"`

	PrevDisability          pgtype.Text `json:"prevDisability"`
	PrevDisabilityReason    pgtype.Text `json:"prevDisabilityReason"`
	PrevDisabilityTerm      pgtype.Text `json:"prevDisabilityTerm"`
	CurrentDisability       pgtype.Text `json:"currentDisability"`
	CurrentDisabilityReason pgtype.Text `json:"currentDisabilityReason"`
	CurrentDisabilityTerm   pgtype.Text `json:"currentDisabilityTerm"`

	MainDiagnosis pgtype.Text `json:"mainDiagnosis"`
	PDODeveloped  pgtype.Text `json:"pdoDeveloped"`

	ProcedureType       pgtype.Text `json:"procedureType"`
	DecisionChangedPart pgtype.Text `json:"decisionChangedPart"`
	TSRChanged          pgtype.Text `json:"tsrChanged"`
	SFRAppeal           pgtype.Text `json:"sfrAppeal"`
	Changed             pgtype.Text `json:"changed"`

	IPRADirection   pgtype.Text `json:"ipraDirection"`
	IPRAContainsTSR pgtype.Text `json:"ipraContainsTsr"`
	IPRAChanges     pgtype.Text `json:"ipraChanges"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Slot returns a pointer to the storage for f: *pgtype.Text or
// *pgtype.Date. It returns nil for unknown fields.
func (r *Record) Slot(f Field) any {
	switch f {
	case FullName:
		return &r.FullName
	case BirthDate:
		return &r.BirthDate
	case SNILS:
		return &r.SNILS
	case AgeCategory:
		return &r.AgeCategory
	case MSEDate:
		return &r.MSEDate
	case DecisionDate:
		return &r.DecisionDate
	case RegDate:
		return &r.RegDate
	case SpecialMarks:
		return &r.SpecialMarks
	case MilitaryRegistration:
		return &r.MilitaryRegistration
	case DocumentFormat:
		return &r.DocumentFormat
	case Purpose:
		return &r.Purpose
	case MSEType:
		return &r.MSEType
	case MSEForm:
		return &r.MSEForm
	case MSEFormChange:
		return &r.MSEFormChange
	case PrevDisability:
		return &r.PrevDisability
	case PrevDisabilityReason:
		return &r.PrevDisabilityReason
	case PrevDisabilityTerm:
		return &r.PrevDisabilityTerm
	case CurrentDisability:
		return &r.CurrentDisability
	case CurrentDisabilityReason:
		return &r.CurrentDisabilityReason
	case CurrentDisabilityTerm:
		return &r.CurrentDisabilityTerm
	case MainDiagnosis:
		return &r.MainDiagnosis
	case PDODeveloped:
		return &r.PDODeveloped
	case ProcedureType:
		return &r.ProcedureType
	case DecisionChangedPart:
		return &r.DecisionChangedPart
	case TSRChanged:
		return &r.TSRChanged
	case SFRAppeal:
		return &r.SFRAppeal
	case Changed:
		return &r.Changed
	case IPRADirection:
		return &r.IPRADirection
	case IPRAContainsTSR:
		return &r.IPRAContainsTSR
	case IPRAChanges:
		return &r.IPRAChanges
	}
	return nil
}

// Text returns the string value of a text field, "" for NULL or for date
// fields.
func (r *Record) Text(f Field) string {
	if t, ok := r.Slot(f).(*pgtype.Text); ok && t.Valid {
		return t.String
	}
	return ""
}

// Date returns the value of a date field.
func (r *Record) Date(f Field) pgtype.Date {
	if d, ok := r.Slot(f).(*pgtype.Date); ok {
		return *d
	}
	return pgtype.Date{}
}

// Apply copies every field present in n onto r.
func (r *Record) Apply(n Normalized) {
	for _, f := range n.order {
		switch slot := r.Slot(f).(type) {
		case *pgtype.Text:
			*slot = n.Text(f)
		case *pgtype.Date:
			*slot = n.Date(f)
		}
	}
}

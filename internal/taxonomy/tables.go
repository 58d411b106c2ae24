package taxonomy

import "github.com/JonMunkholm/mseboard/internal/record"

// disabilityGroups, disabilityReasons and disabilityTerms are shared by the
// previous and current disability tuples.
var (
	disabilityGroups = map[string]string{
		"first":        "Первая",
		"second":       "Вторая",
		"third":        "Третья",
		"kri":          "КРИ",
		"not_set":      "Инвалидность не установлена",
		"supt_set":     "Установление СУПТ",
		"supt_not_set": "СУПТ не установлена",
	}

	disabilityReasons = map[string]string{
		"general_disease":      "Общее заболевание",
		"childhood":            "Инвалидность с детства",
		"professional_disease": "Профессиональное заболевание",
		"work_injury":          "Трудовое увечье",
		"military_injury":      "Военная травма",
		"military_service":     "Заболевание получено в период военной службы",
		"other":                "Другое",
	}

	disabilityTerms = map[string]string{
		"1_year":       "1 год",
		"2_years":      "2 года",
		"5_years":      "5 лет",
		"until_14":     "До 14 лет",
		"until_18":     "До 18 лет",
		"indefinitely": "Бессрочно",
	}

	examTypes = map[string]string{
		"primary":      "Первично",
		"repeat":       "Повторно",
		"early_repeat": "Повторно (досрочно)",
	}

	yes = map[string]string{"yes": "Да"}
)

var commonTable = map[record.Field]map[string]string{
	record.AgeCategory: {
		"adult": "Взрослые",
		"child": "Дети",
	},
	record.SpecialMarks: {
		"amputee":           "Ампутант",
		"prisoner":          "Лицо, находящееся в местах лишения свободы",
		"pni":               "Лицо, находящееся в ПНИ (ДДИ)",
		"other_institution": "Лицо, находящееся в других стационарных учреждениях соцзащиты",
		"palliative":        "Нуждающийся в паллиативной помощи",
		"new_region":        "Житель новых регионов",
		"svo":               "Участник СВО",
	},
	record.MilitaryRegistration: {
		"registered":     "Состоящий на воинском учете",
		"obliged":        "Не состоящий на воинском учете, но обязанный состоять",
		"applying":       "Поступающий на воинский учет",
		"not_registered": "Не состоящий на воинском учете",
	},
	record.MSEForm: {
		"in_person":   "Очно",
		"in_absentia": "Заочно",
	},
	record.MSEFormChange: {
		"v":  "В",
		"g":  "Г",
		"d":  "Д",
		"e":  "Е",
		"zh": "Ж",
	},
	record.PrevDisability:          disabilityGroups,
	record.PrevDisabilityReason:    disabilityReasons,
	record.PrevDisabilityTerm:      disabilityTerms,
	record.CurrentDisability:       disabilityGroups,
	record.CurrentDisabilityReason: disabilityReasons,
	record.CurrentDisabilityTerm:   disabilityTerms,
	record.PDODeveloped: {
		"consent": "Получено согласие",
		"refusal": "Отказ",
	},
}

var bureauTable = map[record.Field]map[string]string{
	record.DocumentFormat: {
		"paper_direction":      "Направление бумажное",
		"electronic_direction": "Направление в электронном виде",
		"paper_application":    "Заявление бумажное",
		"epgu":                 "Заявление ЕПГУ",
	},
	record.Purpose: {
		"disability_group":           "Группа инвалидности",
		"disabled_child":             "Категория 'ребенок-инвалид'",
		"disability_reason":          "Причина инвалидности",
		"disability_term":            "Срок инвалидности",
		"supt":                       "Определение СУПТ",
		"ipra_development":           "Разработка ИПРА",
		"prp_development":            "Разработка ПРП",
		"death_reason":               "Определение причины смерти",
		"care_need":                  "Определение нуждаемости в постоянном постороннем уходе",
		"new_certificate":            "Выдача новой справки об инвалидности",
		"duplicate_certificate":      "Выдача дубликата справки об инвалидности",
		"new_supt_certificate":       "Выдача новой справки о СУПТ",
		"duplicate_supt_certificate": "Выдача дубликата справки о СУПТ",
		"ipra_changes":               "Внесение изменений в ИПРА",
		"prp_changes":                "Внесение изменений в ПРП",
	},
	record.MSEType: examTypes,
	record.IPRADirection: {
		"regular":       "В очередной срок",
		"exclusively":   "Исключительно для разработки ИПРА",
		"health_change": "Изменение состояния здоровья (повторно досрочно)",
	},
	record.IPRAContainsTSR: {
		"yes": "Да",
		"no":  "Нет",
	},
	record.IPRAChanges: {
		"anthropometric":   "Антропометрические данные",
		"personal":         "Персональные данные",
		"tsr_specs":        "Уточнение технических характеристик ТСР",
		"errors":           "Исправление технических ошибок",
		"maternal_capital": "Материнский капитал",
	},
}

var expertTable = map[record.Field]map[string]string{
	record.DocumentFormat: {
		"paper_application": "Заявление бумажное",
		"epgu":              "Заявление ЕПГУ",
	},
	record.ProcedureType: {
		"appeal":  "Обжалование",
		"control": "Контроль",
		"pdo":     "ПДО",
	},
	record.Purpose: {
		"disability_group":  "Группа инвалидности",
		"disabled_child":    "Категория ребенок-инвалид",
		"disability_reason": "Причина инвалидности",
		"disability_term":   "Срок инвалидности",
		"supt":              "Определение СУПТ",
		"care_need":         "Определение нуждаемости в постороннем уходе",
		"death_reason":      "Определение причины смерти",
		"ipra_development":  "Разработка ИПРА",
		"prp_development":   "Разработка ПРП",
		"other":             "Иное",
	},
	record.MSEType: examTypes,
	record.DecisionChangedPart: {
		"disability_group":  "Группы инвалидности",
		"disabled_child":    "Категории ребенок-инвалид",
		"disability_term":   "Срока инвалидности",
		"disability_reason": "Причины инвалидности",
		"ipra_development":  "Разработки ИПРА",
		"supt":              "Степени УПТ",
		"prp_development":   "ПРП",
		"other":             "Другие",
	},
	record.TSRChanged: yes,
	record.SFRAppeal:  yes,
	record.Changed:    yes,
}

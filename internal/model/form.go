package model

// Field names one input of the study habits form, using the form's own
// (camelCase) vocabulary rather than the prediction service's.
type Field string

const (
	FieldAttendance         Field = "attendance"
	FieldParticipationScore Field = "participationScore"
	FieldSleepHoursPerNight Field = "sleepHoursPerNight"
	FieldStressLevel        Field = "stressLevel"
	FieldStudyHours         Field = "studyHours"
	FieldDesiredGrade       Field = "desiredGrade"
)

// Bounds is a closed numeric range; both ends are valid values.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FieldSpec describes one form input: its domain, its default and how the
// rendering surface should label it.
type FieldSpec struct {
	Field       Field   `json:"field"`
	Label       string  `json:"label"`
	Description string  `json:"description"`
	Unit        string  `json:"unit,omitempty"`
	Bounds      Bounds  `json:"bounds"`
	Default     float64 `json:"default"`
	Integer     bool    `json:"integer"`
}

// FieldSpecs lists every form field in display order.
var FieldSpecs = []FieldSpec{
	{
		Field:       FieldAttendance,
		Label:       "Attendance",
		Description: "The percentage of classes you have attended.",
		Unit:        "%",
		Bounds:      Bounds{Min: 0, Max: 100},
		Default:     50,
	},
	{
		Field:       FieldParticipationScore,
		Label:       "Participation Score",
		Description: "The score you were given for class participation.",
		Unit:        "%",
		Bounds:      Bounds{Min: 0, Max: 100},
		Default:     50,
	},
	{
		Field:       FieldSleepHoursPerNight,
		Label:       "Sleep Hours Per Night",
		Description: "The number of hours of sleep you get every night.",
		Unit:        "hours",
		Bounds:      Bounds{Min: 0, Max: 24},
		Default:     12,
	},
	{
		Field:       FieldStressLevel,
		Label:       "Stress Level",
		Description: "The amount of stress you feel, with 1 being low and 10 being high.",
		Bounds:      Bounds{Min: 1, Max: 10},
		Default:     5,
	},
	{
		Field:       FieldStudyHours,
		Label:       "Study Hours",
		Description: "The number of hours you spend studying every week.",
		Unit:        "hours",
		Bounds:      Bounds{Min: 0, Max: 168},
		Default:     168 / 2,
	},
	{
		Field:       FieldDesiredGrade,
		Label:       "Desired Grade",
		Description: "Your desired Grade (A, B, C, D, F)",
		Bounds:      Bounds{Min: 0, Max: 4},
		Default:     0,
		Integer:     true,
	},
}

var fieldSpecIndex = func() map[Field]FieldSpec {
	m := make(map[Field]FieldSpec, len(FieldSpecs))
	for _, s := range FieldSpecs {
		m[s.Field] = s
	}
	return m
}()

func LookupField(f Field) (FieldSpec, bool) {
	s, ok := fieldSpecIndex[f]
	return s, ok
}

// FormValues is the full set of study habit metrics as the user entered them.
type FormValues struct {
	Attendance         float64 `json:"attendance" form:"attendance" yaml:"attendance"`
	ParticipationScore float64 `json:"participationScore" form:"participationScore" yaml:"participationScore"`
	SleepHoursPerNight float64 `json:"sleepHoursPerNight" form:"sleepHoursPerNight" yaml:"sleepHoursPerNight"`
	StressLevel        float64 `json:"stressLevel" form:"stressLevel" yaml:"stressLevel"`
	StudyHours         float64 `json:"studyHours" form:"studyHours" yaml:"studyHours"`
	DesiredGrade       int     `json:"desiredGrade" form:"desiredGrade" yaml:"desiredGrade"`
}

func DefaultFormValues() FormValues {
	var v FormValues
	for _, s := range FieldSpecs {
		v.Set(s.Field, s.Default)
	}
	return v
}

// Get returns the value of f as a float64. ok is false for unknown fields.
func (v FormValues) Get(f Field) (value float64, ok bool) {
	switch f {
	case FieldAttendance:
		return v.Attendance, true
	case FieldParticipationScore:
		return v.ParticipationScore, true
	case FieldSleepHoursPerNight:
		return v.SleepHoursPerNight, true
	case FieldStressLevel:
		return v.StressLevel, true
	case FieldStudyHours:
		return v.StudyHours, true
	case FieldDesiredGrade:
		return float64(v.DesiredGrade), true
	}
	return 0, false
}

// Set stores value into f. The grade index is truncated toward zero, so
// callers validate before converting.
func (v *FormValues) Set(f Field, value float64) bool {
	switch f {
	case FieldAttendance:
		v.Attendance = value
	case FieldParticipationScore:
		v.ParticipationScore = value
	case FieldSleepHoursPerNight:
		v.SleepHoursPerNight = value
	case FieldStressLevel:
		v.StressLevel = value
	case FieldStudyHours:
		v.StudyHours = value
	case FieldDesiredGrade:
		v.DesiredGrade = int(value)
	default:
		return false
	}
	return true
}

// Grades maps a grade index to its letter.
var Grades = []string{"A", "B", "C", "D", "F"}

func GradeLetter(index int) string {
	if index < 0 || index >= len(Grades) {
		return ""
	}
	return Grades[index]
}

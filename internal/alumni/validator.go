package alumni

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/alumni-api/internal/graduation"
	"github.com/aanand-mishra/alumni-api/internal/types"
)

// Bounds for the row checks. They mirror the min/max tags on
// types.AlumniRequest.
const (
	MinPassOutYear    = 1900
	MinCourseDuration = 1
	MaxCourseDuration = 6
)

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// PlacedValues lists the accepted spellings of the placed column,
// compared case-insensitively after trimming. Anything else is rejected.
var PlacedValues = map[string]bool{
	"true":  true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"false": false,
	"0":     false,
	"no":    false,
	"n":     false,
	"":      false,
}

// ParsePlaced maps a raw placed cell to a bool. ok is false for a value
// outside PlacedValues.
func ParsePlaced(raw string) (placed bool, ok bool) {
	placed, ok = PlacedValues[strings.ToLower(strings.TrimSpace(raw))]
	return placed, ok
}

// RowValidator checks a single ImportRow without touching the store.
type RowValidator struct {
	policy   *graduation.Policy
	validate *validator.Validate
}

// NewRowValidator returns a validator judging eligibility with policy.
func NewRowValidator(policy *graduation.Policy) *RowValidator {
	return &RowValidator{policy: policy, validate: validator.New()}
}

// Validate turns row into a normalised record or explains why it cannot
// be one. The first failing check wins; eligibility is checked last and
// reported as KindIneligible.
func (v *RowValidator) Validate(row types.ImportRow) (types.Alumni, *Rejection) {
	row = trimRow(row)

	if row.Name == "" || row.Email == "" || row.Phone == "" || row.RegisterNumber == "" ||
		row.Department == "" || row.Section == "" || row.PassOutYear == "" || row.CourseDurationYears == "" {
		return types.Alumni{}, structural(ReasonMissingFields)
	}

	if !types.IsValidSection(row.Section) {
		return types.Alumni{}, structural(ReasonInvalidSection)
	}

	if !phonePattern.MatchString(row.Phone) {
		return types.Alumni{}, structural(ReasonInvalidPhone)
	}

	if err := v.validate.Var(row.Email, "email"); err != nil {
		return types.Alumni{}, structural(ReasonInvalidEmail)
	}

	year, err := strconv.Atoi(row.PassOutYear)
	if err != nil || year < MinPassOutYear {
		return types.Alumni{}, structural(ReasonInvalidYear)
	}

	duration, err := strconv.Atoi(row.CourseDurationYears)
	if err != nil || duration < MinCourseDuration || duration > MaxCourseDuration {
		return types.Alumni{}, structural(ReasonInvalidDuration)
	}

	placed, ok := ParsePlaced(row.Placed)
	if !ok {
		return types.Alumni{}, structural(ReasonInvalidPlaced)
	}

	var minCTC float64
	if placed && row.MinCTC != "" {
		minCTC, err = strconv.ParseFloat(row.MinCTC, 64)
		if err != nil || minCTC < 0 {
			return types.Alumni{}, structural(ReasonInvalidMinCTC)
		}
	}

	if !v.policy.IsGraduated(year, duration) {
		return types.Alumni{}, &Rejection{Kind: KindIneligible, Reason: ReasonNotGraduated}
	}

	a := types.Alumni{
		Name:                row.Name,
		Email:               row.Email,
		Phone:               row.Phone,
		RegisterNumber:      row.RegisterNumber,
		Department:          row.Department,
		Section:             row.Section,
		PassOutYear:         year,
		CourseDurationYears: duration,
		Placed:              placed,
		Company:             row.Company,
		Location:            row.Location,
		MinCTC:              minCTC,
		Designation:         row.Designation,
	}
	a.NormalizePlacement()

	return a, nil
}

func trimRow(r types.ImportRow) types.ImportRow {
	return types.ImportRow{
		Name:                strings.TrimSpace(r.Name),
		Email:               strings.TrimSpace(r.Email),
		Phone:               strings.TrimSpace(r.Phone),
		RegisterNumber:      strings.TrimSpace(r.RegisterNumber),
		Department:          strings.TrimSpace(r.Department),
		Section:             strings.TrimSpace(r.Section),
		PassOutYear:         strings.TrimSpace(r.PassOutYear),
		CourseDurationYears: strings.TrimSpace(r.CourseDurationYears),
		Placed:              strings.TrimSpace(r.Placed),
		Company:             strings.TrimSpace(r.Company),
		Location:            strings.TrimSpace(r.Location),
		MinCTC:              strings.TrimSpace(r.MinCTC),
		Designation:         strings.TrimSpace(r.Designation),
	}
}

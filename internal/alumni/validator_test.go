package alumni

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/alumni-api/internal/graduation"
	"github.com/aanand-mishra/alumni-api/internal/types"
)

// now pins the current year to 2026 in every test of this package.
var now = time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC)

func testPolicy() *graduation.Policy {
	return graduation.NewPolicy(graduation.FixedClock(now))
}

func validRow() types.ImportRow {
	return types.ImportRow{
		Name:                "A",
		Email:               "a@x.com",
		Phone:               "1234567890",
		RegisterNumber:      "R1",
		Department:          "CSE",
		Section:             "A",
		PassOutYear:         "2025",
		CourseDurationYears: "4",
	}
}

func TestRowValidator_ValidRow(t *testing.T) {
	v := NewRowValidator(testPolicy())

	a, rej := v.Validate(validRow())
	require.Nil(t, rej)

	assert.Equal(t, types.Alumni{
		Name:                "A",
		Email:               "a@x.com",
		Phone:               "1234567890",
		RegisterNumber:      "R1",
		Department:          "CSE",
		Section:             "A",
		PassOutYear:         2025,
		CourseDurationYears: 4,
	}, a)
}

func TestRowValidator_Rejections(t *testing.T) {
	v := NewRowValidator(testPolicy())

	tests := []struct {
		name   string
		mutate func(r *types.ImportRow)
		kind   Kind
		reason string
	}{
		{"missing name", func(r *types.ImportRow) { r.Name = "" }, KindStructural, ReasonMissingFields},
		{"blank email", func(r *types.ImportRow) { r.Email = "   " }, KindStructural, ReasonMissingFields},
		{"missing duration", func(r *types.ImportRow) { r.CourseDurationYears = "" }, KindStructural, ReasonMissingFields},
		{"missing wins over bad section", func(r *types.ImportRow) { r.Phone = ""; r.Section = "Z" }, KindStructural, ReasonMissingFields},
		{"section outside A-F", func(r *types.ImportRow) { r.Section = "Z" }, KindStructural, ReasonInvalidSection},
		{"lowercase section", func(r *types.ImportRow) { r.Section = "a" }, KindStructural, ReasonInvalidSection},
		{"section wins over bad phone", func(r *types.ImportRow) { r.Section = "G"; r.Phone = "12" }, KindStructural, ReasonInvalidSection},
		{"short phone", func(r *types.ImportRow) { r.Phone = "12345" }, KindStructural, ReasonInvalidPhone},
		{"phone with letters", func(r *types.ImportRow) { r.Phone = "12345abcde" }, KindStructural, ReasonInvalidPhone},
		{"phone with plus", func(r *types.ImportRow) { r.Phone = "+123456789" }, KindStructural, ReasonInvalidPhone},
		{"bad email", func(r *types.ImportRow) { r.Email = "not-an-email" }, KindStructural, ReasonInvalidEmail},
		{"non-numeric year", func(r *types.ImportRow) { r.PassOutYear = "twenty" }, KindStructural, ReasonInvalidYear},
		{"year below floor", func(r *types.ImportRow) { r.PassOutYear = "1899" }, KindStructural, ReasonInvalidYear},
		{"duration too long", func(r *types.ImportRow) { r.CourseDurationYears = "7" }, KindStructural, ReasonInvalidDuration},
		{"duration zero", func(r *types.ImportRow) { r.CourseDurationYears = "0" }, KindStructural, ReasonInvalidDuration},
		{"unknown placed value", func(r *types.ImportRow) { r.Placed = "maybe" }, KindStructural, ReasonInvalidPlaced},
		{"negative ctc when placed", func(r *types.ImportRow) { r.Placed = "true"; r.MinCTC = "-1" }, KindStructural, ReasonInvalidMinCTC},
		{"non-numeric ctc when placed", func(r *types.ImportRow) { r.Placed = "1"; r.MinCTC = "lots" }, KindStructural, ReasonInvalidMinCTC},
		{"next year is not graduated", func(r *types.ImportRow) { r.PassOutYear = "2027" }, KindIneligible, ReasonNotGraduated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := validRow()
			tt.mutate(&row)

			_, rej := v.Validate(row)
			require.NotNil(t, rej)
			assert.Equal(t, tt.kind, rej.Kind)
			assert.Equal(t, tt.reason, rej.Reason)
		})
	}
}

func TestRowValidator_CurrentYearIsGraduated(t *testing.T) {
	v := NewRowValidator(testPolicy())
	row := validRow()
	row.PassOutYear = "2026"

	_, rej := v.Validate(row)
	assert.Nil(t, rej)
}

func TestRowValidator_Placement(t *testing.T) {
	v := NewRowValidator(testPolicy())

	t.Run("unplaced row drops placement fields", func(t *testing.T) {
		row := validRow()
		row.Placed = "false"
		row.Company = "Acme"
		row.Location = "Chennai"
		row.MinCTC = "not even a number"
		row.Designation = "SDE"

		a, rej := v.Validate(row)
		require.Nil(t, rej)
		assert.False(t, a.Placed)
		assert.Empty(t, a.Company)
		assert.Empty(t, a.Location)
		assert.Zero(t, a.MinCTC)
		assert.Empty(t, a.Designation)
	})

	t.Run("placed row keeps placement fields", func(t *testing.T) {
		row := validRow()
		row.Placed = " TRUE "
		row.Company = "Acme"
		row.Location = "Chennai"
		row.MinCTC = "6.5"
		row.Designation = "SDE"

		a, rej := v.Validate(row)
		require.Nil(t, rej)
		assert.True(t, a.Placed)
		assert.Equal(t, "Acme", a.Company)
		assert.Equal(t, "Chennai", a.Location)
		assert.Equal(t, 6.5, a.MinCTC)
		assert.Equal(t, "SDE", a.Designation)
	})

	t.Run("placed row without ctc defaults to zero", func(t *testing.T) {
		row := validRow()
		row.Placed = "yes"

		a, rej := v.Validate(row)
		require.Nil(t, rej)
		assert.True(t, a.Placed)
		assert.Zero(t, a.MinCTC)
	})
}

func TestParsePlaced(t *testing.T) {
	for _, raw := range []string{"true", "TRUE", "True", "1", "yes", "Y"} {
		placed, ok := ParsePlaced(raw)
		assert.True(t, ok, raw)
		assert.True(t, placed, raw)
	}
	for _, raw := range []string{"", "false", "FALSE", "0", "no", "n"} {
		placed, ok := ParsePlaced(raw)
		assert.True(t, ok, raw)
		assert.False(t, placed, raw)
	}
	for _, raw := range []string{"2", "maybe", "placed"} {
		_, ok := ParsePlaced(raw)
		assert.False(t, ok, raw)
	}
}

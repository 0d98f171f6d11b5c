// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, the import pipeline and utils can all import types
// without depending on each other.
package types

import "time"

// Sections is the fixed set of class sections an alumnus can belong to.
var Sections = []string{"A", "B", "C", "D", "E", "F"}

// IsValidSection reports whether s is one of Sections.
func IsValidSection(s string) bool {
	for _, sec := range Sections {
		if s == sec {
			return true
		}
	}
	return false
}

// Alumni represents one graduated individual as stored in the database.
//
// Placement fields (Company, Location, MinCTC, Designation) only carry
// data when Placed is true. Every write path normalises them to their
// zero values otherwise.
type Alumni struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	Phone               string    `json:"phone"`
	RegisterNumber      string    `json:"registerNumber"`
	Department          string    `json:"department"`
	Section             string    `json:"section"`
	PassOutYear         int       `json:"passOutYear"`
	CourseDurationYears int       `json:"courseDurationYears"`
	Placed              bool      `json:"placed"`
	Company             string    `json:"company"`
	Location            string    `json:"location"`
	MinCTC              float64   `json:"minCTC"`
	Designation         string    `json:"designation"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// NormalizePlacement clears the placement-only fields of an unplaced
// alumnus so partial input never leaks into storage.
func (a *Alumni) NormalizePlacement() {
	if a.Placed {
		return
	}
	a.Company = ""
	a.Location = ""
	a.MinCTC = 0
	a.Designation = ""
}

// AlumniRequest is the JSON body of the single-add endpoint.
//
// The validate:"..." tags are checked by go-playground/validator before
// anything touches the database.
type AlumniRequest struct {
	Name                string  `json:"name"                validate:"required"`
	Email               string  `json:"email"               validate:"required,email"`
	Phone               string  `json:"phone"               validate:"required,len=10,number"`
	RegisterNumber      string  `json:"registerNumber"      validate:"required"`
	Department          string  `json:"department"          validate:"required"`
	Section             string  `json:"section"             validate:"required,oneof=A B C D E F"`
	PassOutYear         int     `json:"passOutYear"         validate:"required,min=1900"`
	CourseDurationYears int     `json:"courseDurationYears" validate:"required,min=1,max=6"`
	Placed              bool    `json:"placed"`
	Company             string  `json:"company"`
	Location            string  `json:"location"`
	MinCTC              float64 `json:"minCTC"              validate:"gte=0"`
	Designation         string  `json:"designation"`
}

// NormalizePlacement clears the placement-only fields of an unplaced
// request, so values sent alongside placed=false are neither validated
// nor stored.
func (r *AlumniRequest) NormalizePlacement() {
	if r.Placed {
		return
	}
	r.Company = ""
	r.Location = ""
	r.MinCTC = 0
	r.Designation = ""
}

// Alumni converts the request into a record with placement normalised.
func (r AlumniRequest) Alumni() Alumni {
	a := Alumni{
		Name:                r.Name,
		Email:               r.Email,
		Phone:               r.Phone,
		RegisterNumber:      r.RegisterNumber,
		Department:          r.Department,
		Section:             r.Section,
		PassOutYear:         r.PassOutYear,
		CourseDurationYears: r.CourseDurationYears,
		Placed:              r.Placed,
		Company:             r.Company,
		Location:            r.Location,
		MinCTC:              r.MinCTC,
		Designation:         r.Designation,
	}
	a.NormalizePlacement()
	return a
}

// ImportRow is one data line of an uploaded sheet. Every field is the raw,
// untrusted cell text; a column absent from the sheet is "".
type ImportRow struct {
	// Line is the spreadsheet row the data came from (header is 1).
	// Zero when the row did not come from a sheet.
	Line int

	Name                string
	Email               string
	Phone               string
	RegisterNumber      string
	Department          string
	Section             string
	PassOutYear         string
	CourseDurationYears string
	Placed              string
	Company             string
	Location            string
	MinCTC              string
	Designation         string
}

// RowIssue points at one sheet row that was skipped or rejected.
// Row is the number the user sees in their spreadsheet (header is row 1).
type RowIssue struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportOutcome is the report of one bulk import run.
type ImportOutcome struct {
	Created int        `json:"created"`
	Skipped []RowIssue `json:"skipped"`
	Errors  []RowIssue `json:"errors"`
}

// NewImportOutcome returns an empty report whose lists encode as [] rather
// than null.
func NewImportOutcome() ImportOutcome {
	return ImportOutcome{
		Skipped: make([]RowIssue, 0),
		Errors:  make([]RowIssue, 0),
	}
}

// AlumniFilter narrows a directory listing. Empty fields match everything.
type AlumniFilter struct {
	Department string
	Section    string
}

// SectionStat is the number of alumni in one department/section pair.
type SectionStat struct {
	Department string `json:"department"`
	Section    string `json:"section"`
	Count      int64  `json:"count"`
}

// Package alumni holds the business rules for adding alumni: row
// validation, duplicate detection, the bulk import pipeline and the
// single-record add path.
package alumni

//go:generate mockgen -source=alumni.go -destination=mocks/mocks.go -package=mocks Notifier

import "errors"

// Notifier schedules the welcome mail for a newly created alumnus. It
// must not report delivery failures back to the caller.
type Notifier interface {
	Enqueue(email, name string)
}

// Kind classifies why a row or request did not produce a record.
type Kind int

const (
	// KindStructural: the input fails shape or format checks and can never
	// succeed without correction.
	KindStructural Kind = iota + 1
	// KindIneligible: well formed, but the candidate has not graduated yet.
	KindIneligible
	// KindConflict: a record with the same email already exists.
	KindConflict
	// KindPersistence: the store failed while writing.
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindStructural:
		return "structural"
	case KindIneligible:
		return "ineligible"
	case KindConflict:
		return "conflict"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// IsSkip reports whether the kind is reported as a skip rather than an
// error in an import outcome.
func (k Kind) IsSkip() bool {
	return k == KindIneligible || k == KindConflict
}

// Rejection is a row or request that was not turned into a record.
type Rejection struct {
	Kind   Kind
	Reason string
}

func (r *Rejection) Error() string { return r.Reason }

// Row rejection reasons.
const (
	ReasonMissingFields   = "Missing fields"
	ReasonInvalidSection  = "Invalid section"
	ReasonInvalidPhone    = "Invalid phone number"
	ReasonInvalidEmail    = "Invalid email"
	ReasonInvalidYear     = "Invalid pass-out year"
	ReasonInvalidDuration = "Invalid course duration"
	ReasonInvalidPlaced   = "Invalid placed flag"
	ReasonInvalidMinCTC   = "Invalid minCTC"
	ReasonNotGraduated    = "Not graduated"
	ReasonDuplicateEmail  = "Duplicate email"
)

var (
	// ErrFileRequired is the request-level failure for an upload without
	// a file or with an empty one.
	ErrFileRequired = errors.New("file is required")

	// ErrNotGraduated rejects a single add whose pass-out year is in the future.
	ErrNotGraduated = &Rejection{
		Kind:   KindIneligible,
		Reason: "Not graduated yet. Please enter pass-out year and course duration correctly.",
	}

	// ErrAlreadyExists rejects a single add whose email is taken.
	ErrAlreadyExists = &Rejection{Kind: KindConflict, Reason: "Alumni already exists"}
)

func structural(reason string) *Rejection {
	return &Rejection{Kind: KindStructural, Reason: reason}
}

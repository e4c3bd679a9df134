package remote

import "strings"

// Outcome is what a response body says happened.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeLoginRejected
	OutcomeTimesheetExists
)

// The site reports these failures only as human-readable text in an otherwise
// successful page. Any rewording on the site breaks detection here, and only
// here.
var sentinels = []struct {
	phrase  string
	outcome Outcome
}{
	{"Your username and password didn't match", OutcomeLoginRejected},
	{"That timesheet already exists", OutcomeTimesheetExists},
}

// Classify maps a response body to an Outcome.
func Classify(body string) Outcome {
	for _, s := range sentinels {
		if strings.Contains(body, s.phrase) {
			return s.outcome
		}
	}
	return OutcomeOK
}

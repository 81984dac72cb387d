package assistant

import (
	"github.com/fieldforce-hr/location-backend-go/internal/pkg/validator"
)

// Intent labels what the keyword matcher decided the question was about.
type Intent string

const (
	IntentWhereIs    Intent = "where_is"
	IntentWhoOnline  Intent = "who_online"
	IntentCheckTime  Intent = "check_time"
	IntentAttendance Intent = "attendance"
	IntentWhoInside  Intent = "who_inside"
	IntentSummary    Intent = "summary"
	IntentUnknown    Intent = "unknown"
)

type QueryRequest struct {
	Question string `json:"question"`
}

func (r *QueryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Question) {
		errs = append(errs, validator.ValidationError{Field: "question", Message: "question is required"})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type QueryResponse struct {
	Intent Intent      `json:"intent"`
	Answer string      `json:"answer"`
	Data   interface{} `json:"data,omitempty"`
}

package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// maxChain bounds how many wrapped causes a dump records.
const maxChain = 8

// Report is the log view of a failed request: the typed code, the collaborator
// that failed and, for database failures, the SQL state and constraint.
type Report struct {
	Message    string
	Code       Code
	Component  string
	HTTPStatus int
	Retryable  bool
	Causes     []string

	SQLState   string
	Constraint string
	Table      string
	SQLMessage string
}

// Dump inspects err for logging. It never changes what the client sees.
func Dump(err error) Report {
	if err == nil {
		return Report{}
	}

	code := CodeOf(err)
	meta := MetadataFor(code)
	r := Report{
		Message:    err.Error(),
		Code:       code,
		HTTPStatus: meta.HTTPStatus,
		Retryable:  meta.Retryable,
	}
	if typed := As(err); typed != nil {
		if details, ok := typed.Details().(map[string]any); ok {
			if component, ok := details["component"].(string); ok {
				r.Component = component
			}
		}
	}

	for e := errors.Unwrap(err); e != nil && len(r.Causes) < maxChain; e = errors.Unwrap(e) {
		r.Causes = append(r.Causes, fmt.Sprintf("%T: %v", e, e))
	}

	var pgxErr *pgconn.PgError
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pgxErr):
		r.SQLState = pgxErr.Code
		r.Constraint = pgxErr.ConstraintName
		r.Table = pgxErr.TableName
		r.SQLMessage = pgxErr.Message
	case errors.As(err, &pqErr):
		r.SQLState = string(pqErr.Code)
		r.Constraint = pqErr.Constraint
		r.Table = pqErr.Table
		r.SQLMessage = pqErr.Message
	}
	return r
}

// Fields flattens the report into log fields, omitting empty ones.
func (r Report) Fields() map[string]any {
	fields := map[string]any{
		"error":       r.Message,
		"error_code":  string(r.Code),
		"http_status": r.HTTPStatus,
		"retryable":   r.Retryable,
	}
	if r.Component != "" {
		fields["component"] = r.Component
	}
	if len(r.Causes) > 0 {
		fields["causes"] = r.Causes
	}
	if r.SQLState != "" {
		fields["sql_state"] = r.SQLState
		fields["sql_constraint"] = r.Constraint
		fields["sql_table"] = r.Table
		fields["sql_message"] = r.SQLMessage
	}
	return fields
}

package pgerror

import (
	"strconv"

	"github.com/pgwire/pgwire/codes"
)

// Field-type bytes of an ErrorResponse/NoticeResponse message, per
// https://www.postgresql.org/docs/current/protocol-error-fields.html
const (
	fieldSeverity       byte = 'S'
	fieldSeverityV      byte = 'V'
	fieldCode           byte = 'C'
	fieldMessage        byte = 'M'
	fieldDetail         byte = 'D'
	fieldHint           byte = 'H'
	fieldPosition       byte = 'P'
	fieldConstraintName byte = 'n'
	fieldFile           byte = 'F'
	fieldLine           byte = 'L'
	fieldRoutine        byte = 'R'
)

// FromErrorResponse parses the field map of a backend ErrorResponse (or
// NoticeResponse) message into an Error of KindServer. This is the read-side
// mirror of the teacher's errors.Flatten, which runs in the opposite
// direction.
func FromErrorResponse(fields map[byte]string) *Error {
	err := &Error{
		Kind:           KindServer,
		Message:        fields[fieldMessage],
		Severity:       fields[fieldSeverity],
		Code:           codes.Code(fields[fieldCode]),
		Detail:         fields[fieldDetail],
		Hint:           fields[fieldHint],
		ConstraintName: fields[fieldConstraintName],
	}
	if err.Severity == "" {
		err.Severity = fields[fieldSeverityV]
	}
	if pos := fields[fieldPosition]; pos != "" {
		if n, convErr := strconv.ParseInt(pos, 10, 32); convErr == nil {
			err.Position = int32(n)
		}
	}
	if file := fields[fieldFile]; file != "" {
		src := &Source{File: file, Function: fields[fieldRoutine]}
		if line := fields[fieldLine]; line != "" {
			if n, convErr := strconv.ParseInt(line, 10, 32); convErr == nil {
				src.Line = int32(n)
			}
		}
		err.Source = src
	}
	return err
}

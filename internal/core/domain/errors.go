package domain

import "errors"

var (
	ErrMissingParam = errors.New("missing param")
	ErrInvalidParam = errors.New("invalid param")
	ErrConflict     = errors.New("already exists")
	ErrUnauthorized = errors.New("unauthorized")
	ErrAccessDenied = errors.New("access denied")
	ErrInternal     = errors.New("internal server error")
)

// ErrEmailAlreadyExists is returned by user stores when the email uniqueness
// constraint rejects a write.
var ErrEmailAlreadyExists error = &ParamError{Param: "email", Err: ErrConflict}

// ParamError names the request field a validation or conflict error refers to.
type ParamError struct {
	Param string
	Err   error
}

func (e *ParamError) Error() string {
	return e.Err.Error() + ": " + e.Param
}

func (e *ParamError) Unwrap() error {
	return e.Err
}

func MissingParamError(param string) error {
	return &ParamError{Param: param, Err: ErrMissingParam}
}

func InvalidParamError(param string) error {
	return &ParamError{Param: param, Err: ErrInvalidParam}
}

func ConflictError(param string) error {
	return &ParamError{Param: param, Err: ErrConflict}
}

// ParamOf returns the field name carried by err, if any.
func ParamOf(err error) string {
	var pe *ParamError
	if errors.As(err, &pe) {
		return pe.Param
	}
	return ""
}

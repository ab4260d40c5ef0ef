package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/golog"
	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

type ErrorKind string

const (
	KindValidation       ErrorKind = "ValidationError"
	KindNotFound         ErrorKind = "NotFoundError"
	KindCapacityExceeded ErrorKind = "CapacityExceeded"
	KindAuthorization    ErrorKind = "AuthorizationError"
	KindUpstream         ErrorKind = "UpstreamError"
	KindInternal         ErrorKind = "InternalError"
)

// AppError is an error that knows how it should be reported to the client.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func (e *AppError) Status() int {
	switch e.Kind {
	case KindValidation, KindCapacityExceeded:
		return iris.StatusBadRequest
	case KindNotFound:
		return iris.StatusNotFound
	case KindAuthorization:
		return iris.StatusForbidden
	case KindUpstream:
		return iris.StatusBadGateway
	default:
		return iris.StatusInternalServerError
	}
}

func NewValidationError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{Kind: KindNotFound, Message: resource + " not found"}
}

func NewCapacityExceeded(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindCapacityExceeded, Message: fmt.Sprintf(format, args...)}
}

func NewAuthorizationError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindAuthorization, Message: fmt.Sprintf(format, args...)}
}

func NewUpstreamError(service string, err error) *AppError {
	return &AppError{Kind: KindUpstream, Message: service + " request failed", Err: err}
}

func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// WriteError converts any error into the JSON error envelope.
// Unknown errors are logged and reported as a 500 without leaking details.
func WriteError(ctx iris.Context, err error) {
	var appErr *AppError
	switch {
	case errors.As(err, &appErr):
	case errors.Is(err, gorm.ErrRecordNotFound):
		appErr = NewNotFoundError("resource")
	default:
		golog.Errorf("❌ %s %s: %v", ctx.Method(), ctx.Path(), err)
		CreateInternalServerError(ctx)
		return
	}

	if appErr.Kind == KindUpstream || appErr.Kind == KindInternal {
		golog.Errorf("❌ %s %s: %v", ctx.Method(), ctx.Path(), appErr)
	}
	ctx.StopWithJSON(appErr.Status(), iris.Map{
		"success": false,
		"error":   string(appErr.Kind),
		"message": appErr.Message,
	})
}

func CreateError(statusCode int, title, message string, ctx iris.Context) {
	ctx.StopWithJSON(statusCode, iris.Map{
		"success": false,
		"error":   title,
		"message": message,
	})
}

func CreateInternalServerError(ctx iris.Context) {
	CreateError(iris.StatusInternalServerError, string(KindInternal), "Internal Server Error", ctx)
}

func CreateNotFound(ctx iris.Context) {
	CreateError(iris.StatusNotFound, string(KindNotFound), "Not Found", ctx)
}

func CreateForbidden(ctx iris.Context, message string) {
	CreateError(iris.StatusForbidden, string(KindAuthorization), message, ctx)
}

func CreateEmailAlreadyRegistered(ctx iris.Context) {
	CreateError(iris.StatusConflict, "Conflict", "Email Already Registered", ctx)
}

// HandleValidationErrors reports body decoding and struct validation failures as a ValidationError.
func HandleValidationErrors(err error, ctx iris.Context) {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		CreateError(iris.StatusBadRequest, string(KindValidation), "Invalid JSON body", ctx)
		return
	}

	fields := make([]iris.Map, 0, len(errs))
	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		msg := validationMessage(fe)
		fields = append(fields, iris.Map{"field": fe.Field(), "message": msg})
		messages = append(messages, msg)
	}

	ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{
		"success": false,
		"error":   string(KindValidation),
		"message": strings.Join(messages, "; "),
		"fields":  fields,
	})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
	}
}

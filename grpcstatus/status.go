// Package status is a drop-in replacement for the google.golang.org/grpc/status
// package, but is compatible with framecap errors.
//
// Errors created by this package are framecap errors: they carry a bounded
// stack captured at construction, honor WithStackLimit overrides, and can be
// augmented with any other framecap wrapper.
//
// Functions which translate errors into a Status, or into a Code, follow the
// error wrapping conventions, using errors.Is and errors.As to extract a
// Status from nested errors.  framecap validation errors and rejected stack
// limits map to codes.InvalidArgument.
package status

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/framecap/framecap"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	spb "google.golang.org/genproto/googleapis/rpc/status"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
)

// Status references google.golang.org/grpc/status
type Status = status.Status

// New returns a Status representing c and msg.
func New(c codes.Code, msg string) *Status {
	return status.New(c, msg)
}

// Newf returns New(c, fmt.Sprintf(format, a...)).
func Newf(c codes.Code, format string, a ...interface{}) *Status {
	return status.Newf(c, format, a...)
}

// Error returns an error representing c and msg, with a stack attached.  If c
// is OK, returns nil.
func Error(c codes.Code, msg string) error {
	return framecap.WrapSkipping(New(c, msg).Err(), 1)
}

// Errorf returns Error(c, fmt.Sprintf(format, a...)).
func Errorf(c codes.Code, format string, a ...interface{}) error {
	return framecap.WrapSkipping(New(c, fmt.Sprintf(format, a...)).Err(), 1)
}

// ErrorProto returns an error representing s.  If s.Code is OK, returns nil.
func ErrorProto(s *spb.Status) error {
	return framecap.WrapSkipping(status.FromProto(s).Err(), 1)
}

// FromProto returns a Status representing s.
func FromProto(s *spb.Status) *Status {
	return status.FromProto(s)
}

// FromError returns a Status representing err if the error or any of its causes can
// be coerced to a GRPCStatuser with errors.As().  Errors created by this package
// or by google.golang.org/grpc/status have a Status that will be found by this
// function.  A Status can also be associated with an existing error using AttachStatus.
//
// If a Status is found, the ok return value will be true.
//
// If no Status is found, ok is false, and a new Status is constructed from the error.
func FromError(err error) (s *Status, ok bool) {
	if err == nil {
		return nil, true
	}

	var statuser GRPCStatuser
	if errors.As(err, &statuser) {
		grpcStatus := statuser.GRPCStatus()

		// check whether the code was overridden via WithCode
		if code, ok := lookupCode(err); ok && code != grpcStatus.Code() {
			stProto := grpcStatus.Proto()
			stProto.Code = int32(code)
			grpcStatus = FromProto(stProto)
		}

		return grpcStatus, true
	}

	// construct new status from error
	return New(Code(err), err.Error()), false
}

// Convert is a convenience function which removes the need to handle the
// boolean return value from FromError.
func Convert(err error) *Status {
	s, _ := FromError(err)
	return s
}

// FromContextError remains for compatibility with the status package, but it
// does the same thing as Convert/FromError: the logic for translating context
// errors into grpc codes is built in to FromError.
func FromContextError(err error) *Status {
	return Convert(err)
}

// ToError converts a Status into a framecap error with a stack attached.  The
// status's code and details are translated into framecap annotations with
// WithStatusDetails.  If the Status is nil or OK, returns nil.
func ToError(s *Status) error {
	if s == nil {
		return nil
	}
	return framecap.WrapSkipping(s.Err(), 1, WithStatusDetails(s))
}

// WithStatusDetails translates the code and details of a Status into the
// corresponding framecap wrappers: the code becomes an HTTP code, a
// LocalizedMessage becomes the user message, and a DebugInfo becomes the
// formatted stack.
func WithStatusDetails(s *Status) framecap.Wrapper {
	return framecap.WrapperFunc(func(err error, _ int) error {
		if err == nil || s == nil {
			return err
		}

		err = framecap.Set(err, errValueKeyCode, s.Code())
		err = framecap.WithHTTPCode(HTTPStatusFromCode(s.Code())).Wrap(err, 0)

		for _, d := range s.Details() {
			switch det := d.(type) {
			case *errdetails.LocalizedMessage:
				err = framecap.WithUserMessage(det.GetMessage()).Wrap(err, 0)
			case *errdetails.DebugInfo:
				err = framecap.WithFormattedStack(det.GetStackEntries()).Wrap(err, 0)
			}
		}

		return err
	})
}

// HTTPStatusFromCode maps a grpc code to an http status code, the approximate
// inverse of CodeFromHTTPStatus.
func HTTPStatusFromCode(c codes.Code) int {
	switch c {
	case codes.OK:
		return http.StatusOK
	case codes.Canceled:
		return http.StatusRequestTimeout
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists:
		return http.StatusConflict
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.FailedPrecondition:
		return http.StatusPreconditionFailed
	case codes.Aborted:
		return http.StatusFailedDependency
	case codes.OutOfRange:
		return http.StatusRequestedRangeNotSatisfiable
	case codes.Unimplemented:
		return http.StatusNotImplemented
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// WithCode is a framecap.Wrapper which associates a GRPC code with the error.
// Code() will return this value.
func WithCode(code codes.Code) framecap.Wrapper {
	return framecap.WithValue(errValueKeyCode, code)
}

// Code returns the grpc response code for an error.  It is similar to
// status.Code(), and behaves identically to it for foreign errors.  For
// framecap errors, additional constructs are mapped.  The rules, like a
// switch statement:
//
//   - err is nil: codes.OK
//   - code previously set with WithCode()
//   - errors.As(GRPCStatuser): return code from Status
//   - framecap validation errors, and stack limits rejected by
//     framecap.ParseLimit: codes.InvalidArgument
//   - errors.Is(context.DeadlineExceeded): codes.DeadlineExceeded
//   - errors.Is(context.Canceled): codes.Canceled
//   - default: CodeFromHTTPStatus(), which defaults to codes.Unknown
func Code(err error) codes.Code {
	if err == nil {
		return codes.OK
	}

	if code, ok := lookupCode(err); ok {
		return code
	}

	var grpcErr GRPCStatuser

	switch {
	case errors.As(err, &grpcErr):
		return grpcErr.GRPCStatus().Code()
	case framecap.IsValidation(err), errors.Is(err, framecap.ErrNegativeLimit):
		return codes.InvalidArgument
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	default:
		return CodeFromHTTPStatus(framecap.HTTPCode(err))
	}
}

func lookupCode(err error) (codes.Code, bool) {
	if codeVal, ok := framecap.Lookup(err, errValueKeyCode); ok {
		code, ok := codeVal.(codes.Code)
		return code, ok
	}
	return codes.OK, false
}

// DefaultLocalizedMessageLocale is the value used when encoding a
// framecap.UserMessage() to a errdetails.LocalizedMessage.
var DefaultLocalizedMessageLocale = "en-US"

// DetailsFromError derives status details from context attached to the error:
//
//   - if the err has a user message, it will be converted into a LocalizedMessage.
//   - if the err has a stack, its rendered frames will be converted into a DebugInfo.
//
// Returns nil if no details are derived from the error.
func DetailsFromError(err error) []proto.Message {
	var details []proto.Message

	if um := framecap.UserMessage(err); um != "" {
		details = append(details, &errdetails.LocalizedMessage{
			Message: um,
			Locale:  DefaultLocalizedMessageLocale,
		})
	}

	if formattedStack := framecap.FormattedStack(err); len(formattedStack) > 0 {
		details = append(details, &errdetails.DebugInfo{
			StackEntries: formattedStack,
		})
	}

	return details
}

// CodeFromHTTPStatus returns a grpc code from an http status code.
//
// If there is no mapping for the status code, it defaults to OK for status codes
// between 200 and 299, and Unknown for all others.
func CodeFromHTTPStatus(httpStatus int) codes.Code {
	switch httpStatus {
	case http.StatusOK:
		return codes.OK
	case http.StatusBadRequest,
		http.StatusUnprocessableEntity,
		http.StatusNotExtended:
		// bad user input
		return codes.InvalidArgument
	case http.StatusUnauthorized,
		http.StatusNetworkAuthenticationRequired:
		return codes.Unauthenticated
	case http.StatusPaymentRequired,
		http.StatusTooManyRequests,
		http.StatusInsufficientStorage:
		// licensing or throttling limits hit
		return codes.ResourceExhausted
	case http.StatusForbidden:
		return codes.PermissionDenied
	case http.StatusNotFound,
		http.StatusGone:
		return codes.NotFound
	case http.StatusRequestTimeout:
		return codes.Canceled
	case http.StatusGatewayTimeout:
		return codes.DeadlineExceeded
	case http.StatusConflict:
		return codes.AlreadyExists
	case http.StatusPreconditionFailed,
		http.StatusLocked:
		return codes.FailedPrecondition
	case http.StatusRequestedRangeNotSatisfiable:
		return codes.OutOfRange
	case http.StatusNotImplemented, http.StatusExpectationFailed:
		return codes.Unimplemented
	case http.StatusServiceUnavailable:
		return codes.Unavailable
	case http.StatusFailedDependency:
		return codes.Aborted
	}

	// all 2xx codes are OK
	if httpStatus >= 200 && httpStatus < 300 {
		return codes.OK
	}

	// All other codes map to Unknown.  This covers the 5xx codes, where some
	// service along the way really did have an internal error, and the 4xx
	// codes not handled above, which typically indicate a bug in our own
	// clients of upstream services rather than bad end-user input.
	return codes.Unknown
}

// GRPCStatuser knows how to return a Status.
type GRPCStatuser interface {
	GRPCStatus() *Status
}

// errValueKey is a private type for framecap error value keys
type errValueKey int

// errValueKeyCode is a private key for storing a grpc code as an error value
const errValueKeyCode errValueKey = iota

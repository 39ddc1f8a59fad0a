package status

import (
	"fmt"

	"github.com/framecap/framecap"
	"google.golang.org/grpc/status"
)

// AttachStatus associates a Status with an error.  status.FromError and
// status.Convert will return this value instead of deriving a status from the error.
//
// This should be used by GRPC handlers which want to craft a specific status.Status
// to return.  The result of this function should be returned by the handler *without
// any further error wrapping* (because grpc does not support error wrapping), like this:
//
//	func MyHandler(ctx context.Context, req *MyReq) (*MyResp, error) {
//	  resp, err := handle(ctx, req)
//	  if err != nil {
//	    sts := status.Convert(err)
//	    // customize the status
//	    return nil, status.AttachStatus(err, sts)
//	  }
//	}
//
// Returning sts.Err() directly would lose the original error, along with its
// captured stack and any other attached context, so interceptors which log
// errors would never see it.  Wrapping sts.Err() any further is not an option
// either: the grpc package does not unwrap errors, so the status would be
// lost.
//
// This is intentionally *not* a framecap wrapper function, because the result
// of this function should never be wrapped any further.  It needs to be returned
// as-is from the handler in order for the grpc code to find your status.Status
// and return it to the client.
func AttachStatus(err error, status *Status) error {
	if status == nil || err == nil {
		return err
	}

	return &grpcStatusError{
		err:    err,
		status: status,
	}
}

// ensure grpcStatusError implements fmt.Formatter
var _ fmt.Formatter = (*grpcStatusError)(nil)

type grpcStatusError struct {
	err    error
	status *status.Status
}

func (e *grpcStatusError) Error() string {
	return e.err.Error()
}

func (e *grpcStatusError) String() string {
	return e.Error()
}

func (e *grpcStatusError) Unwrap() error {
	return e.err
}

func (e *grpcStatusError) GRPCStatus() *Status {
	return e.status
}

func (e *grpcStatusError) Format(f fmt.State, verb rune) {
	framecap.Format(f, verb, e)
}

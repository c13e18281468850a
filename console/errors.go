package console

import (
	"errors"
	"net/http"

	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/panyam/caresim/core"
	"github.com/panyam/caresim/runtime"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
)

// StatusFor classifies err as a gRPC status. Invalid parameters carry a
// BadRequest detail naming the offending field.
func StatusFor(err error) *status.Status {
	var ipe *core.InvalidParameterError
	switch {
	case errors.As(err, &ipe):
		st := status.New(codes.InvalidArgument, err.Error())
		detailed, derr := st.WithDetails(&errdetails.BadRequest{
			FieldViolations: []*errdetails.BadRequest_FieldViolation{{Field: ipe.Field, Description: ipe.Reason}},
		})
		if derr != nil {
			return st
		}
		return detailed
	case errors.Is(err, errBadRequest), errors.Is(err, ErrEmptyComparison), errors.Is(err, core.ErrInvalidParameter):
		return status.New(codes.InvalidArgument, err.Error())
	case errors.Is(err, ErrComparisonNotFound):
		return status.New(codes.NotFound, err.Error())
	}
	return status.New(codes.Internal, err.Error())
}

// writeError renders err as a protojson google.rpc.Status with the HTTP code
// grpc-gateway would use for it.
func writeError(w http.ResponseWriter, err error) {
	st := StatusFor(err)
	code := gwruntime.HTTPStatusFromCode(st.Code())
	if code >= http.StatusInternalServerError {
		runtime.Error("console: %v", err)
	} else {
		runtime.Debug("console: %s: %v", st.Code(), err)
	}

	body, merr := protojson.Marshal(st.Proto())
	if merr != nil {
		http.Error(w, st.Message(), code)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(body)
}

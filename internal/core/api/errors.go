package api

import (
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Status mapping for handler errors. Auth failures are mapped by the auth
// interceptor before a handler runs.
//
//	decode, validation     INVALID_ARGUMENT
//	preset store           UNAVAILABLE
//	response encoding      INTERNAL

// invalidArgument reports a bad request field. An empty field reports err
// unprefixed.
func invalidArgument(field string, err error) error {
	if field == "" {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return status.Error(codes.InvalidArgument, fmt.Sprintf("%s: %v", field, err))
}

func unavailable(op string, err error) error {
	return status.Error(codes.Unavailable, fmt.Sprintf("failed to %s: %v", op, err))
}

func encodeFailure(err error) error {
	return status.Error(codes.Internal, fmt.Sprintf("failed to encode response: %v", err))
}

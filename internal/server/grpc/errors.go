package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/tsn/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errorCodes = []struct {
	err  error
	code codes.Code
}{
	{common.ErrInvalidUsername, codes.InvalidArgument},
	{common.ErrSelfFollow, codes.InvalidArgument},
	{common.ErrSelfUnfollow, codes.InvalidArgument},
	{common.ErrMalformedFrame, codes.InvalidArgument},
	{common.ErrAlreadyActive, codes.AlreadyExists},
	{common.ErrAlreadyFollowing, codes.AlreadyExists},
	{common.ErrNotRegistered, codes.NotFound},
	{common.ErrRequesterUnknown, codes.NotFound},
	{common.ErrTargetUnknown, codes.NotFound},
	{common.ErrNotFollowing, codes.FailedPrecondition},
	{common.ErrPersistence, codes.Unavailable},
}

// toStatus converts a domain error to a gRPC status. The message is the
// sentinel's text so clients can map it back.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return status.Error(e.code, e.err.Error())
		}
	}
	if errors.Is(err, context.Canceled) {
		return status.Error(codes.Canceled, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

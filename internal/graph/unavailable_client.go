package graph

import (
	"context"
	"fmt"
)

// NewUnavailableClient returns a Client whose every operation fails with
// ErrUnavailable wrapped around the original connection error. The server
// installs it when the graph store cannot be reached at startup so the API
// keeps serving and reports the outage per request instead of crashing.
func NewUnavailableClient(cause error) Client {
	return &unavailableClient{cause: cause}
}

type unavailableClient struct {
	cause error
}

func (u *unavailableClient) fail() error {
	if u.cause == nil {
		return ErrUnavailable
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, u.cause)
}

func (u *unavailableClient) ExecuteWrite(context.Context, string, map[string]any) (Result, error) {
	return Result{}, u.fail()
}

func (u *unavailableClient) ExecuteRead(context.Context, string, map[string]any) (Result, error) {
	return Result{}, u.fail()
}

func (u *unavailableClient) VerifyConnectivity(context.Context) error {
	return u.fail()
}

func (u *unavailableClient) Close(context.Context) error {
	return nil
}

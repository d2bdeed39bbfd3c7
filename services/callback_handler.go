package services

import (
	"context"

	"payparts/entity"
)

// CallbackHandler receives gateway notifications after their store id and
// signature were verified.
type CallbackHandler interface {
	HandleCallback(ctx context.Context, response *entity.Response) error
}

// CallbackFunc adapts a function to CallbackHandler.
type CallbackFunc func(ctx context.Context, response *entity.Response) error

func (f CallbackFunc) HandleCallback(ctx context.Context, response *entity.Response) error {
	return f(ctx, response)
}

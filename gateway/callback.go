package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"payparts/entity"
	"payparts/services"
)

const maxCallbackSize = 64 << 10

// Authenticator verifies gateway callbacks and passes them to the handler.
// It keeps no state between callbacks.
type Authenticator struct {
	store   Store
	handler services.CallbackHandler
	logger  services.LogHandler
}

// NewAuthenticator creates an authenticator; handler may be nil, callbacks
// are then only verified.
func NewAuthenticator(store Store, handler services.CallbackHandler) *Authenticator {
	return &Authenticator{
		store:   store,
		handler: handler,
		logger:  nopLogger{},
	}
}

func (a *Authenticator) SetLogger(logger services.LogHandler) {
	a.logger = logger
}

// Authenticate parses and verifies a callback body. Callbacks are
// unsolicited, so no order id is expected.
func (a *Authenticator) Authenticate(body []byte) (*entity.Response, error) {
	response, err := DecodeResponse(body)
	if err != nil {
		return nil, err
	}
	if err = ValidateResponse(a.store, response, ""); err != nil {
		return nil, err
	}
	return response, nil
}

// Handle authenticates the callback and invokes the handler synchronously.
func (a *Authenticator) Handle(ctx context.Context, body []byte) (*entity.Response, error) {
	response, err := a.Authenticate(body)
	if err != nil {
		return nil, err
	}
	a.logger.Info(fmt.Sprintf("callback: order %s; state: %s%s (%s)",
		response.OrderId, response.State, response.PaymentState, response.Lifecycle().Class()))
	if a.handler != nil {
		if err = a.handler.HandleCallback(ctx, response); err != nil {
			return response, &HandlerError{Err: err}
		}
	}
	return response, nil
}

// ServeHTTP answers 200 on an accepted callback and 400 when it cannot be
// verified; the handler is not invoked in that case.
func (a *Authenticator) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxCallbackSize))
	if err != nil {
		a.logger.Error("callback: read body", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	a.logger.Debug(fmt.Sprintf("callback: %s", string(body)))

	_, err = a.Handle(r.Context(), body)
	if err != nil {
		var handlerError *HandlerError
		if errors.As(err, &handlerError) {
			a.logger.Error("callback: handler", handlerError.Err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		a.logger.Warn(fmt.Sprintf("callback rejected: %v", err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandlerError wraps a failure of the registered callback handler.
type HandlerError struct {
	Err error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("callback handler: %v", e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// Package entity defines wire and domain types of the PayParts installment gateway.
package entity

// PaymentState is a lifecycle code reported by the gateway in status
// responses and callbacks.
type PaymentState string

const (
	StateCreated    PaymentState = "CREATED"
	StateCanceled   PaymentState = "CANCELED"
	StateSuccess    PaymentState = "SUCCESS"
	StateFail       PaymentState = "FAIL"
	StateClientWait PaymentState = "CLIENT_WAIT"
	StateOtpWaiting PaymentState = "OTP_WAITING"
	StatePpCreation PaymentState = "PP_CREATION"
	StateLocked     PaymentState = "LOCKED"
)

// PaymentStates maps every known lifecycle code to a human-readable description.
var PaymentStates = map[PaymentState]string{
	StateCreated:    "payment created",
	StateCanceled:   "payment canceled by client",
	StateSuccess:    "payment completed",
	StateFail:       "payment creation failed",
	StateClientWait: "waiting for client payment",
	StateOtpWaiting: "waiting for client OTP confirmation",
	StatePpCreation: "creating payment contract",
	StateLocked:     "funds reserved, waiting for store confirmation",
}

// StateClass is the client-side classification of a lifecycle code.
type StateClass string

const (
	ClassSuccess StateClass = "success"
	ClassFailed  StateClass = "failed"
	ClassPending StateClass = "pending"
	ClassUnknown StateClass = "unknown"
)

func (s PaymentState) IsKnown() bool {
	_, ok := PaymentStates[s]
	return ok
}

func (s PaymentState) IsSuccess() bool {
	return s == StateSuccess
}

// IsFailed reports terminal failures: the payment will not be completed.
func (s PaymentState) IsFailed() bool {
	return s == StateFail || s == StateCanceled
}

func (s PaymentState) IsPending() bool {
	return s.IsKnown() && !s.IsSuccess() && !s.IsFailed()
}

// Class returns the semantic class of the state.
func (s PaymentState) Class() StateClass {
	switch {
	case s.IsSuccess():
		return ClassSuccess
	case s.IsFailed():
		return ClassFailed
	case s.IsPending():
		return ClassPending
	}
	return ClassUnknown
}

func (s PaymentState) Description() string {
	if d, ok := PaymentStates[s]; ok {
		return d
	}
	return "unknown state"
}

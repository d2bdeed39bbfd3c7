package internal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payparts/entity"
	"payparts/gateway"
	"payparts/services"
)

type fakeGateway struct {
	err      error
	create   *gateway.PaymentRequest
	decline  *gateway.DeclineRequest
	describe *gateway.DescriptionRequest
	state    *gateway.StateRequest
	qr       *gateway.QrRequest
	orderId  string
}

func (g *fakeGateway) Create(_ context.Context, request *gateway.PaymentRequest) (*entity.Response, error) {
	g.create = request
	if g.err != nil {
		return nil, g.err
	}
	return &entity.Response{State: "SUCCESS", OrderId: request.OrderId, Token: "tok-1"}, nil
}

func (g *fakeGateway) Confirm(_ context.Context, orderId string) (*entity.Response, error) {
	g.orderId = orderId
	return g.result(orderId)
}

func (g *fakeGateway) Cancel(_ context.Context, orderId string) (*entity.Response, error) {
	g.orderId = orderId
	return g.result(orderId)
}

func (g *fakeGateway) Decline(_ context.Context, request *gateway.DeclineRequest) (*entity.Response, error) {
	g.decline = request
	return g.result(request.OrderId)
}

func (g *fakeGateway) Description(_ context.Context, request *gateway.DescriptionRequest) (*entity.Response, error) {
	g.describe = request
	return g.result(request.OrderId)
}

func (g *fakeGateway) State(_ context.Context, request *gateway.StateRequest) (*entity.Response, error) {
	g.state = request
	if g.err != nil {
		return nil, g.err
	}
	return &entity.Response{PaymentState: "LOCKED", OrderId: request.OrderId}, nil
}

func (g *fakeGateway) Qr(_ context.Context, request *gateway.QrRequest) (string, error) {
	g.qr = request
	return "qr-data", g.err
}

func (g *fakeGateway) PaymentUrl(token string) string {
	return entity.CheckoutUrl("https://bank.example/ipp/v2", token)
}

func (g *fakeGateway) result(orderId string) (*entity.Response, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &entity.Response{State: "SUCCESS", OrderId: orderId}, nil
}

func serve(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func newTestServer(g Gateway, callbacks http.Handler) http.Handler {
	server := NewServer(nil, g, callbacks)
	server.SetLogger(&recordingLogger{})
	return server.Handler()
}

func TestServer_Create(t *testing.T) {
	g := &fakeGateway{}
	handler := newTestServer(g, nil)

	rec := serve(t, handler, http.MethodPost, "/payment",
		`{"orderId":"123","hold":true,"products":[{"name":"Tool","count":1,"price":"300.12"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"orderId":"123","token":"tok-1","paymentUrl":"https://bank.example/ipp/v2/payment?token=tok-1"}`,
		rec.Body.String())
	require.NotNil(t, g.create)
	assert.True(t, g.create.Hold)
	assert.Equal(t, "300.12", g.create.Products[0].Price.StringFixed(2))

	rec = serve(t, handler, http.MethodPost, "/payment", `{"orderId":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ErrorMapping(t *testing.T) {
	validation := &gateway.ValidationError{}
	validation.Add("partsCount", "must be between %d and %d", 2, 25)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "validation", err: validation, wantStatus: http.StatusBadRequest},
		{name: "business", err: &gateway.BusinessError{State: "FAIL", Message: "declined"}, wantStatus: http.StatusUnprocessableEntity},
		{name: "signature", err: gateway.ErrSignatureMismatch, wantStatus: http.StatusBadGateway},
		{name: "protocol", err: &gateway.ProtocolError{Err: gateway.ErrStateXor}, wantStatus: http.StatusBadGateway},
		{name: "transport", err: &gateway.TransportError{StatusCode: 503}, wantStatus: http.StatusBadGateway},
		{name: "other", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestServer(&fakeGateway{err: tt.err}, nil)
			rec := serve(t, handler, http.MethodPost, "/payment/123/confirm", "")
			assert.Equal(t, tt.wantStatus, rec.Code)

			var reply errorReply
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
			assert.NotEmpty(t, reply.Error)
		})
	}

	handler := newTestServer(&fakeGateway{err: validation}, nil)
	rec := serve(t, handler, http.MethodPost, "/payment/123/cancel", "")
	assert.JSONEq(t, `{"error":"validation failed","fields":{"partsCount":["must be between 2 and 25"]}}`, rec.Body.String())
}

func TestServer_Operations(t *testing.T) {
	g := &fakeGateway{}
	handler := newTestServer(g, nil)

	rec := serve(t, handler, http.MethodPost, "/payment/42/cancel", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42", g.orderId)

	rec = serve(t, handler, http.MethodPost, "/payment/42/decline", `{"amount":"10.50"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, g.decline)
	assert.Equal(t, "42", g.decline.OrderId)
	assert.Equal(t, "10.5", g.decline.Amount.String())

	rec = serve(t, handler, http.MethodPost, "/payment/42/description", `{"description":"gift"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gift", g.describe.Description)

	rec = serve(t, handler, http.MethodGet, "/payment/42/state?show_amount=1&show_refund=false", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, g.state.ShowAmount)
	assert.True(t, *g.state.ShowAmount)
	assert.False(t, *g.state.ShowRefund)
	var state map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, "LOCKED", state["paymentState"])
	assert.Equal(t, "pending", state["class"])

	rec = serve(t, handler, http.MethodGet, "/payment/42/state?show_amount=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, handler, http.MethodGet, "/qr?token=tok&amount=300.00&size=200", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"qr":"qr-data"}`, rec.Body.String())
	assert.Equal(t, "200", g.qr.Size)

	rec = serve(t, handler, http.MethodGet, "/qr?token=tok&amount=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, handler, http.MethodGet, "/checkout/tok-1", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://bank.example/ipp/v2/payment?token=tok-1", rec.Header().Get("Location"))
}

func TestServer_Callback(t *testing.T) {
	store, err := gateway.NewStore(gateway.TestStoreId, gateway.TestPassword)
	require.NoError(t, err)

	var received []*entity.Response
	authenticator := gateway.NewAuthenticator(store, services.CallbackFunc(
		func(_ context.Context, response *entity.Response) error {
			received = append(received, response)
			return nil
		}))
	handler := newTestServer(&fakeGateway{}, authenticator)

	response := &entity.Response{PaymentState: "SUCCESS", StoreId: gateway.TestStoreId, OrderId: "123"}
	gateway.SignResponse(store, response)
	body, err := json.Marshal(response)
	require.NoError(t, err)

	rec := serve(t, handler, http.MethodPost, "/callback", string(body))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, received, 1)
	assert.Equal(t, "123", received[0].OrderId)

	forged := strings.Replace(string(body), `"SUCCESS"`, `"FAIL"`, 1)
	rec = serve(t, handler, http.MethodPost, "/callback", forged)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, received, 1)
}

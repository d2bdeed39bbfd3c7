package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"payparts/entity"
	"payparts/services"
)

const maxResponseSize = 1 << 20

// Defaults fill empty fields of payment requests.
type Defaults struct {
	ResponseUrl  string
	RedirectUrl  string
	PartsCount   int
	MerchantType entity.MerchantType
}

// Client sends signed requests to the gateway. Each call performs exactly
// one HTTP round trip; the client holds only read-only configuration and is
// safe for concurrent use.
type Client struct {
	store      Store
	apiUrl     string
	qrUrl      string
	defaults   Defaults
	httpClient *http.Client
	logger     services.LogHandler
}

func NewClient(store Store) *Client {
	return &Client{
		store:  store,
		apiUrl: ApiUrl,
		qrUrl:  QrUrl,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: nopLogger{},
	}
}

func (c *Client) SetApiUrl(apiUrl string) {
	c.apiUrl = strings.TrimRight(apiUrl, "/")
}

func (c *Client) SetQrUrl(qrUrl string) {
	c.qrUrl = qrUrl
}

func (c *Client) SetHttpClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

func (c *Client) SetDefaults(defaults Defaults) {
	c.defaults = defaults
}

func (c *Client) SetLogger(logger services.LogHandler) {
	c.logger = logger
}

func (c *Client) Store() Store {
	return c.store
}

// PaymentUrl is the checkout page the buyer is redirected to.
func (c *Client) PaymentUrl(token string) string {
	return entity.CheckoutUrl(c.apiUrl, token)
}

// Create creates (or holds) a payment and returns the verified reply with a token.
func (c *Client) Create(ctx context.Context, request *PaymentRequest) (*entity.Response, error) {
	c.applyDefaults(request)
	response, err := c.Send(ctx, request)
	if err != nil {
		return nil, err
	}
	if response.Token == "" {
		return nil, &ProtocolError{Err: ErrNoToken}
	}
	c.logger.Info(fmt.Sprintf("payment %s created; token: %s", request.OrderId, secret(response.Token)))
	return response, nil
}

func (c *Client) Confirm(ctx context.Context, orderId string) (*entity.Response, error) {
	return c.Send(ctx, NewConfirmRequest(orderId))
}

func (c *Client) Cancel(ctx context.Context, orderId string) (*entity.Response, error) {
	return c.Send(ctx, NewCancelRequest(orderId))
}

func (c *Client) Decline(ctx context.Context, request *DeclineRequest) (*entity.Response, error) {
	return c.Send(ctx, request)
}

func (c *Client) Description(ctx context.Context, request *DescriptionRequest) (*entity.Response, error) {
	return c.Send(ctx, request)
}

func (c *Client) State(ctx context.Context, request *StateRequest) (*entity.Response, error) {
	return c.Send(ctx, request)
}

// Send validates, signs and posts the request, then verifies the reply.
// Validation failures return before any network call.
func (c *Client) Send(ctx context.Context, request Request) (*entity.Response, error) {
	payload, err := request.Payload(c.store)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	c.logger.Debug(fmt.Sprintf("request %s: %s", request.Path(), string(body)))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiUrl+"/"+request.Path(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	setAcceptHeaders(req)

	data, err := c.do(req)
	if err != nil {
		c.logger.Error(fmt.Sprintf("post %s", request.Path()), err)
		return nil, err
	}
	c.logger.Debug(fmt.Sprintf("response %s: %s", request.Path(), string(data)))

	response, err := DecodeResponse(data)
	if err != nil {
		return nil, err
	}
	if err = ValidateResponse(c.store, response, orderIdOf(request)); err != nil {
		if errors.Is(err, ErrAuthentication) {
			c.logger.Warn(fmt.Sprintf("unverified response to %s: %v", request.Path(), err))
		}
		return nil, err
	}
	if err = checkState(response); err != nil {
		return nil, err
	}
	return response, nil
}

// Qr requests a QR code for a payment token and returns its payload.
func (c *Client) Qr(ctx context.Context, request *QrRequest) (string, error) {
	query, err := request.Query(c.store)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.qrUrl+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create http request: %w", err)
	}
	setAcceptHeaders(req)

	data, err := c.do(req)
	if err != nil {
		c.logger.Error("get qr", err)
		return "", err
	}
	var qr entity.QrResponse
	if err = json.Unmarshal(data, &qr); err != nil {
		return "", protocolError(fmt.Errorf("decode json: %w", err), data)
	}
	if entity.PaymentState(qr.State) != entity.StateSuccess {
		return "", &BusinessError{State: qr.State, Message: qr.Message}
	}
	if qr.Qr == "" {
		return "", protocolError(ErrNoQr, data)
	}
	return qr.Qr, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer func(Body io.ReadCloser) {
		if e := Body.Close(); e != nil {
			c.logger.Error("close response body", e)
		}
	}(response.Body)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, &TransportError{StatusCode: response.StatusCode}
	}
	data, err := io.ReadAll(io.LimitReader(response.Body, maxResponseSize))
	if err != nil {
		return nil, &TransportError{StatusCode: response.StatusCode, Err: fmt.Errorf("read response body: %w", err)}
	}
	return data, nil
}

func (c *Client) applyDefaults(request *PaymentRequest) {
	if request.ResponseUrl == "" {
		request.ResponseUrl = c.defaults.ResponseUrl
	}
	if request.RedirectUrl == "" {
		request.RedirectUrl = c.defaults.RedirectUrl
	}
	if request.PartsCount == 0 {
		request.PartsCount = c.defaults.PartsCount
	}
	if request.MerchantType == "" {
		request.MerchantType = c.defaults.MerchantType
	}
}

func setAcceptHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "UTF-8")
}

func orderIdOf(request Request) string {
	switch r := request.(type) {
	case *PaymentRequest:
		return r.OrderId
	case *OrderRequest:
		return r.OrderId
	case *DeclineRequest:
		return r.OrderId
	case *DescriptionRequest:
		return r.OrderId
	case *StateRequest:
		return r.OrderId
	}
	return ""
}

// secret masks tokens and identifiers in log text.
func secret(some string) string {
	if len(some) > 5 {
		return fmt.Sprintf("%s***", some[0:5])
	}
	if some == "" {
		return "?"
	}
	return "***"
}

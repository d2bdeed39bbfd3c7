package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"payparts/config"
	"payparts/entity"
	"payparts/gateway"
	"payparts/services"
)

const (
	callback         = "/callback"
	createPayment    = "/payment"
	confirmPayment   = "/payment/:order_id/confirm"
	cancelPayment    = "/payment/:order_id/cancel"
	declinePayment   = "/payment/:order_id/decline"
	describePayment  = "/payment/:order_id/description"
	paymentState     = "/payment/:order_id/state"
	generateQr       = "/qr"
	checkoutRedirect = "/checkout/:token"

	maxRequestSize = 64 << 10
)

// Gateway is the part of the gateway client the server exposes.
type Gateway interface {
	Create(ctx context.Context, request *gateway.PaymentRequest) (*entity.Response, error)
	Confirm(ctx context.Context, orderId string) (*entity.Response, error)
	Cancel(ctx context.Context, orderId string) (*entity.Response, error)
	Decline(ctx context.Context, request *gateway.DeclineRequest) (*entity.Response, error)
	Description(ctx context.Context, request *gateway.DescriptionRequest) (*entity.Response, error)
	State(ctx context.Context, request *gateway.StateRequest) (*entity.Response, error)
	Qr(ctx context.Context, request *gateway.QrRequest) (string, error)
	PaymentUrl(token string) string
}

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	gateway    Gateway
	callbacks  http.Handler
	logger     services.LogHandler
}

func NewServer(conf *config.Config, client Gateway, callbacks http.Handler) *Server {
	server := Server{
		conf:      conf,
		gateway:   client,
		callbacks: callbacks,
		logger:    NewLogger("server", false, nil),
	}

	// register itself as a router for httpServer handler
	router := httprouter.New()
	server.Register(router)
	server.httpServer = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &server
}

func (s *Server) Register(router *httprouter.Router) {
	if s.callbacks != nil {
		router.Handler(http.MethodPost, callback, s.callbacks)
	}
	router.POST(createPayment, s.create)
	router.POST(confirmPayment, s.confirm)
	router.POST(cancelPayment, s.cancel)
	router.POST(declinePayment, s.decline)
	router.POST(describePayment, s.description)
	router.GET(paymentState, s.state)
	router.GET(generateQr, s.qr)
	router.GET(checkoutRedirect, s.checkout)
}

func (s *Server) SetLogger(logger services.LogHandler) {
	s.logger = logger
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	if s.conf == nil {
		return fmt.Errorf("configuration not loaded")
	}

	serverAddress := fmt.Sprintf("%s:%s", s.conf.Listen.BindIP, s.conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	if s.conf.Listen.TLS {
		s.logger.Info(fmt.Sprintf("starting https TLS on %s", serverAddress))
		err = s.httpServer.ServeTLS(listener, s.conf.Listen.CertFile, s.conf.Listen.KeyFile)
	} else {
		s.logger.Info(fmt.Sprintf("starting http on %s", serverAddress))
		err = s.httpServer.Serve(listener)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	var request gateway.PaymentRequest
	if err := decodeBody(r, &request); err != nil {
		s.logger.Warn(fmt.Sprintf("[%s] create payment: %v", reqID, err))
		writeJson(w, http.StatusBadRequest, errorReply{Error: err.Error()})
		return
	}

	s.logger.Info(fmt.Sprintf("[%s] processing request: create payment %s, hold %v", reqID, request.OrderId, request.Hold))
	response, err := s.gateway.Create(ctx, &request)
	if err != nil {
		s.fail(w, reqID, fmt.Sprintf("create payment %s", request.OrderId), err)
		return
	}

	writeJson(w, http.StatusOK, createReply{
		OrderId:    response.OrderId,
		Token:      response.Token,
		PaymentUrl: s.gateway.PaymentUrl(response.Token),
	})
}

func (s *Server) confirm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := WithRequestID(r.Context())
	orderId := ps.ByName("order_id")
	response, err := s.gateway.Confirm(ctx, orderId)
	s.reply(w, GetRequestID(ctx), fmt.Sprintf("confirm payment %s", orderId), response, err)
}

func (s *Server) cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := WithRequestID(r.Context())
	orderId := ps.ByName("order_id")
	response, err := s.gateway.Cancel(ctx, orderId)
	s.reply(w, GetRequestID(ctx), fmt.Sprintf("cancel payment %s", orderId), response, err)
}

func (s *Server) decline(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	var request gateway.DeclineRequest
	if err := decodeBody(r, &request); err != nil {
		s.logger.Warn(fmt.Sprintf("[%s] decline payment: %v", reqID, err))
		writeJson(w, http.StatusBadRequest, errorReply{Error: err.Error()})
		return
	}
	request.OrderId = ps.ByName("order_id")

	s.logger.Info(fmt.Sprintf("[%s] processing request: decline payment %s, amount %s", reqID, request.OrderId, request.Amount))
	response, err := s.gateway.Decline(ctx, &request)
	s.reply(w, reqID, fmt.Sprintf("decline payment %s", request.OrderId), response, err)
}

func (s *Server) description(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	var request gateway.DescriptionRequest
	if err := decodeBody(r, &request); err != nil {
		s.logger.Warn(fmt.Sprintf("[%s] payment description: %v", reqID, err))
		writeJson(w, http.StatusBadRequest, errorReply{Error: err.Error()})
		return
	}
	request.OrderId = ps.ByName("order_id")

	response, err := s.gateway.Description(ctx, &request)
	s.reply(w, reqID, fmt.Sprintf("payment description %s", request.OrderId), response, err)
}

func (s *Server) state(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	request := gateway.StateRequest{OrderId: ps.ByName("order_id")}
	query := r.URL.Query()
	var err error
	if request.ShowAmount, err = queryFlag(query.Get("show_amount")); err != nil {
		writeJson(w, http.StatusBadRequest, errorReply{Error: "show_amount: " + err.Error()})
		return
	}
	if request.ShowRefund, err = queryFlag(query.Get("show_refund")); err != nil {
		writeJson(w, http.StatusBadRequest, errorReply{Error: "show_refund: " + err.Error()})
		return
	}

	response, err := s.gateway.State(ctx, &request)
	if err != nil {
		s.fail(w, reqID, fmt.Sprintf("payment state %s", request.OrderId), err)
		return
	}
	state := response.Lifecycle()
	writeJson(w, http.StatusOK, stateReply{
		Response:    response,
		Class:       state.Class(),
		Description: state.Description(),
	})
}

func (s *Server) qr(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	query := r.URL.Query()
	amount, err := decimal.NewFromString(query.Get("amount"))
	if err != nil {
		writeJson(w, http.StatusBadRequest, errorReply{Error: "amount: invalid number"})
		return
	}
	request := gateway.QrRequest{
		Token:  query.Get("token"),
		Amount: amount,
		Size:   query.Get("size"),
		Type:   entity.MerchantType(query.Get("type")),
	}

	qr, err := s.gateway.Qr(ctx, &request)
	if err != nil {
		s.fail(w, reqID, "generate qr", err)
		return
	}
	writeJson(w, http.StatusOK, qrReply{Qr: qr})
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	target := s.gateway.PaymentUrl(strings.TrimSpace(ps.ByName("token")))
	if target == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (s *Server) reply(w http.ResponseWriter, reqID, operation string, response *entity.Response, err error) {
	if err != nil {
		s.fail(w, reqID, operation, err)
		return
	}
	writeJson(w, http.StatusOK, response)
}

// fail maps a gateway error to the reply status: 400 for invalid input,
// 422 for a declined operation, 502 when the gateway could not be trusted
// or reached.
func (s *Server) fail(w http.ResponseWriter, reqID, operation string, err error) {
	var (
		validationErr *gateway.ValidationError
		businessErr   *gateway.BusinessError
		protocolErr   *gateway.ProtocolError
		transportErr  *gateway.TransportError
	)
	switch {
	case errors.As(err, &validationErr):
		s.logger.Warn(fmt.Sprintf("[%s] %s: %v", reqID, operation, err))
		writeJson(w, http.StatusBadRequest, errorReply{Error: "validation failed", Fields: validationErr.Fields})
	case errors.As(err, &businessErr):
		s.logger.Warn(fmt.Sprintf("[%s] %s: %v", reqID, operation, err))
		writeJson(w, http.StatusUnprocessableEntity, errorReply{Error: businessErr.Message, State: businessErr.State})
	case errors.Is(err, gateway.ErrAuthentication), errors.As(err, &protocolErr), errors.As(err, &transportErr):
		s.logger.Error(fmt.Sprintf("[%s] %s", reqID, operation), err)
		writeJson(w, http.StatusBadGateway, errorReply{Error: err.Error()})
	default:
		s.logger.Error(fmt.Sprintf("[%s] %s", reqID, operation), err)
		writeJson(w, http.StatusInternalServerError, errorReply{Error: "internal error"})
	}
}

type errorReply struct {
	Error  string              `json:"error"`
	State  string              `json:"state,omitempty"`
	Fields map[string][]string `json:"fields,omitempty"`
}

type createReply struct {
	OrderId    string `json:"orderId"`
	Token      string `json:"token"`
	PaymentUrl string `json:"paymentUrl"`
}

type stateReply struct {
	*entity.Response
	Class       entity.StateClass `json:"class"`
	Description string            `json:"description"`
}

type qrReply struct {
	Qr string `json:"qr"`
}

func decodeBody(r *http.Request, v interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestSize))
	if err != nil {
		return fmt.Errorf("read request body: %w", err)
	}
	if err = json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// queryFlag parses an optional boolean query value; empty means not set.
func queryFlag(value string) (*bool, error) {
	if value == "" {
		return nil, nil
	}
	flag, err := cast.ToBoolE(value)
	if err != nil {
		return nil, err
	}
	return &flag, nil
}

func writeJson(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

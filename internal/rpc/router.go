package rpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/agro_shop/internal/logging"
)

const maxBodyBytes = 1 << 20

// Router dispatches batched procedure calls mounted under one HTTP path.
type Router struct {
	procs         map[string]Procedure
	authenticated func(c echo.Context) bool
	mapErr        ErrorMapper
}

type Option func(*Router)

// WithAuth sets the check protected procedures run before their handler.
func WithAuth(fn func(c echo.Context) bool) Option {
	return func(r *Router) { r.authenticated = fn }
}

// WithErrorMapper translates domain errors that are not *Error.
func WithErrorMapper(m ErrorMapper) Option {
	return func(r *Router) { r.mapErr = m }
}

func NewRouter(opts ...Option) *Router {
	r := &Router{
		procs:         make(map[string]Procedure),
		authenticated: func(echo.Context) bool { return false },
		mapErr:        defaultMapper,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Router) Register(p Procedure) {
	if p.Name == "" || p.Handler == nil {
		panic("rpc: procedure needs a name and a handler")
	}
	if _, dup := r.procs[p.Name]; dup {
		panic("rpc: duplicate procedure " + p.Name)
	}
	r.procs[p.Name] = p
}

func (r *Router) Procedures() []string {
	out := make([]string, 0, len(r.procs))
	for name := range r.procs {
		out = append(out, name)
	}
	return out
}

// Mount registers the router on g as GET and POST /:path.
func (r *Router) Mount(g *echo.Group) {
	g.GET("/:path", r.Handle)
	g.POST("/:path", r.Handle)
}

type envelope struct {
	Result *resultBody `json:"result,omitempty"`
	Error  *errorBody  `json:"error,omitempty"`
	status int
}

type resultBody struct {
	Data any `json:"data"`
}

type errorBody struct {
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Data    errorData `json:"data"`
}

type errorData struct {
	Code       Code   `json:"code"`
	HTTPStatus int    `json:"httpStatus"`
	Path       string `json:"path"`
}

func (r *Router) Handle(c echo.Context) error {
	path := c.Param("path")
	names := strings.Split(path, ",")
	batch := isBatch(c.QueryParam("batch"))

	if !batch && len(names) > 1 {
		res := r.failure(c, path, NewError(CodeBadRequest, "calling several procedures requires batch=1"))
		return c.JSON(res.status, res)
	}

	inputs, err := readInputs(c, len(names), batch)
	results := make([]envelope, len(names))
	for i, name := range names {
		if err != nil {
			results[i] = r.failure(c, name, Wrap(CodeParseError, "could not parse input", err))
			continue
		}
		results[i] = r.call(c, name, inputs[i])
	}

	if !batch {
		return c.JSON(results[0].status, results[0])
	}
	return c.JSON(batchStatus(results), results)
}

func (r *Router) call(c echo.Context, name string, input json.RawMessage) envelope {
	p, ok := r.procs[name]
	if !ok {
		return r.failure(c, name, NewError(CodeNotFound, fmt.Sprintf("no procedure found on path %q", name)))
	}
	if want := methodFor(p.Kind); c.Request().Method != want {
		return r.failure(c, name, NewError(CodeMethodNotSupported, fmt.Sprintf("%s procedures must be called with %s", p.Kind, want)))
	}
	if p.Protected && !r.authenticated(c) {
		return r.failure(c, name, NewError(CodeUnauthorized, "please login"))
	}

	data, err := p.Handler(c, input)
	if err != nil {
		return r.failure(c, name, r.toError(err))
	}
	return envelope{Result: &resultBody{Data: data}, status: http.StatusOK}
}

func (r *Router) toError(err error) *Error {
	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	if mapped := r.mapErr(err); mapped != nil {
		return mapped
	}
	return defaultMapper(err)
}

func (r *Router) failure(c echo.Context, path string, e *Error) envelope {
	l := logging.FromContext(c.Request().Context()).With("rpc_path", path, "rpc_code", string(e.Code))
	if e.Code == CodeInternal {
		l.Error("rpc_call_error", "error", e)
	} else {
		l.Warn("rpc_call_rejected", "reason", e.Message)
	}

	status := e.Code.HTTPStatus()
	return envelope{
		Error: &errorBody{
			Message: e.Message,
			Code:    e.Code.JSONRPC(),
			Data:    errorData{Code: e.Code, HTTPStatus: status, Path: path},
		},
		status: status,
	}
}

// batchStatus is the shared status of all calls, or 207 when they differ.
func batchStatus(results []envelope) int {
	status := 0
	for _, res := range results {
		switch {
		case status == 0:
			status = res.status
		case status != res.status:
			return http.StatusMultiStatus
		}
	}
	if status == 0 {
		return http.StatusOK
	}
	return status
}

func methodFor(k Kind) string {
	if k == Mutation {
		return http.MethodPost
	}
	return http.MethodGet
}

func isBatch(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

// readInputs returns one raw input per call. Batched inputs are a JSON
// object keyed by call index.
func readInputs(c echo.Context, n int, batch bool) ([]json.RawMessage, error) {
	var raw []byte
	if c.Request().Method == http.MethodGet {
		raw = []byte(c.QueryParam("input"))
	} else {
		body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes))
		if err != nil {
			return nil, err
		}
		raw = body
	}

	inputs := make([]json.RawMessage, n)
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return inputs, nil
	}
	if !json.Valid(raw) {
		return nil, errors.New("input is not valid JSON")
	}
	if !batch {
		inputs[0] = unwrapTransformer(raw)
		return inputs, nil
	}

	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keyed); err != nil {
		return nil, fmt.Errorf("batched input must be an object keyed by call index: %w", err)
	}
	for i := range inputs {
		inputs[i] = unwrapTransformer(keyed[strconv.Itoa(i)])
	}
	return inputs, nil
}

// unwrapTransformer accepts inputs sent as {"json": ..., "meta": ...} by
// clients using a serializing transformer.
func unwrapTransformer(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || raw[0] != '{' {
		return raw
	}
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return raw
	}
	inner, ok := wrapped["json"]
	if !ok {
		return raw
	}
	for k := range wrapped {
		if k != "json" && k != "meta" {
			return raw
		}
	}
	return inner
}

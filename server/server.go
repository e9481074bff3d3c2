package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	cerrors "github.com/cockroachdb/errors"
	"github.com/grpc-ecosystem/grpc-gateway/runtime"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc/codes"

	"github.com/hyperledger-labs/yui-colony/core"
	"github.com/hyperledger-labs/yui-colony/log"
)

const shutdownTimeout = 5 * time.Second

// ChainRegistry resolves configured chains by name.
type ChainRegistry interface {
	GetChain(name string) (core.Chain, error)
}

// APIServer exposes every configured chain over HTTP. Each adapter operation
// is served at POST /{chain}/{method}; results are wrapped as {"data": ...}.
type APIServer struct {
	chains ChainRegistry
	names  func() []string
	mux    *http.ServeMux
	logger *log.RelayLogger
}

// NewAPIServer returns a server resolving chains through chains. names lists
// the chains reported by GET /chains.
func NewAPIServer(chains ChainRegistry, names func() []string) *APIServer {
	srv := &APIServer{
		chains: chains,
		names:  names,
		mux:    http.NewServeMux(),
		logger: log.GetLogger().WithModule("server"),
	}
	srv.mux.HandleFunc("GET /chains", srv.handleChains)
	srv.mux.HandleFunc("POST /{chain}/{method}", srv.handleMethod)
	return srv
}

// Handler returns the instrumented HTTP handler of the server.
func (srv *APIServer) Handler() http.Handler {
	return otelhttp.NewHandler(srv.mux, "colony.api")
}

// Start serves on listenAddress until ctx is done.
func (srv *APIServer) Start(ctx context.Context, listenAddress string) error {
	hs := &http.Server{
		Addr:              listenAddress,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		srv.logger.Info("api server listening", "address", listenAddress)
		errCh <- hs.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

type envelope struct {
	Data  any        `json:"data,omitempty"`
	Error *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    uint32 `json:"code"`
	Message string `json:"message"`
}

// statusCode maps err to an HTTP status through its gRPC code.
func statusCode(err error) int {
	var connErr *core.ConnectionError
	if cerrors.As(err, &connErr) {
		return runtime.HTTPStatusFromCode(codes.Unavailable)
	}
	code := core.GRPCCode(err)
	if code == codes.Unknown {
		return http.StatusInternalServerError
	}
	return runtime.HTTPStatusFromCode(code)
}

func (srv *APIServer) writeData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(envelope{Data: data}); err != nil {
		srv.logger.Error("failed to write response", err)
	}
}

func (srv *APIServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusCode(err)
	if status >= http.StatusInternalServerError {
		srv.logger.ErrorContext(r.Context(), "request failed", err, "path", r.URL.Path)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := envelope{Error: &errorBody{Code: core.ErrorCode(err), Message: err.Error()}}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		srv.logger.Error("failed to write response", err)
	}
}

func (srv *APIServer) handleChains(w http.ResponseWriter, r *http.Request) {
	srv.writeData(w, srv.names())
}

package transport

//----------------------------------------------------------------------
// This file is part of the Hyperborea overlay core.
// Route table grounded on original_source/src/rest_api/middleware/server.rs's
// http_server.get/post registrations; net/http.ServeMux chosen as the
// stdlib baseline SAGE-X-project-sage's metrics.StartServer also builds on.
//----------------------------------------------------------------------

import (
	"encoding/json"
	"net/http"

	"github.com/bfix/hyperborea/logger"
	"github.com/bfix/hyperborea/rest"
	"github.com/bfix/hyperborea/server"
)

// Server fronts a server.Driver with its nine verb routes, all under
// /api/v1.
type Server struct {
	driver *server.Driver
	mux    *http.ServeMux
}

// NewServer builds the route table for driver.
func NewServer(driver *server.Driver) *Server {
	s := &Server{driver: driver, mux: http.NewServeMux()}

	s.mux.HandleFunc("/api/v1/info", getHandler(driver.Info))
	s.mux.HandleFunc("/api/v1/clients", getHandler(driver.Clients))
	s.mux.HandleFunc("/api/v1/servers", getHandler(driver.Servers))
	s.mux.HandleFunc("/api/v1/connect", postHandler(driver.Connect))
	s.mux.HandleFunc("/api/v1/disconnect", postHandler(driver.Disconnect))
	s.mux.HandleFunc("/api/v1/announce", postHandler(driver.Announce))
	s.mux.HandleFunc("/api/v1/lookup", postHandler(driver.Lookup))
	s.mux.HandleFunc("/api/v1/send", postHandler(driver.Send))
	s.mux.HandleFunc("/api/v1/poll", postHandler(driver.Poll))

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server on addr.
func (s *Server) ListenAndServe(addr string) error {
	logger.Printf(logger.INFO, "[transport] listening on %s\n", addr)
	return http.ListenAndServe(addr, s)
}

// getHandler wraps a no-body verb (info/clients/servers): the envelope is
// still carried as a query-less signed Request[struct{}] body on the wire,
// matching the GET routes' "no body beyond the envelope" shape.
func getHandler[Resp any](fn func(*rest.Request[struct{}]) *rest.Response[Resp]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rest.Request[struct{}]
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, rest.NewErrorResponse[Resp](rest.StatusRequestValidationFailed, "malformed envelope"))
			return
		}
		writeJSON(w, fn(&req))
	}
}

// postHandler wraps a verb taking a request body.
func postHandler[Req, Resp any](fn func(*rest.Request[Req]) *rest.Response[Resp]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rest.Request[Req]
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, rest.NewErrorResponse[Resp](rest.StatusRequestValidationFailed, "malformed envelope"))
			return
		}
		writeJSON(w, fn(&req))
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

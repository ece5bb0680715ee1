package healthcheck

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/bytearena/geoswarm/common/utils"
)

type HealthCheckServer struct {
	checkers []namedChecker
	lock     *sync.Mutex
	port     int
}

type HealthChecks struct {
	Name   string
	Status bool
	Error  string `json:",omitempty"`
}

type HealthCheckHttpResponse struct {
	Checks     []HealthChecks
	StatusCode int
}

// HealthCheckHandler reports whether a component is healthy; an error means
// the check itself could not run.
type HealthCheckHandler func() (ok bool, err error)

type namedChecker struct {
	name    string
	handler HealthCheckHandler
}

func NewHealthCheckServer(port int) *HealthCheckServer {
	return &HealthCheckServer{
		lock: &sync.Mutex{},
		port: port,
	}
}

func (server *HealthCheckServer) Register(name string, handler HealthCheckHandler) {
	server.lock.Lock()
	server.checkers = append(server.checkers, namedChecker{name: name, handler: handler})
	server.lock.Unlock()
}

func (server *HealthCheckServer) Check() HealthCheckHttpResponse {
	server.lock.Lock()
	checkers := make([]namedChecker, len(server.checkers))
	copy(checkers, server.checkers)
	server.lock.Unlock()

	res := HealthCheckHttpResponse{
		Checks:     make([]HealthChecks, 0, len(checkers)),
		StatusCode: http.StatusOK,
	}

	for _, checker := range checkers {
		ok, err := checker.handler()

		check := HealthChecks{
			Name:   checker.name,
			Status: ok && err == nil,
		}

		if err != nil {
			check.Error = err.Error()
		}

		if !check.Status {
			res.StatusCode = http.StatusInternalServerError
		}

		res.Checks = append(res.Checks, check)
	}

	return res
}

func (server *HealthCheckServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res := server.Check()

	data, err := json.Marshal(res)
	if err != nil {
		http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)
	w.Write(data)
}

// Listen blocks serving /health on the configured port.
func (server *HealthCheckServer) Listen() error {
	mux := http.NewServeMux()
	mux.Handle("/health", server)

	addr := ":" + strconv.Itoa(server.port)
	utils.Debug("healthcheck", "Listening on "+addr)

	return http.ListenAndServe(addr, mux)
}

package mockservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const listenerTimeout = time.Second * 10

// Server runs a Service on a TCP port.
type Server struct {
	server *http.Server
	errCh  chan error
}

// Start listens on addr and returns once the listener is answering requests. HEAD requests
// to any path get an empty 200 response; they are used to detect that the listener is up.
// If that cannot be detected, the server is closed again before Start returns.
func Start(addr string, handler http.Handler, logger *slog.Logger) (*Server, error) {
	return start(addr, handler, logger, "http://"+dialHost(addr), listenerTimeout)
}

func start(addr string, handler http.Handler, logger *slog.Logger, checkURL string, timeout time.Duration) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		server: &http.Server{
			Addr: addr,
			Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method == http.MethodHead {
					w.WriteHeader(http.StatusOK)
					return
				}
				handler.ServeHTTP(w, r)
			}),
			ReadHeaderTimeout: 5 * time.Second,
		},
		errCh: make(chan error, 1),
	}
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errCh <- err
		}
		close(s.errCh)
	}()

	checkClient := &http.Client{Timeout: time.Second}
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(time.Millisecond * 10)
	defer ticker.Stop()
	for {
		select {
		case err := <-s.errCh:
			if err == nil {
				err = errors.New("server stopped")
			}
			return nil, fmt.Errorf("could not start listener at %s: %w", addr, err)
		case <-deadline.C:
			_ = s.server.Close()
			<-s.errCh
			return nil, fmt.Errorf("could not detect own listener at %s", addr)
		case <-ticker.C:
			resp, err := checkClient.Head(checkURL)
			if err == nil {
				resp.Body.Close()
				if resp.StatusCode == http.StatusOK {
					logger.Info("mock notes service listening", "addr", addr)
					return s, nil
				}
			}
		}
	}
}

// Done is closed when the server stops. It receives an error first if it stopped because
// of one.
func (s *Server) Done() <-chan error {
	return s.errCh
}

// Shutdown stops accepting requests and waits for active ones to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// dialHost turns a listen address such as ":8111" into one that can be dialed.
func dialHost(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

package publish

import (
	"context"
	"fmt"
	"html"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const callbackPath = "/oauth2callback"

// callbackServer receives the OAuth redirect carrying the authorization code.
type callbackServer struct {
	mu            sync.Mutex
	port          int
	expectedState string
	codeChan      chan string
	errChan       chan error
	server        *http.Server
	listener      net.Listener
}

func newCallbackServer(port int, expectedState string) *callbackServer {
	return &callbackServer{
		port:          port,
		expectedState: expectedState,
		codeChan:      make(chan string, 1),
		errChan:       make(chan error, 1),
	}
}

// start listens on localhost. Port 0 picks a free port.
func (s *callbackServer) start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get(callbackPath, s.handleCallback)

	s.server = &http.Server{
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.sendErr(err)
		}
	}()
	return nil
}

func (s *callbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	w.Header().Set("Content-Type", "text/html")

	if errParam := q.Get("error"); errParam != "" {
		s.sendErr(fmt.Errorf("oauth error: %s", errParam))
		fmt.Fprint(w, callbackHTML("Authorization failed: "+html.EscapeString(errParam)))
		return
	}
	if q.Get("state") != s.expectedState {
		s.sendErr(fmt.Errorf("state mismatch"))
		fmt.Fprint(w, callbackHTML("Authorization failed: invalid state parameter"))
		return
	}
	code := q.Get("code")
	if code == "" {
		s.sendErr(fmt.Errorf("no authorization code received"))
		fmt.Fprint(w, callbackHTML("Authorization failed: no code received"))
		return
	}

	select {
	case s.codeChan <- code:
	default:
	}
	fmt.Fprint(w, callbackHTML("Thank you! Now close this tab."))
}

func (s *callbackServer) sendErr(err error) {
	select {
	case s.errChan <- err:
	default:
	}
}

// waitForCode blocks until a code or error arrives or ctx is done.
func (s *callbackServer) waitForCode(ctx context.Context) (string, error) {
	select {
	case code := <-s.codeChan:
		return code, nil
	case err := <-s.errChan:
		return "", err
	case <-ctx.Done():
		return "", fmt.Errorf("waiting for authorization callback: %w", ctx.Err())
	}
}

func (s *callbackServer) stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *callbackServer) redirectURI() string {
	return fmt.Sprintf("http://localhost:%d%s", s.port, callbackPath)
}

func callbackHTML(message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>video-maker</title></head>
<body><h1>%s</h1></body>
</html>`, message)
}

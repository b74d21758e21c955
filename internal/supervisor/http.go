// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

package supervisor

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/moonflix/moonflix/internal/logging"
)

// httpShutdownGrace bounds graceful HTTP shutdown once the supervisor asks
// the service to stop.
const httpShutdownGrace = 10 * time.Second

// HTTPService adapts an *http.Server to suture.Service with graceful
// shutdown on context cancellation.
type HTTPService struct {
	server *http.Server
	name   string
}

// NewHTTPService wraps the server. name appears in supervisor logs.
func NewHTTPService(server *http.Server, name string) *HTTPService {
	return &HTTPService{server: server, name: name}
}

// String implements fmt.Stringer for supervisor logs.
func (s *HTTPService) String() string {
	return s.name
}

// Serve implements suture.Service.
func (s *HTTPService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	logging.Info().Str("addr", s.server.Addr).Msg("http server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), httpShutdownGrace)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			logging.Warn().Err(err).Msg("http shutdown incomplete, closing")
			_ = s.server.Close()
		}
		<-errCh
		return ctx.Err()
	}
}

/*
Copyright 2026 Alexandre Mahdhaoui

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package httputil

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/alexandremahdhaoui/vsphere-inventory/internal/util/gracefulshutdown"
)

// ShutdownTimeout bounds the time a server is given to drain in-flight requests.
const ShutdownTimeout = 30 * time.Second

type contextKey string

// ServerNameContextKey holds the name of the server handling a request.
const ServerNameContextKey contextKey = "server-name"

// Serve runs every server as a worker of gs. Each server is shut down when the shared context is cancelled.
//
// A server with a TLSConfig serves HTTPS using the certificates of that config.
func Serve(gs *gracefulshutdown.GracefulShutdown, servers map[string]*http.Server) {
	for name, server := range servers {
		gs.Go(name, func(ctx context.Context) error {
			ctx = context.WithValue(ctx, ServerNameContextKey, name)

			server.BaseContext = func(_ net.Listener) context.Context {
				return ctx
			}

			errCh := make(chan error, 1)

			go func() {
				slog.InfoContext(ctx, "serving", "server", name, "addr", server.Addr)
				if server.TLSConfig != nil {
					errCh <- server.ListenAndServeTLS("", "")
					return
				}

				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}

				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return err
			}

			slog.InfoContext(ctx, "gracefully shut down server", "server", name)

			return nil
		})
	}
}

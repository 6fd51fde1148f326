package servers

import (
	"context"
	"net/http"
	"time"

	"evaluaciones/pkg/resources"
)

// Manage runs server in the background, reporting a failed Run on errChan.
// The returned StopFn stops the server within the given timeout.
func Manage(ctx context.Context, server Server, errChan chan<- error) resources.StopFn {
	go func() {
		err := server.Run(ctx)
		if err != nil {
			errChan <- err
		}
	}()

	return func(ctx context.Context, timeout time.Duration) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		_ = server.Stop(ctx)
	}
}

func BuildHttpServer(ctx context.Context, name string, internal *http.Server, errChan chan<- error) (Server, resources.StopFn, error) {
	server := NewHttpServer(name, internal)
	return server, Manage(ctx, server, errChan), nil
}

func BuildBaseServer(ctx context.Context, name string, errChan chan<- error, closables ...resources.Closable) (Server, resources.StopFn, error) {
	server := NewBaseServer(name, closables...)
	return server, Manage(ctx, server, errChan), nil
}

// Package context is a small service container handling startup and
// shutdown ordering. Services are configured and started in registration
// order and shut down in reverse on SIGINT/SIGTERM.
package context

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

type Context struct {
	order      []string
	serviceMap map[string]Service
}

// NewCtx creates a context containing the given services, preserving order.
func NewCtx(svcs ...Service) (*Context, error) {
	ctx := Context{
		serviceMap: make(map[string]Service, len(svcs)),
	}

	for _, s := range svcs {
		if err := ctx.Register(s); err != nil {
			return nil, err
		}
	}

	return &ctx, nil
}

// Register adds a service. Duplicate ids are rejected.
func (ctx *Context) Register(service Service) error {
	if _, ok := ctx.serviceMap[service.Id()]; ok {
		return fmt.Errorf("service %s already registered", service.Id())
	}

	ctx.order = append(ctx.order, service.Id())
	ctx.serviceMap[service.Id()] = service

	return nil
}

// Service returns the registered service with the given id, or nil.
// The caller casts to the concrete type.
func (ctx *Context) Service(id string) Service {
	return ctx.serviceMap[id]
}

// Run configures every service, then starts them in order. A failure in
// either phase aborts the run. Shutdown is triggered by SIGINT/SIGTERM and
// walks the services in reverse.
func (ctx *Context) Run() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("received signal, shutting down")
		ctx.shutdown()
	}()

	for _, id := range ctx.order {
		svc := ctx.serviceMap[id]
		log.Info().Str("service", id).Msg("configuring service")
		if err := svc.Configure(ctx); err != nil {
			return fmt.Errorf("configure %s: %w", id, err)
		}
	}

	for _, id := range ctx.order {
		svc := ctx.serviceMap[id]
		log.Info().Str("service", id).Msg("starting service")
		if err := svc.Start(); err != nil {
			return fmt.Errorf("start %s: %w", id, err)
		}
	}

	return nil
}

func (ctx *Context) shutdown() {
	for i := len(ctx.order) - 1; i >= 0; i-- {
		id := ctx.order[i]
		log.Info().Str("service", id).Msg("shutting down service")
		ctx.serviceMap[id].Shutdown()
	}
}

// Services returns the ids of all registered services.
func (ctx *Context) Services() []string {
	return append([]string(nil), ctx.order...)
}

package context

// Service is a unit managed by the Context: configured first, then started,
// then shut down in reverse registration order.
type Service interface {
	Id() string
	Configure(ctx *Context) error
	Start() error
	Shutdown()
}

// DefaultService provides no-op lifecycle methods and cross-service lookup.
// Embed it and override what the service actually needs.
type DefaultService struct {
	ctx *Context
}

func (svc *DefaultService) Configure(ctx *Context) error {
	svc.ctx = ctx
	return nil
}

func (svc *DefaultService) Start() error {
	return nil
}

func (svc *DefaultService) Shutdown() {}

// Service looks up a sibling service by id. The result must be cast to the
// concrete type, e.g. svc.Service(GIT_SVC).(*GitService).
func (svc *DefaultService) Service(id string) Service {
	return svc.ctx.Service(id)
}

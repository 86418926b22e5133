package context

import "testing"

type stubService struct {
	DefaultService

	id         string
	configured *[]string
	started    *[]string
}

func (s stubService) Id() string {
	return s.id
}

func (s *stubService) Configure(ctx *Context) error {
	*s.configured = append(*s.configured, s.id)
	return s.DefaultService.Configure(ctx)
}

func (s *stubService) Start() error {
	*s.started = append(*s.started, s.id)
	return nil
}

func TestDuplicateRegistrationRejected(t *testing.T) {
	var order []string
	a := &stubService{id: "a", configured: &order, started: &order}
	dup := &stubService{id: "a", configured: &order, started: &order}

	if _, err := NewCtx(a, dup); err == nil {
		t.Fatal("expected duplicate registration error")
	}
}

func TestRunConfiguresAllThenStartsInOrder(t *testing.T) {
	var configured, started []string
	a := &stubService{id: "a", configured: &configured, started: &started}
	b := &stubService{id: "b", configured: &configured, started: &started}

	ctx, err := NewCtx(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if err := ctx.Run(); err != nil {
		t.Fatal(err)
	}

	wantOrder := []string{"a", "b"}
	for i, id := range wantOrder {
		if configured[i] != id {
			t.Errorf("configured[%d] = %q, want %q", i, configured[i], id)
		}
		if started[i] != id {
			t.Errorf("started[%d] = %q, want %q", i, started[i], id)
		}
	}
}

func TestServiceLookup(t *testing.T) {
	var order []string
	a := &stubService{id: "a", configured: &order, started: &order}

	ctx, err := NewCtx(a)
	if err != nil {
		t.Fatal(err)
	}
	if got := ctx.Service("a"); got != a {
		t.Errorf("Service(a) = %v", got)
	}
	if got := ctx.Service("missing"); got != nil {
		t.Errorf("Service(missing) = %v, want nil", got)
	}
}

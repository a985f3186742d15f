package foal

import (
	"context"
	"errors"
	"testing"
)

func TestRunHooks_AllPass(t *testing.T) {
	var calls int
	pass := func(ctx *Context) (Response, error) {
		calls++
		return nil, nil
	}

	res, err := runHooks(&Context{Context: context.Background()}, []Hook{pass, pass, pass})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != nil {
		t.Errorf("expected no response, got %v", res)
	}
	if calls != 3 {
		t.Errorf("expected 3 hook calls, got %d", calls)
	}
}

func TestRunHooks_ShortCircuitOnResponse(t *testing.T) {
	var afterRan bool
	stop := func(ctx *Context) (Response, error) {
		return Forbidden(nil), nil
	}
	after := func(ctx *Context) (Response, error) {
		afterRan = true
		return nil, nil
	}

	res, err := runHooks(&Context{Context: context.Background()}, []Hook{stop, after})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res == nil || res.StatusCode() != 403 {
		t.Errorf("expected the short-circuit response, got %v", res)
	}
	if afterRan {
		t.Error("expected later hooks to be skipped")
	}
}

func TestRunHooks_ShortCircuitOnError(t *testing.T) {
	boom := errors.New("boom")
	fail := func(ctx *Context) (Response, error) {
		return nil, boom
	}
	var afterRan bool
	after := func(ctx *Context) (Response, error) {
		afterRan = true
		return nil, nil
	}

	_, err := runHooks(&Context{Context: context.Background()}, []Hook{fail, after})
	if !errors.Is(err, boom) {
		t.Errorf("expected the hook error, got %v", err)
	}
	if afterRan {
		t.Error("expected later hooks to be skipped")
	}
}

func TestBindHooks(t *testing.T) {
	type fixture struct{ label string }
	instance := &fixture{label: "bound"}

	var seen string
	binder := func(i any) Hook {
		f := i.(*fixture)
		return func(ctx *Context) (Response, error) {
			seen = f.label
			return nil, nil
		}
	}

	hooks := bindHooks(instance, []HookBinder{binder})
	if len(hooks) != 1 {
		t.Fatalf("expected 1 hook, got %d", len(hooks))
	}
	if _, err := hooks[0](nil); err != nil {
		t.Fatal(err)
	}
	if seen != "bound" {
		t.Error("expected the hook to be bound to the instance")
	}

	if bindHooks(instance, nil) != nil {
		t.Error("expected nil for no binders")
	}
}

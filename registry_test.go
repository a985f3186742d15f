package foal

import (
	"sync"
	"testing"
)

type registryFixture struct {
	name string
}

func TestRegistry_Memoization(t *testing.T) {
	r := NewRegistry()

	first := r.Get(ClassOf[registryFixture]())
	second := r.Get(ClassOf[registryFixture]())

	if first == nil {
		t.Fatal("expected an instance")
	}
	if first != second {
		t.Error("expected the same instance on repeated resolution")
	}
	if _, ok := first.(*registryFixture); !ok {
		t.Errorf("expected *registryFixture, got %T", first)
	}
}

func TestRegistry_Provide(t *testing.T) {
	r := NewRegistry()
	Provide(r, func() *registryFixture {
		return &registryFixture{name: "custom"}
	})

	instance := GetAs[registryFixture](r)
	if instance.name != "custom" {
		t.Errorf("expected the factory-built instance, got %+v", instance)
	}
}

func TestRegistry_ProvideAfterResolutionIsIgnored(t *testing.T) {
	r := NewRegistry()

	first := GetAs[registryFixture](r)
	Provide(r, func() *registryFixture {
		return &registryFixture{name: "late"}
	})

	if GetAs[registryFixture](r) != first {
		t.Error("expected first resolution to win")
	}
}

func TestRegistry_ConcurrentResolution(t *testing.T) {
	r := NewRegistry()

	const n = 16
	instances := make([]any, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			instances[i] = r.Get(ClassOf[registryFixture]())
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if instances[i] != instances[0] {
			t.Fatal("expected a single instance under concurrent resolution")
		}
	}
}

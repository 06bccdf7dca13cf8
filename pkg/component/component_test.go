package component

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookatitude/irene/pkg/ireneerrors"
	"github.com/lookatitude/irene/pkg/observe"
)

type fakeProvider struct {
	name        string
	health      Health
	calls       int
	failUntil   int
	retryable   bool
	failureCode ireneerrors.Code
}

func (f *fakeProvider) Name() string { return f.name }
func (f *fakeProvider) Initialize(ctx context.Context, cfg map[string]interface{}) error { return nil }
func (f *fakeProvider) Healthcheck(ctx context.Context) Health { return f.health }
func (f *fakeProvider) Shutdown(ctx context.Context) error     { return nil }
func (f *fakeProvider) Retryable() bool                        { return f.retryable }

func (f *fakeProvider) Do() error {
	f.calls++
	if f.calls <= f.failUntil {
		return ireneerrors.New("fake.Do", f.failureCode, "synthetic failure", nil)
	}
	return nil
}

func TestRegistry_RegisterAndNew(t *testing.T) {
	reg := NewRegistry()
	reg.Register("tts", "mock", func() Provider { return &fakeProvider{name: "mock", health: Healthy} })

	p, err := reg.New("tts", "mock")
	require.NoError(t, err)
	assert.Equal(t, "mock", p.Name())

	assert.ElementsMatch(t, []string{"mock"}, reg.Kinds("tts"))
	assert.ElementsMatch(t, []string{"tts"}, reg.Components())
}

func TestRegistry_UnknownComponentOrProvider(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.New("tts", "mock")
	assert.Error(t, err)

	reg.Register("tts", "mock", func() Provider { return &fakeProvider{} })
	_, err = reg.New("tts", "other")
	assert.Error(t, err)
}

func TestInstance_Select_PinnedWinsWhenHealthy(t *testing.T) {
	inst := NewInstance("tts")
	inst.Enabled = true
	inst.DefaultProvider = "a"
	inst.Providers["a"] = &fakeProvider{name: "a", health: Healthy}
	inst.Providers["b"] = &fakeProvider{name: "b", health: Healthy}

	p, err := inst.Select(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, "b", p.Name())
}

func TestInstance_Select_FallsBackWhenDefaultUnhealthy(t *testing.T) {
	inst := NewInstance("tts")
	inst.Enabled = true
	inst.DefaultProvider = "a"
	inst.FallbackProviders = []string{"b"}
	inst.Providers["a"] = &fakeProvider{name: "a", health: Unavailable}
	inst.Providers["b"] = &fakeProvider{name: "b", health: Healthy}

	p, err := inst.Select(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "b", p.Name())
}

func TestInstance_Select_DisabledComponentFails(t *testing.T) {
	inst := NewInstance("tts")
	_, err := inst.Select(context.Background(), "")
	assert.Error(t, err)
	code, ok := ireneerrors.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, ireneerrors.CodeProviderUnavailable, code)
}

func TestInstance_Select_AllUnhealthyFails(t *testing.T) {
	inst := NewInstance("tts")
	inst.Enabled = true
	inst.DefaultProvider = "a"
	inst.Providers["a"] = &fakeProvider{name: "a", health: Unavailable}

	_, err := inst.Select(context.Background(), "")
	assert.Error(t, err)
}

func TestInstance_Call_RetriesRetryableProviderThenSucceeds(t *testing.T) {
	inst := NewInstance("asr")
	inst.Enabled = true
	inst.DefaultProvider = "a"
	inst.BaseBackoff = 0
	fp := &fakeProvider{name: "a", health: Healthy, failUntil: 1, retryable: true, failureCode: ireneerrors.CodeTimeout}
	inst.Providers["a"] = fp

	err := inst.Call(context.Background(), "", func(p Provider) error {
		return p.(*fakeProvider).Do()
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, fp.calls)
}

func TestInstance_Call_FailsOverToNextProviderOnNonRetryableError(t *testing.T) {
	inst := NewInstance("asr")
	inst.Enabled = true
	inst.DefaultProvider = "a"
	inst.FallbackProviders = []string{"b"}
	inst.BaseBackoff = 0
	failing := &fakeProvider{name: "a", health: Healthy, failUntil: 999, failureCode: ireneerrors.CodeHandler}
	working := &fakeProvider{name: "b", health: Healthy}
	inst.Providers["a"] = failing
	inst.Providers["b"] = working

	err := inst.Call(context.Background(), "", func(p Provider) error {
		return p.(*fakeProvider).Do()
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, working.calls)
}

func TestInstance_Call_AllProvidersExhaustedReturnsProviderUnavailable(t *testing.T) {
	inst := NewInstance("asr")
	inst.Enabled = true
	inst.DefaultProvider = "a"
	inst.BaseBackoff = 0
	inst.Providers["a"] = &fakeProvider{name: "a", health: Healthy, failUntil: 999, failureCode: ireneerrors.CodeHandler}

	err := inst.Call(context.Background(), "", func(p Provider) error {
		return p.(*fakeProvider).Do()
	})
	require.Error(t, err)
	code, ok := ireneerrors.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, ireneerrors.CodeProviderUnavailable, code)
}

func TestInstance_Call_PublishesFailoverAndExhaustedEvents(t *testing.T) {
	bus := observe.NewBus(8)
	var mu sync.Mutex
	var types []string
	unsubscribe := bus.Subscribe(context.Background(), observe.ObserverFunc(func(e observe.Event) {
		mu.Lock()
		defer mu.Unlock()
		types = append(types, e.Type)
	}))
	defer unsubscribe()

	inst := NewInstance("asr")
	inst.Enabled = true
	inst.DefaultProvider = "a"
	inst.BaseBackoff = 0
	inst.Observe = bus
	inst.Providers["a"] = &fakeProvider{name: "a", health: Healthy, failUntil: 999, failureCode: ireneerrors.CodeHandler}

	err := inst.Call(context.Background(), "", func(p Provider) error {
		return p.(*fakeProvider).Do()
	})
	require.Error(t, err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(types) == 2
	}, time.Second, time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"component.failover", "component.exhausted"}, types)
}

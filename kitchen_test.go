package kitchen_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/kitchen"
	"github.com/aretw0/kitchen/pkg/adapters/memory"
	"github.com/aretw0/kitchen/pkg/catalog"
	"github.com/aretw0/kitchen/pkg/domain"
	"github.com/aretw0/kitchen/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const apology = "Oh gosh, something went wrong!"

var errBoom = errors.New("boom")

// flakyShadow wraps the memory shadow and fails on demand.
type flakyShadow struct {
	*memory.Shadow
	failGet, failSet bool
	sets             atomic.Int32
}

func (f *flakyShadow) GetReported(ctx context.Context, id string) (*domain.ReportedState, error) {
	if f.failGet {
		return nil, errBoom
	}
	return f.Shadow.GetReported(ctx, id)
}

func (f *flakyShadow) SetDesired(ctx context.Context, id string, d *domain.DesiredState) error {
	f.sets.Add(1)
	if f.failSet {
		return errBoom
	}
	return f.Shadow.SetDesired(ctx, id, d)
}

// flakyStore wraps the memory store and fails on demand.
type flakyStore struct {
	*memory.Store
	failLoad, failSave bool
}

func (f *flakyStore) Load(ctx context.Context, userID string) (*domain.Session, error) {
	if f.failLoad {
		return nil, errBoom
	}
	return f.Store.Load(ctx, userID)
}

func (f *flakyStore) Save(ctx context.Context, userID string, s *domain.Session) error {
	if f.failSave {
		return errBoom
	}
	return f.Store.Save(ctx, userID, s)
}

// flakyRegistry wraps the memory registry and fails lookups on demand.
type flakyRegistry struct {
	*memory.Registry
	failResolve bool
}

func (f *flakyRegistry) Resolve(ctx context.Context, userID string) (string, error) {
	if f.failResolve {
		return "", errBoom
	}
	return f.Registry.Resolve(ctx, userID)
}

type failingLocker struct{}

func (failingLocker) Lock(context.Context, string, time.Duration) (ports.UnlockFunc, error) {
	return nil, errBoom
}

type failingSimulator struct{}

func (failingSimulator) Provision(context.Context, string, *domain.ReportedState) error {
	return errBoom
}

type fixture struct {
	engine   *kitchen.Engine
	store    *memory.Store
	registry *memory.Registry
	shadow   *flakyShadow

	sessions *flakyStore
	devices  *flakyRegistry
}

var fixedNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func newFixture(t *testing.T, opts ...kitchen.Option) *fixture {
	t.Helper()
	recipes, err := catalog.Default()
	require.NoError(t, err)

	f := &fixture{
		store:    memory.NewStore(),
		registry: memory.NewRegistry(map[string]string{"alice": "thermo-a"}),
		shadow:   &flakyShadow{Shadow: memory.NewShadow()},
	}
	f.sessions = &flakyStore{Store: f.store}
	f.devices = &flakyRegistry{Registry: f.registry}
	require.NoError(t, f.shadow.Provision(context.Background(), "thermo-a", &domain.ReportedState{Temperature: domain.Float(20)}))

	base := []kitchen.Option{
		kitchen.WithClock(func() time.Time { return fixedNow }),
		kitchen.WithPicker(func(int) int { return 0 }),
	}
	f.engine, err = kitchen.New(recipes, f.sessions, f.devices, f.shadow, append(base, opts...)...)
	require.NoError(t, err)
	return f
}

func (f *fixture) turn(t *testing.T, user string, intent domain.Intent, food string) *kitchen.TurnResult {
	t.Helper()
	req := kitchen.TurnRequest{UserID: user, Intent: intent}
	if food != "" {
		req.Slots = map[string]string{domain.SlotFood: food}
	}
	res, err := f.engine.HandleTurn(context.Background(), req)
	require.NoError(t, err)
	return res
}

func TestNew_RequiresCollaborators(t *testing.T) {
	recipes, err := catalog.Default()
	require.NoError(t, err)

	_, err = kitchen.New(nil, memory.NewStore(), memory.NewRegistry(nil), memory.NewShadow())
	assert.Error(t, err)
	_, err = kitchen.New(recipes, nil, memory.NewRegistry(nil), memory.NewShadow())
	assert.Error(t, err)
	_, err = kitchen.New(recipes, memory.NewStore(), nil, memory.NewShadow())
	assert.Error(t, err)
	_, err = kitchen.New(recipes, memory.NewStore(), memory.NewRegistry(nil), nil)
	assert.Error(t, err)
}

func TestHandleTurn_RejectsMalformedRequests(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.HandleTurn(context.Background(), kitchen.TurnRequest{Intent: domain.IntentLaunch})
	assert.ErrorIs(t, err, kitchen.ErrInvalidRequest)

	_, err = f.engine.HandleTurn(context.Background(), kitchen.TurnRequest{UserID: "alice"})
	assert.ErrorIs(t, err, kitchen.ErrInvalidRequest)
}

func TestHandleTurn_CookWritesDeviceAndSavesSession(t *testing.T) {
	f := newFixture(t)

	res := f.turn(t, "alice", domain.IntentCookSomething, "yogurt")
	require.False(t, res.Failed)
	assert.Equal(t, domain.StateRecipe, res.Session.State)
	assert.Equal(t, "thermo-a", res.Session.DeviceID)
	require.NotNil(t, res.Desired)

	stored, err := f.store.Load(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "thermo-a", stored.DeviceID, "resolved device id is cached on the session")
	assert.Equal(t, 1, stored.Active.Step)
	assert.Equal(t, fixedNow, stored.Active.StartedAt)

	assert.Equal(t, res.Desired, f.shadow.LastDesired("thermo-a"))
}

func TestHandleTurn_FullRecipe(t *testing.T) {
	f := newFixture(t)

	f.turn(t, "alice", domain.IntentCookSomething, "ricotta")
	for step := 2; step <= 3; step++ {
		res := f.turn(t, "alice", domain.IntentNextStep, "")
		assert.Equal(t, step, res.Session.Active.Step)
	}

	res := f.turn(t, "alice", domain.IntentNextStep, "")
	assert.Nil(t, res.Session.Active)
	assert.Equal(t, domain.StateStart, res.Session.State)
	assert.Contains(t, res.Response.Spoken, "Your ricotta is ready!")
	assert.Equal(t, domain.IdleDesired(), f.shadow.LastDesired("thermo-a"))

	res = f.turn(t, "alice", domain.IntentNextStep, "")
	assert.Equal(t, "You're not in a recipe right now. What would you like to cook?", res.Response.Spoken)
}

func TestHandleTurn_OnboardingWithoutDevice(t *testing.T) {
	f := newFixture(t, kitchen.WithProjectURL("https://example.com/build"))

	res := f.turn(t, "bob", domain.IntentCookSomething, "yogurt")
	assert.False(t, res.Failed)
	require.NotNil(t, res.Response.Card)
	assert.Contains(t, res.Response.Card.Text, "https://example.com/build")
	assert.Nil(t, res.Desired)
	assert.Zero(t, f.shadow.sets.Load())

	_, err := f.store.Load(context.Background(), "bob")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestHandleTurn_SessionEndedSkipsDeviceAndSave(t *testing.T) {
	f := newFixture(t)

	res := f.turn(t, "bob", domain.IntentSessionEnded, "")
	assert.Equal(t, "Goodbye!", res.Response.Spoken)
	assert.Nil(t, res.Response.Card)

	_, err := f.store.Load(context.Background(), "bob")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestHandleTurn_FailedWriteDiscardsSession(t *testing.T) {
	f := newFixture(t)

	f.turn(t, "alice", domain.IntentCookSomething, "yogurt")
	f.shadow.failSet = true

	res := f.turn(t, "alice", domain.IntentNextStep, "")
	assert.True(t, res.Failed)
	assert.Equal(t, apology, res.Response.Spoken)

	stored, err := f.store.Load(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Active.Step, "the stored session must stay at the previous step")
	assert.Equal(t, 1, res.Session.Active.Step)
}

func TestHandleTurn_FailedReadApologizes(t *testing.T) {
	f := newFixture(t)
	f.shadow.failGet = true

	res := f.turn(t, "alice", domain.IntentGetStatus, "")
	assert.True(t, res.Failed)
	assert.Equal(t, apology, res.Response.Spoken)
}

func TestHandleTurn_StoreLoadFailureApologizes(t *testing.T) {
	f := newFixture(t)
	f.turn(t, "alice", domain.IntentCookSomething, "yogurt")
	f.sessions.failLoad = true
	sets := f.shadow.sets.Load()

	res := f.turn(t, "alice", domain.IntentNextStep, "")
	assert.True(t, res.Failed)
	assert.Equal(t, apology, res.Response.Spoken)
	assert.Nil(t, res.Desired)
	assert.Equal(t, sets, f.shadow.sets.Load(), "no device write without a session")

	stored, err := f.store.Load(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Active.Step)
}

func TestHandleTurn_StoreSaveFailureApologizes(t *testing.T) {
	f := newFixture(t)
	f.turn(t, "alice", domain.IntentCookSomething, "yogurt")
	f.sessions.failSave = true

	res := f.turn(t, "alice", domain.IntentNextStep, "")
	assert.True(t, res.Failed)
	assert.Equal(t, apology, res.Response.Spoken)
	assert.Equal(t, 1, res.Session.Active.Step, "the previous session is returned")

	stored, err := f.store.Load(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Active.Step)
}

func TestHandleTurn_SaveFailureOnFirstContact(t *testing.T) {
	f := newFixture(t)
	f.sessions.failSave = true

	res := f.turn(t, "alice", domain.IntentCookSomething, "yogurt")
	assert.True(t, res.Failed)
	assert.Equal(t, apology, res.Response.Spoken)

	_, err := f.store.Load(context.Background(), "alice")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestHandleTurn_RegistryFailureApologizes(t *testing.T) {
	f := newFixture(t)
	f.devices.failResolve = true

	res := f.turn(t, "alice", domain.IntentCookSomething, "yogurt")
	assert.True(t, res.Failed)
	assert.Equal(t, apology, res.Response.Spoken)
	assert.Nil(t, res.Response.Card, "a failed lookup is not onboarding")
	assert.Zero(t, f.shadow.sets.Load())

	_, err := f.store.Load(context.Background(), "alice")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestHandleTurn_LockFailureApologizes(t *testing.T) {
	var failures atomic.Int32
	f := newFixture(t,
		kitchen.WithLocker(failingLocker{}),
		kitchen.WithLifecycleHooks(domain.LifecycleHooks{
			OnTransportFailure: func(_ context.Context, e *domain.FailureEvent) {
				if e.Operation == "lock" {
					failures.Add(1)
				}
			},
		}),
	)

	res, err := f.engine.HandleTurn(context.Background(), kitchen.TurnRequest{
		UserID: "alice",
		Intent: domain.IntentCookSomething,
		Slots:  map[string]string{domain.SlotFood: "yogurt"},
	})
	require.NoError(t, err)
	assert.True(t, res.Failed)
	assert.Equal(t, apology, res.Response.Spoken)
	assert.Equal(t, int32(1), failures.Load())
	assert.Zero(t, f.shadow.sets.Load())

	_, err = f.store.Load(context.Background(), "alice")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestHandleTurn_StatusDeviceOff(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.shadow.SetTemperature(context.Background(), "thermo-a", 0))

	res := f.turn(t, "alice", domain.IntentGetStatus, "")
	assert.False(t, res.Failed)
	assert.Equal(t, "Your device may be off", res.Response.Spoken)
}

func TestHandleTurn_Simulation(t *testing.T) {
	shadow := memory.NewShadow()
	f := newFixture(t,
		kitchen.WithSimulator(shadow),
		kitchen.WithDeviceIDGenerator(func() string { return "SIM_abcdefghi" }),
	)

	res := f.turn(t, "carol", domain.IntentEnableSimulate, "")
	require.False(t, res.Failed)
	assert.Equal(t, "Simulation Enabled", res.Response.Display)
	assert.Equal(t, "SIM_abcdefghi", res.Session.DeviceID)

	id, err := f.registry.Resolve(context.Background(), "carol")
	require.NoError(t, err)
	assert.Equal(t, "SIM_abcdefghi", id)

	reported, err := shadow.GetReported(context.Background(), "SIM_abcdefghi")
	require.NoError(t, err)
	assert.Equal(t, kitchen.SimulatedStartTemperature, *reported.Temperature)

	res = f.turn(t, "carol", domain.IntentEnableSimulate, "")
	assert.Equal(t, "You already have a simulated thermometer.", res.Response.Spoken)

	res = f.turn(t, "alice", domain.IntentEnableSimulate, "")
	assert.Equal(t, "You don't need a simulation.", res.Response.Spoken)
}

func TestHandleTurn_SimulationFailure(t *testing.T) {
	f := newFixture(t, kitchen.WithSimulator(failingSimulator{}))

	res := f.turn(t, "carol", domain.IntentEnableSimulate, "")
	assert.True(t, res.Failed)
	assert.Equal(t, "Sorry, simulations are not available right now", res.Response.Spoken)

	_, err := f.registry.Resolve(context.Background(), "carol")
	assert.ErrorIs(t, err, domain.ErrDeviceNotFound)
}

func TestSimulatedDeviceID(t *testing.T) {
	id := kitchen.SimulatedDeviceID()
	assert.Len(t, id, len("SIM_")+9)
	assert.Equal(t, "SIM_", id[:4])
	assert.NotEqual(t, id, kitchen.SimulatedDeviceID())
}

func TestHandleTurn_Hooks(t *testing.T) {
	var (
		mu          sync.Mutex
		turns       []*domain.TurnEvent
		transitions []*domain.TransitionEvent
		writes      []*domain.DeviceEvent
		failures    []*domain.FailureEvent
	)
	hooks := domain.LifecycleHooks{
		OnTurn: func(_ context.Context, e *domain.TurnEvent) {
			mu.Lock()
			defer mu.Unlock()
			turns = append(turns, e)
		},
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			mu.Lock()
			defer mu.Unlock()
			transitions = append(transitions, e)
		},
		OnDeviceWrite: func(_ context.Context, e *domain.DeviceEvent) {
			mu.Lock()
			defer mu.Unlock()
			writes = append(writes, e)
		},
		OnTransportFailure: func(_ context.Context, e *domain.FailureEvent) {
			mu.Lock()
			defer mu.Unlock()
			failures = append(failures, e)
		},
	}
	f := newFixture(t, kitchen.WithLifecycleHooks(hooks))

	f.turn(t, "alice", domain.IntentCookSomething, "yogurt")
	f.shadow.failSet = true
	f.turn(t, "alice", domain.IntentCancelRecipe, "")

	require.Len(t, turns, 2)
	assert.False(t, turns[0].Failed)
	assert.True(t, turns[1].Failed)

	require.Len(t, transitions, 1)
	assert.Equal(t, domain.StateStart, transitions[0].From)
	assert.Equal(t, domain.StateRecipe, transitions[0].To)
	assert.Equal(t, "yogurt", transitions[0].RecipeID)
	assert.Equal(t, 1, transitions[0].Step)

	require.Len(t, writes, 2)
	assert.False(t, writes[0].IsError)
	assert.True(t, writes[1].IsError)

	require.Len(t, failures, 1)
	assert.Equal(t, "set_desired", failures[0].Operation)
	assert.ErrorIs(t, failures[0].Err, errBoom)
}

func TestHandleTurn_ConcurrentUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, u := range []string{"u1", "u2", "u3", "u4"} {
		require.NoError(t, f.shadow.Provision(ctx, "thermo-"+u, &domain.ReportedState{Temperature: domain.Float(20)}))
		require.NoError(t, f.registry.Register(ctx, u, "thermo-"+u))
	}

	var wg sync.WaitGroup
	for _, u := range []string{"u1", "u2", "u3", "u4"} {
		wg.Add(1)
		go func(user string) {
			defer wg.Done()
			_, err := f.engine.HandleTurn(ctx, kitchen.TurnRequest{
				UserID: user,
				Intent: domain.IntentCookSomething,
				Slots:  map[string]string{domain.SlotFood: "ricotta"},
			})
			assert.NoError(t, err)
		}(u)
	}
	wg.Wait()

	users, err := f.store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u1", "u2", "u3", "u4"}, users)
}

package commission

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/memory"
	commissiondto "github.com/LavaJover/shvark-settlement-service/internal/usecase/dto/commission"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}

type tickingClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type fixture struct {
	uc        *DefaultCommissionUsecase
	store     *memory.Store
	publisher *memory.RecordingPublisher
	clock     *tickingClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	publisher := memory.NewRecordingPublisher()
	clock := &tickingClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	uc := NewDefaultCommissionUsecase(store, NewResolver(store.Commissions()), memory.NewKeyedLocker(), publisher, nil, time.Second, clock.Now)
	return &fixture{uc: uc, store: store, publisher: publisher, clock: clock}
}

func (f *fixture) seedGlobal(t *testing.T, rate int64) {
	t.Helper()
	seeded, err := f.uc.SeedGlobal(context.Background(), domain.FeePercentage, decimal.NewFromInt(rate))
	require.NoError(t, err)
	require.True(t, seeded)
}

func (f *fixture) setShop(t *testing.T, shopID string, rate int64) {
	t.Helper()
	_, err := f.uc.UpdateShopCommission(context.Background(), &commissiondto.UpdateShopCommissionInput{
		ShopID: shopID,
		Rate:   decimal.NewFromInt(rate),
		Reason: "negotiated",
		Actor:  admin,
	})
	require.NoError(t, err)
}

func TestResolveFallsBackToGlobal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.ResolveCommission(ctx, "shop-a", time.Time{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	f.seedGlobal(t, 5)
	f.setShop(t, "shop-a", 4)

	cfg, err := f.uc.ResolveCommission(ctx, "shop-a", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, domain.ScopeShop, cfg.Scope)
	assert.True(t, cfg.PercentageRate.Equal(decimal.NewFromInt(4)))

	cfg, err = f.uc.ResolveCommission(ctx, "shop-b", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, domain.ScopeGlobal, cfg.Scope)
	assert.True(t, cfg.PercentageRate.Equal(decimal.NewFromInt(5)))
}

func TestResolveHonoursEffectiveWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedGlobal(t, 5)
	f.setShop(t, "shop-a", 4)
	between := f.clock.Now()
	f.setShop(t, "shop-a", 3)

	cfg, err := f.uc.ResolveCommission(ctx, "shop-a", between)
	require.NoError(t, err)
	assert.True(t, cfg.PercentageRate.Equal(decimal.NewFromInt(4)))

	cfg, err = f.uc.ResolveCommission(ctx, "shop-a", time.Time{})
	require.NoError(t, err)
	assert.True(t, cfg.PercentageRate.Equal(decimal.NewFromInt(3)))
}

func TestUpdateShopCommissionValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input commissiondto.UpdateShopCommissionInput
		want  error
	}{
		{
			name:  "rate above 100",
			input: commissiondto.UpdateShopCommissionInput{ShopID: "s", Rate: decimal.NewFromInt(101), Reason: "r", Actor: admin},
			want:  domain.ErrOutOfRange,
		},
		{
			name:  "negative rate",
			input: commissiondto.UpdateShopCommissionInput{ShopID: "s", Rate: decimal.NewFromInt(-1), Reason: "r", Actor: admin},
			want:  domain.ErrOutOfRange,
		},
		{
			name:  "blank reason",
			input: commissiondto.UpdateShopCommissionInput{ShopID: "s", Rate: decimal.NewFromInt(3), Reason: "  ", Actor: admin},
			want:  domain.ErrMissingReason,
		},
		{
			name:  "seller may not change rates",
			input: commissiondto.UpdateShopCommissionInput{ShopID: "s", Rate: decimal.NewFromInt(3), Reason: "r", Actor: domain.Actor{ID: "u", Role: domain.RoleSeller}},
			want:  domain.ErrForbidden,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.UpdateShopCommission(ctx, &tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := f.uc.UpdateShopCommission(ctx, &commissiondto.UpdateShopCommissionInput{ShopID: "s", Rate: decimal.NewFromInt(101), Reason: "r", Actor: admin})
	assert.ErrorIs(t, err, domain.ErrValidation)

	history, err := f.uc.GetCommissionHistory(ctx, &commissiondto.GetHistoryInput{})
	require.NoError(t, err)
	assert.Empty(t, history.Entries)
}

func TestUpdateShopCommissionWritesHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedGlobal(t, 5)
	f.setShop(t, "shop-a", 4)
	f.setShop(t, "shop-a", 6)

	out, err := f.uc.GetCommissionHistory(ctx, &commissiondto.GetHistoryInput{ShopID: "shop-a"})
	require.NoError(t, err)
	require.Len(t, out.Entries, 2)
	assert.EqualValues(t, 2, out.Pagination.TotalItems)

	latest, first := out.Entries[0], out.Entries[1]
	assert.True(t, latest.PreviousRate.Equal(decimal.NewFromInt(4)))
	assert.True(t, latest.NewRate.Equal(decimal.NewFromInt(6)))
	assert.True(t, first.PreviousRate.Equal(decimal.NewFromInt(5)), "first custom rate replaces the global one")
	assert.True(t, latest.CreatedAt.After(first.CreatedAt))

	assert.Len(t, f.publisher.ByTopic(domain.TopicCommissionEvents), 2)
}

func TestGlobalOverrideClosesCustomConfigs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedGlobal(t, 5)
	f.setShop(t, "shop-a", 4)
	f.setShop(t, "shop-b", 7)

	out, err := f.uc.UpdateGlobalCommission(ctx, &commissiondto.UpdateGlobalCommissionInput{
		Rate:                decimal.NewFromInt(6),
		Reason:              "new pricing",
		Actor:               admin,
		OverrideShopConfigs: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.ClosedConfigs)

	for _, shop := range []string{"shop-a", "shop-b", "shop-c"} {
		cfg, err := f.uc.ResolveCommission(ctx, shop, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, domain.ScopeGlobal, cfg.Scope, shop)
		assert.True(t, cfg.PercentageRate.Equal(decimal.NewFromInt(6)), shop)
	}

	all, err := f.uc.GetCommissionHistory(ctx, &commissiondto.GetHistoryInput{Limit: 3})
	require.NoError(t, err)
	require.Len(t, all.Entries, 3)
	var shopEntries, globalEntries int
	for _, e := range all.Entries {
		switch e.Scope {
		case domain.ScopeShop:
			shopEntries++
			assert.True(t, e.NewRate.Equal(decimal.NewFromInt(6)))
		case domain.ScopeGlobal:
			globalEntries++
			assert.Equal(t, 2, e.ClosedConfigs)
			assert.Contains(t, e.Note, "closed 2 custom configs")
		}
	}
	assert.Equal(t, 2, shopEntries)
	assert.Equal(t, 1, globalEntries)
}

func TestGlobalUpdateWithoutOverrideKeepsCustomConfigs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedGlobal(t, 5)
	f.setShop(t, "shop-a", 4)

	out, err := f.uc.UpdateGlobalCommission(ctx, &commissiondto.UpdateGlobalCommissionInput{
		Rate: decimal.NewFromInt(8), Reason: "r", Actor: admin,
	})
	require.NoError(t, err)
	assert.Zero(t, out.ClosedConfigs)

	cfg, err := f.uc.ResolveCommission(ctx, "shop-a", time.Time{})
	require.NoError(t, err)
	assert.True(t, cfg.PercentageRate.Equal(decimal.NewFromInt(4)))
}

func TestSeedGlobalIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.seedGlobal(t, 5)

	seeded, err := f.uc.SeedGlobal(context.Background(), domain.FeePercentage, decimal.NewFromInt(9))
	require.NoError(t, err)
	assert.False(t, seeded)
}

func TestConcurrentShopUpdatesAreSerialized(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedGlobal(t, 5)

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.uc.UpdateShopCommission(ctx, &commissiondto.UpdateShopCommissionInput{
				ShopID: "shop-a",
				Rate:   decimal.NewFromInt(int64(i % 10)),
				Reason: "load",
				Actor:  admin,
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	open, err := f.store.Commissions().GetOpenShopConfigForUpdate(ctx, "shop-a")
	require.NoError(t, err)

	out, err := f.uc.GetCommissionHistory(ctx, &commissiondto.GetHistoryInput{ShopID: "shop-a", Limit: 100})
	require.NoError(t, err)
	require.Len(t, out.Entries, workers)
	assert.True(t, out.Entries[0].NewRate.Equal(open.PercentageRate))
	// каждая запись продолжает предыдущую
	for i := 0; i < len(out.Entries)-1; i++ {
		assert.True(t, out.Entries[i].PreviousRate.Equal(out.Entries[i+1].NewRate))
	}
}

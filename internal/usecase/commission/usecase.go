package commission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/metrics"
	commissiondto "github.com/LavaJover/shvark-settlement-service/internal/usecase/dto/commission"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
	globalLockKey       = "commission:global"
)

func shopLockKey(shopID string) string {
	return "commission:shop:" + shopID
}

type CommissionUsecase interface {
	ResolveCommission(ctx context.Context, shopID string, at time.Time) (*domain.CommissionConfig, error)
	UpdateShopCommission(ctx context.Context, input *commissiondto.UpdateShopCommissionInput) (*domain.CommissionConfig, error)
	UpdateGlobalCommission(ctx context.Context, input *commissiondto.UpdateGlobalCommissionInput) (*commissiondto.UpdateGlobalCommissionOutput, error)
	GetCommissionHistory(ctx context.Context, input *commissiondto.GetHistoryInput) (*commissiondto.GetHistoryOutput, error)
	SeedGlobal(ctx context.Context, feeType domain.FeeType, rate decimal.Decimal) (bool, error)
}

// DefaultCommissionUsecase is the commission administration ledger. Every
// change closes the current config, opens a new one and appends history in a
// single transaction.
type DefaultCommissionUsecase struct {
	store       domain.Store
	resolver    *Resolver
	locker      domain.Locker
	publisher   domain.PublisherPort
	metrics     *metrics.SettlementMetrics
	lockTimeout time.Duration
	now         func() time.Time
}

func NewDefaultCommissionUsecase(
	store domain.Store,
	resolver *Resolver,
	locker domain.Locker,
	publisher domain.PublisherPort,
	settlementMetrics *metrics.SettlementMetrics,
	lockTimeout time.Duration,
	now func() time.Time,
) *DefaultCommissionUsecase {
	if now == nil {
		now = time.Now
	}
	if lockTimeout <= 0 {
		lockTimeout = 5 * time.Second
	}
	return &DefaultCommissionUsecase{
		store:       store,
		resolver:    resolver,
		locker:      locker,
		publisher:   publisher,
		metrics:     settlementMetrics,
		lockTimeout: lockTimeout,
		now:         now,
	}
}

func (uc *DefaultCommissionUsecase) ResolveCommission(ctx context.Context, shopID string, at time.Time) (*domain.CommissionConfig, error) {
	if strings.TrimSpace(shopID) == "" {
		return nil, domain.Validationf("shop id is required")
	}
	if at.IsZero() {
		at = uc.now()
	}
	return uc.resolver.Resolve(ctx, shopID, at)
}

func validateChange(feeType domain.FeeType, rate decimal.Decimal, reason string, actor domain.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if actor.Role != domain.RoleAdmin && actor.Role != domain.RoleSystem {
		return fmt.Errorf("change commission as %s: %w", actor.Role, domain.ErrForbidden)
	}
	if err := domain.ValidateRate(feeType, rate); err != nil {
		return err
	}
	if strings.TrimSpace(reason) == "" {
		return domain.ErrMissingReason
	}
	return nil
}

func newConfig(scope domain.CommissionScope, shopID string, feeType domain.FeeType, rate decimal.Decimal, createdBy string, at time.Time) *domain.CommissionConfig {
	cfg := &domain.CommissionConfig{
		ID:             uuid.NewString(),
		Scope:          scope,
		ShopID:         shopID,
		FeeType:        feeType,
		PercentageRate: decimal.Zero,
		FixedAmount:    decimal.Zero,
		EffectiveFrom:  at,
		IsCustom:       scope == domain.ScopeShop,
		CreatedBy:      createdBy,
		CreatedAt:      at,
	}
	if feeType == domain.FeeFixed {
		cfg.FixedAmount = rate
	} else {
		cfg.PercentageRate = rate
	}
	return cfg
}

func (uc *DefaultCommissionUsecase) lock(ctx context.Context, key string) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, uc.lockTimeout)
	defer cancel()
	return uc.locker.Lock(lockCtx, key)
}

// UpdateShopCommission sets a custom rate for one shop. Updates of the same
// shop are serialized by a distributed lock and by the row lock on the open
// config.
func (uc *DefaultCommissionUsecase) UpdateShopCommission(ctx context.Context, input *commissiondto.UpdateShopCommissionInput) (*domain.CommissionConfig, error) {
	shopID := strings.TrimSpace(input.ShopID)
	if shopID == "" {
		return nil, domain.Validationf("shop id is required")
	}
	feeType := input.FeeType
	if feeType == "" {
		feeType = domain.FeePercentage
	}
	if err := validateChange(feeType, input.Rate, input.Reason, input.Actor); err != nil {
		return nil, err
	}

	unlock, err := uc.lock(ctx, shopLockKey(shopID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	done := uc.metrics.Track("update_shop_commission")
	var (
		created  *domain.CommissionConfig
		previous decimal.Decimal
	)
	err = uc.store.WithinTransaction(ctx, func(repos domain.Repositories) error {
		now := uc.now()
		commissions := repos.Commissions()

		current, err := commissions.GetOpenShopConfigForUpdate(ctx, shopID)
		switch {
		case err == nil:
			previous = current.Rate()
			if err := commissions.CloseConfig(ctx, current.ID, now); err != nil {
				return err
			}
		case errors.Is(err, domain.ErrNotFound):
			// кастомной ставки еще не было, предыдущая - глобальная
			previous = decimal.Zero
			if global, gErr := commissions.GetActiveGlobalConfig(ctx, now); gErr == nil {
				previous = global.Rate()
			} else if !errors.Is(gErr, domain.ErrNotFound) {
				return gErr
			}
		default:
			return err
		}

		created = newConfig(domain.ScopeShop, shopID, feeType, input.Rate, input.Actor.ID, now)
		if err := commissions.CreateConfig(ctx, created); err != nil {
			return err
		}
		return commissions.AppendHistory(ctx, &domain.CommissionHistoryEntry{
			ID:           uuid.NewString(),
			Scope:        domain.ScopeShop,
			ShopID:       &shopID,
			FeeType:      feeType,
			PreviousRate: previous,
			NewRate:      input.Rate,
			Reason:       input.Reason,
			Note:         input.Note,
			ChangedBy:    input.Actor.ID,
			CreatedAt:    now,
		})
	})
	done(err)
	if err != nil {
		return nil, err
	}

	slog.Info("shop commission updated", "shop_id", shopID, "fee_type", feeType, "previous", previous.String(), "new", input.Rate.String(), "by", input.Actor.ID)
	uc.metrics.ObserveCommissionChange(string(domain.ScopeShop))
	uc.publish(ctx, domain.CommissionChangedEvent{
		Scope:        domain.ScopeShop,
		ShopID:       shopID,
		FeeType:      feeType,
		PreviousRate: previous,
		NewRate:      input.Rate,
		ChangedBy:    input.Actor.ID,
		At:           created.CreatedAt,
	})
	return created, nil
}

// UpdateGlobalCommission replaces the global default. With
// OverrideShopConfigs every custom shop config is closed in the same
// transaction so all shops fall back to the new rate.
func (uc *DefaultCommissionUsecase) UpdateGlobalCommission(ctx context.Context, input *commissiondto.UpdateGlobalCommissionInput) (*commissiondto.UpdateGlobalCommissionOutput, error) {
	feeType := input.FeeType
	if feeType == "" {
		feeType = domain.FeePercentage
	}
	if err := validateChange(feeType, input.Rate, input.Reason, input.Actor); err != nil {
		return nil, err
	}

	unlock, err := uc.lock(ctx, globalLockKey)
	if err != nil {
		return nil, err
	}
	defer unlock()

	done := uc.metrics.Track("update_global_commission")
	var (
		created  *domain.CommissionConfig
		previous decimal.Decimal
		closed   []*domain.CommissionConfig
	)
	err = uc.store.WithinTransaction(ctx, func(repos domain.Repositories) error {
		now := uc.now()
		commissions := repos.Commissions()

		previous = decimal.Zero
		current, err := commissions.GetOpenGlobalConfigForUpdate(ctx)
		switch {
		case err == nil:
			previous = current.Rate()
			if err := commissions.CloseConfig(ctx, current.ID, now); err != nil {
				return err
			}
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}

		created = newConfig(domain.ScopeGlobal, "", feeType, input.Rate, input.Actor.ID, now)
		if err := commissions.CreateConfig(ctx, created); err != nil {
			return err
		}

		if input.OverrideShopConfigs {
			custom, err := commissions.ListOpenShopConfigsForUpdate(ctx)
			if err != nil {
				return err
			}
			for _, cfg := range custom {
				if err := commissions.CloseConfig(ctx, cfg.ID, now); err != nil {
					return err
				}
				shopID := cfg.ShopID
				if err := commissions.AppendHistory(ctx, &domain.CommissionHistoryEntry{
					ID:           uuid.NewString(),
					Scope:        domain.ScopeShop,
					ShopID:       &shopID,
					FeeType:      feeType,
					PreviousRate: cfg.Rate(),
					NewRate:      input.Rate,
					Reason:       input.Reason,
					Note:         "custom commission overridden by global update",
					ChangedBy:    input.Actor.ID,
					CreatedAt:    now,
				}); err != nil {
					return err
				}
			}
			closed = custom
		}

		note := input.Note
		if input.OverrideShopConfigs {
			note = strings.TrimSpace(fmt.Sprintf("%s (closed %d custom configs)", input.Note, len(closed)))
		}
		return commissions.AppendHistory(ctx, &domain.CommissionHistoryEntry{
			ID:            uuid.NewString(),
			Scope:         domain.ScopeGlobal,
			FeeType:       feeType,
			PreviousRate:  previous,
			NewRate:       input.Rate,
			Reason:        input.Reason,
			Note:          note,
			ChangedBy:     input.Actor.ID,
			ClosedConfigs: len(closed),
			CreatedAt:     now,
		})
	})
	done(err)
	if err != nil {
		return nil, err
	}

	slog.Info("global commission updated", "previous", previous.String(), "new", input.Rate.String(), "closed_configs", len(closed), "by", input.Actor.ID)
	uc.metrics.ObserveCommissionChange(string(domain.ScopeGlobal))
	events := []domain.Event{domain.CommissionChangedEvent{
		Scope:         domain.ScopeGlobal,
		FeeType:       feeType,
		PreviousRate:  previous,
		NewRate:       input.Rate,
		ClosedConfigs: len(closed),
		ChangedBy:     input.Actor.ID,
		At:            created.CreatedAt,
	}}
	for _, cfg := range closed {
		events = append(events, domain.CommissionChangedEvent{
			Scope:        domain.ScopeShop,
			ShopID:       cfg.ShopID,
			FeeType:      feeType,
			PreviousRate: cfg.Rate(),
			NewRate:      input.Rate,
			ChangedBy:    input.Actor.ID,
			At:           created.CreatedAt,
		})
	}
	uc.publish(ctx, events...)

	return &commissiondto.UpdateGlobalCommissionOutput{Config: created, ClosedConfigs: len(closed)}, nil
}

func (uc *DefaultCommissionUsecase) GetCommissionHistory(ctx context.Context, input *commissiondto.GetHistoryInput) (*commissiondto.GetHistoryOutput, error) {
	page, limit := input.Page, input.Limit
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	filter := domain.CommissionHistoryFilter{Page: page, Limit: limit}
	switch {
	case input.Global:
		scope := domain.ScopeGlobal
		filter.Scope = &scope
	case strings.TrimSpace(input.ShopID) != "":
		shopID := strings.TrimSpace(input.ShopID)
		filter.ShopID = &shopID
	}

	entries, total, err := uc.store.Commissions().ListHistory(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &commissiondto.GetHistoryOutput{
		Entries: entries,
		Pagination: commissiondto.Pagination{
			CurrentPage:  page,
			TotalPages:   int((total + int64(limit) - 1) / int64(limit)),
			TotalItems:   total,
			ItemsPerPage: limit,
		},
	}, nil
}

// SeedGlobal creates the initial global config unless one is already open.
func (uc *DefaultCommissionUsecase) SeedGlobal(ctx context.Context, feeType domain.FeeType, rate decimal.Decimal) (bool, error) {
	if feeType == "" {
		feeType = domain.FeePercentage
	}
	if err := domain.ValidateRate(feeType, rate); err != nil {
		return false, err
	}

	unlock, err := uc.lock(ctx, globalLockKey)
	if err != nil {
		return false, err
	}
	defer unlock()

	seeded := false
	err = uc.store.WithinTransaction(ctx, func(repos domain.Repositories) error {
		commissions := repos.Commissions()
		if _, err := commissions.GetOpenGlobalConfigForUpdate(ctx); err == nil {
			return nil
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		now := uc.now()
		cfg := newConfig(domain.ScopeGlobal, "", feeType, rate, domain.SystemActor.ID, now)
		if err := commissions.CreateConfig(ctx, cfg); err != nil {
			return err
		}
		seeded = true
		return commissions.AppendHistory(ctx, &domain.CommissionHistoryEntry{
			ID:           uuid.NewString(),
			Scope:        domain.ScopeGlobal,
			FeeType:      feeType,
			PreviousRate: decimal.Zero,
			NewRate:      rate,
			Reason:       "initial global commission",
			ChangedBy:    domain.SystemActor.ID,
			CreatedAt:    now,
		})
	})
	if err != nil {
		return false, err
	}
	if seeded {
		slog.Info("global commission seeded", "fee_type", feeType, "rate", rate.String())
	}
	return seeded, nil
}

func (uc *DefaultCommissionUsecase) publish(ctx context.Context, events ...domain.Event) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(ctx, events...); err != nil {
		slog.Error("failed to publish commission events", "count", len(events), "error", err.Error())
	}
}

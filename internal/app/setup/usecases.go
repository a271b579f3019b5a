package setup

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/usecase/commission"
	orderusecase "github.com/LavaJover/shvark-settlement-service/internal/usecase/order"
	"github.com/LavaJover/shvark-settlement-service/internal/usecase/performance"
	rmausecase "github.com/LavaJover/shvark-settlement-service/internal/usecase/rma"
	"github.com/LavaJover/shvark-settlement-service/internal/usecase/settlement"
	"github.com/shopspring/decimal"
)

type UseCases struct {
	OrderUsecase       orderusecase.OrderUsecase
	SettlementUsecase  settlement.SettlementUsecase
	CommissionUsecase  commission.CommissionUsecase
	ReturnUsecase      rmausecase.ReturnUsecase
	PerformanceUsecase performance.PerformanceUsecase
}

func InitializeUseCases(deps *Dependencies) (*UseCases, error) {
	cfg := deps.Config

	resolver := commission.NewResolver(deps.Store.Commissions())
	settlementService := settlement.NewService(
		settlement.NewCalculator(cfg.MoneyScale),
		resolver,
		settlement.CommissionTimePolicy(cfg.CommissionTimePolicy),
	)

	returnUsecase, err := rmausecase.NewDefaultReturnUsecase(deps.Store, settlementService, deps.Publisher, deps.Metrics, nil)
	if err != nil {
		return nil, fmt.Errorf("return usecase: %w", err)
	}

	scorer, err := performance.NewScorer(domain.ScoreWeights{
		Revenue: cfg.RevenueWeight,
		Orders:  cfg.OrdersWeight,
		Rating:  cfg.RatingWeight,
		GMV:     cfg.GMVWeight,
	})
	if err != nil {
		return nil, fmt.Errorf("performance scorer: %w", err)
	}

	return &UseCases{
		OrderUsecase:      orderusecase.NewDefaultOrderUsecase(deps.Store, settlementService, deps.Publisher, deps.Metrics, nil),
		SettlementUsecase: settlement.NewDefaultSettlementUsecase(deps.Store, deps.Publisher, deps.Metrics, nil),
		CommissionUsecase: commission.NewDefaultCommissionUsecase(
			deps.Store,
			resolver,
			deps.Locker,
			deps.Publisher,
			deps.Metrics,
			cfg.LockTimeout,
			nil,
		),
		ReturnUsecase:      returnUsecase,
		PerformanceUsecase: performance.NewDefaultPerformanceUsecase(deps.Store, scorer, deps.Ratings, deps.Metrics, nil),
	}, nil
}

// SeedDefaults opens the configured global commission when none is active.
func SeedDefaults(ctx context.Context, deps *Dependencies, uc *UseCases) error {
	rate, err := decimal.NewFromString(deps.Config.DefaultGlobalRate)
	if err != nil {
		return fmt.Errorf("default_global_rate %q: %w", deps.Config.DefaultGlobalRate, err)
	}
	seeded, err := uc.CommissionUsecase.SeedGlobal(ctx, domain.FeeType(deps.Config.DefaultFeeType), rate)
	if err != nil {
		return fmt.Errorf("seed global commission: %w", err)
	}
	if !seeded {
		deps.Logger.Debug("global commission already configured")
	}
	return nil
}

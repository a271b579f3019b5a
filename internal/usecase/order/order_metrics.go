package usecase

import (
	"github.com/LavaJover/shvark-settlement-service/internal/domain"
)

// recordTransitionMetrics - вызывается после коммита перехода
func (uc *DefaultOrderUsecase) recordTransitionMetrics(op *OrderOperation, events []domain.Event) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.ObserveTransition(string(op.OldStatus), string(op.NewStatus))

	for _, e := range events {
		se, ok := e.(domain.SettlementEvent)
		if !ok {
			continue
		}
		uc.Metrics.ObserveSettlement(se.Type, string(se.FeeType), se.PlatformFee, se.NetAmount)
	}
}

func (uc *DefaultOrderUsecase) recordTransitionError(err error) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.ObserveTransitionError(errorKind(err))
}

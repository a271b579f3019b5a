package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScoreWeightsValidate(t *testing.T) {
	assert.NoError(t, DefaultScoreWeights.Validate())
	assert.NoError(t, ScoreWeights{Revenue: 25, Orders: 25, Rating: 25, GMV: 25}.Validate())
	assert.ErrorIs(t, ScoreWeights{Revenue: 50, Orders: 30, Rating: 20, GMV: 10}.Validate(), ErrValidation)
	assert.ErrorIs(t, ScoreWeights{Revenue: 110, Orders: -10}.Validate(), ErrValidation)
}

func TestPeriodValidate(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, Period{Key: "2026-03-01", From: from, To: from.Add(24 * time.Hour)}.Validate())
	assert.ErrorIs(t, Period{From: from, To: from.Add(time.Hour)}.Validate(), ErrValidation)
	assert.ErrorIs(t, Period{Key: "x", From: from, To: from}.Validate(), ErrValidation)
}

func TestCommissionConfigActiveAt(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(time.Hour)
	cfg := &CommissionConfig{EffectiveFrom: from, EffectiveTo: &to}

	assert.False(t, cfg.ActiveAt(from.Add(-time.Nanosecond)))
	assert.True(t, cfg.ActiveAt(from))
	assert.True(t, cfg.ActiveAt(to.Add(-time.Nanosecond)))
	assert.False(t, cfg.ActiveAt(to))
	assert.False(t, cfg.IsOpen())

	cfg.EffectiveTo = nil
	assert.True(t, cfg.ActiveAt(from.AddDate(10, 0, 0)))
}

func TestActorValidate(t *testing.T) {
	assert.NoError(t, SystemActor.Validate())
	assert.ErrorIs(t, Actor{Role: RoleAdmin}.Validate(), ErrValidation)
	assert.ErrorIs(t, Actor{ID: "x", Role: "ROOT"}.Validate(), ErrValidation)
	assert.Equal(t, ReturnActorUser, ReturnActorTypeOf(RoleBuyer))
	assert.Equal(t, ReturnActorSystem, ReturnActorTypeOf(RoleSystem))
}

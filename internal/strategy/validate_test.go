package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validDecision() TradingDecision {
	return TradingDecision{
		Action:          ActionOpenLong,
		Symbol:          "BTCUSDT",
		Confidence:      75,
		Leverage:        3,
		PositionSizePct: 20,
		StopLossPct:     2,
		TakeProfitPct:   5,
		Reasoning:       "多周期趋势一致向上",
	}
}

func TestValidate_OK(t *testing.T) {
	d := validDecision()
	assert.NoError(t, Validate(&d, 5))
	assert.True(t, IsValid(&d, 5))
}

func TestValidate_Violations(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(d *TradingDecision)
		wantMsg string
	}{
		{"nil以外的空action", func(d *TradingDecision) { d.Action = "" }, "action"},
		{"缺少symbol", func(d *TradingDecision) { d.Symbol = "" }, "symbol"},
		{"缺少reasoning", func(d *TradingDecision) { d.Reasoning = "" }, "reasoning"},
		{"未知action", func(d *TradingDecision) { d.Action = "short_everything" }, "无效的action"},
		{"confidence超上限", func(d *TradingDecision) { d.Confidence = 101 }, "confidence"},
		{"confidence负值", func(d *TradingDecision) { d.Confidence = -1 }, "confidence"},
		{"leverage超上限", func(d *TradingDecision) { d.Leverage = 6 }, "leverage"},
		{"leverage为0", func(d *TradingDecision) { d.Leverage = 0 }, "leverage"},
		{"仓位超上限", func(d *TradingDecision) { d.PositionSizePct = 150 }, "position_size_pct"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDecision()
			tc.mutate(&d)
			err := Validate(&d, 5)
			assert.ErrorContains(t, err, tc.wantMsg)
			assert.False(t, IsValid(&d, 5))
		})
	}
}

func TestValidate_NilDecision(t *testing.T) {
	assert.Error(t, Validate(nil, 5))
}

func TestValidate_DefaultMaxLeverage(t *testing.T) {
	d := validDecision()
	d.Leverage = 5
	// maxLeverage 非法时按默认 5 处理
	assert.NoError(t, Validate(&d, 0))
	d.Leverage = 6
	assert.Error(t, Validate(&d, -1))
}

func TestValidate_BoundaryValues(t *testing.T) {
	d := validDecision()
	d.Confidence = 0
	d.Leverage = 1
	d.PositionSizePct = 0
	assert.NoError(t, Validate(&d, 5))

	d.Confidence = 100
	d.Leverage = 5
	d.PositionSizePct = 100
	assert.NoError(t, Validate(&d, 5))
}

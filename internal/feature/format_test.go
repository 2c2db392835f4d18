package feature

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleContext() MarketContext {
	return MarketContext{
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Symbol:    "BTCUSDT",
		MarketOverview: MarketOverview{
			CurrentPrice:      50123.45,
			FundingRate:       0.0012,
			FundingRateStatus: "extremely_positive",
			OpenInterest:      1234567,
			Liquidity:         "high",
		},
		MultiTimeframe: map[string]TimeframeState{
			"1h": {Trend: "uptrend", Volatility: "medium", ATRPct: 1.8, Momentum: "bullish", RSI: 62.5, MACDSignal: "bullish", VolumeRatio: 1.2, VolumeChangePct: 15.0, Price: 50123.45, Support: []float64{49500}, Resistance: []float64{50800}},
			"5m": {Trend: "sideways", Volatility: "low", ATRPct: 0.5, Momentum: "neutral", RSI: 51.0, MACDSignal: "neutral", VolumeRatio: 0.9, VolumeChangePct: -3.0, Price: 50120.00},
		},
		PositionContext: PositionContext{HasPosition: false, Side: "NONE", AccountBalance: 800, TotalBalance: 1000},
		RiskConstraints: DefaultRiskConstraints(),
	}
}

func TestFormat_Deterministic(t *testing.T) {
	ctx := sampleContext()
	first := Format(ctx)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Format(ctx))
	}
}

func TestFormat_SectionOrderAndContent(t *testing.T) {
	doc := Format(sampleContext())

	markers := []string{
		"## 市场快照",
		"### 市场状态总览",
		"### 多周期分析",
		"### 当前持仓",
		"### 账户信息",
		"### 风险约束",
		"### 决策要求",
	}
	pos := -1
	for _, m := range markers {
		idx := strings.Index(doc, m)
		require.GreaterOrEqual(t, idx, 0, "缺少段落 %q", m)
		assert.Greater(t, idx, pos, "段落顺序错误: %q", m)
		pos = idx
	}

	assert.Contains(t, doc, "**交易对**: BTCUSDT")
	assert.Contains(t, doc, "**当前价格**: $50,123.45")
	assert.Contains(t, doc, "0.1200% (extremely_positive)")
	assert.Contains(t, doc, "流动性深度**: high")
	assert.Contains(t, doc, "- 无持仓")
	assert.Contains(t, doc, "- 支撑位: 49500.00")
	assert.Contains(t, doc, "风险收益比**: 确保潜在收益至少是风险的2倍以上")
}

func TestFormat_TimeframeCanonicalOrder(t *testing.T) {
	ctx := sampleContext()
	ctx.MultiTimeframe["1d"] = TimeframeState{Trend: "uptrend"}
	ctx.MultiTimeframe["15m"] = TimeframeState{Trend: "sideways"}

	doc := Format(ctx)
	i5 := strings.Index(doc, "**5m**:")
	i15 := strings.Index(doc, "**15m**:")
	i1h := strings.Index(doc, "**1h**:")
	i1d := strings.Index(doc, "**1d**:")
	require.True(t, i5 >= 0 && i15 >= 0 && i1h >= 0 && i1d >= 0)
	assert.Less(t, i5, i15)
	assert.Less(t, i15, i1h)
	assert.Less(t, i1h, i1d)
}

func TestSortTimeframes(t *testing.T) {
	t.Run("规范顺序", func(t *testing.T) {
		got := SortTimeframes([]string{"1d", "5m", "1h", "1m", "4h", "30m", "15m"})
		assert.Equal(t, []string{"1m", "5m", "15m", "30m", "1h", "4h", "1d"}, got)
	})

	t.Run("未知周期排在已知之后且保持相对顺序", func(t *testing.T) {
		got := SortTimeframes([]string{"8h", "1h", "2h", "5m"})
		assert.Equal(t, []string{"5m", "1h", "8h", "2h"}, got)
	})

	t.Run("不修改输入", func(t *testing.T) {
		in := []string{"1d", "5m"}
		_ = SortTimeframes(in)
		assert.Equal(t, []string{"1d", "5m"}, in)
	})
}

func TestBuilder_Defaults(t *testing.T) {
	b := NewBuilder(nil)
	mc := b.Build("ETHUSDT", nil, nil, nil)

	assert.Equal(t, "ETHUSDT", mc.Symbol)
	assert.Equal(t, "neutral", mc.MarketOverview.FundingRateStatus)
	assert.Equal(t, "unknown", mc.MarketOverview.Liquidity)
	assert.Equal(t, DefaultRiskConstraints(), mc.RiskConstraints)
	assert.False(t, mc.PositionContext.HasPosition)
	assert.Equal(t, noAccountNote, mc.PositionContext.Note)
	assert.False(t, mc.Timestamp.IsZero())
}

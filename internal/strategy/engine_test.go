package strategy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"aitrader/internal/feature"
	"aitrader/internal/gateway/provider"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) ID() string { return "mock-model" }

func (m *MockProvider) Call(ctx context.Context, payload provider.ChatPayload) (string, error) {
	args := m.Called(ctx, payload)
	return args.String(0), args.Error(1)
}

func engineContext() feature.MarketContext {
	return feature.MarketContext{
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Symbol:    "BTCUSDT",
		MarketOverview: feature.MarketOverview{
			CurrentPrice:      50000,
			FundingRate:       0.0012,
			FundingRateStatus: "extremely_positive",
			OpenInterest:      1000000,
			Liquidity:         "high",
		},
		MultiTimeframe: map[string]feature.TimeframeState{
			"1h": {Trend: "uptrend", RSI: 60},
		},
		PositionContext: feature.PositionContext{HasPosition: false, Side: "NONE"},
		RiskConstraints: feature.DefaultRiskConstraints(),
	}
}

func TestEngine_Decide_Success(t *testing.T) {
	mp := new(MockProvider)
	mp.On("Call", mock.Anything, mock.MatchedBy(func(p provider.ChatPayload) bool {
		return p.ExpectJSON && p.Temperature == 0.3 && p.MaxTokens == 2000
	})).Return(sampleDecisionJSON, nil)

	eng := NewEngine(mp, EngineConfig{})
	d, doc := eng.Decide(context.Background(), engineContext())

	assert.False(t, d.IsFallback)
	assert.Equal(t, ActionOpenLong, d.Action)
	assert.Equal(t, "BTCUSDT", d.Symbol)
	assert.Equal(t, "mock-model", d.Model)
	assert.Equal(t, sampleDecisionJSON, d.RawResponse)
	assert.NotEmpty(t, d.Timestamp)
	assert.Contains(t, doc, "## 市场快照")
	mp.AssertExpectations(t)
}

func TestEngine_Decide_ProviderError_Fallback(t *testing.T) {
	mp := new(MockProvider)
	mp.On("Call", mock.Anything, mock.Anything).Return("", errors.New("api timeout"))

	eng := NewEngine(mp, EngineConfig{})
	d, doc := eng.Decide(context.Background(), engineContext())

	assert.True(t, d.IsFallback)
	assert.Equal(t, ActionHold, d.Action)
	assert.Zero(t, d.Confidence)
	assert.Equal(t, 1, d.Leverage)
	assert.Zero(t, d.PositionSizePct)
	assert.Equal(t, 1.0, d.StopLossPct)
	assert.Equal(t, 2.0, d.TakeProfitPct)
	assert.Equal(t, fallbackReasoning, d.Reasoning)
	assert.NotEmpty(t, doc)

	// 兜底决策必须总能通过校验
	assert.NoError(t, Validate(&d, 5))
	assert.NoError(t, Validate(&d, 1))
}

func TestEngine_Decide_ParseError_Fallback(t *testing.T) {
	mp := new(MockProvider)
	raw := "市场不确定性太高，我无法给出结构化建议。"
	mp.On("Call", mock.Anything, mock.Anything).Return(raw, nil)

	eng := NewEngine(mp, EngineConfig{})
	d, _ := eng.Decide(context.Background(), engineContext())

	assert.True(t, d.IsFallback)
	assert.Equal(t, ActionHold, d.Action)
	// 解析失败时保留原始输出，方便排查
	assert.Equal(t, raw, d.RawResponse)
	assert.NoError(t, Validate(&d, 5))
}

func TestEngine_Decide_PersonaAppended(t *testing.T) {
	mp := new(MockProvider)
	var captured provider.ChatPayload
	mp.On("Call", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).(provider.ChatPayload)
	}).Return(sampleDecisionJSON, nil)

	eng := NewEngine(mp, EngineConfig{PersonaExtra: "偏好低杠杆短线"})
	_, _ = eng.Decide(context.Background(), engineContext())

	assert.Contains(t, captured.System, "偏好低杠杆短线")
	assert.Contains(t, captured.User, "BTCUSDT")
}

// 模拟一轮完整失败场景：极端正费率 + 高流动性 + 无持仓，模型不可用。
func TestEngine_EndToEnd_FallbackCycle(t *testing.T) {
	mp := new(MockProvider)
	mp.On("Call", mock.Anything, mock.Anything).Return("", errors.New("connection refused"))

	b := feature.NewBuilder(nil)
	mc := b.Build("BTCUSDT", map[string]feature.TimeframeState{
		"1h": {Trend: "uptrend", Volatility: "medium", RSI: 65, MACDSignal: "bullish"},
	}, nil, nil)
	mc.MarketOverview.FundingRate = 0.0012
	mc.MarketOverview.FundingRateStatus = feature.ClassifyFundingRate(0.0012)

	eng := NewEngine(mp, EngineConfig{})
	d, doc := eng.Decide(context.Background(), mc)

	require.True(t, d.IsFallback)
	assert.Equal(t, ActionHold, d.Action)
	assert.Equal(t, "BTCUSDT", d.Symbol)
	assert.NoError(t, Validate(&d, feature.DefaultRiskConstraints().MaxLeverage))
	assert.Contains(t, doc, "extremely_positive")
}

package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDecisionJSON = `{
	"action": "open_long",
	"symbol": "BTCUSDT",
	"confidence": 75,
	"leverage": 3,
	"position_size_pct": 20,
	"stop_loss_pct": 2,
	"take_profit_pct": 5,
	"reasoning": "多周期共振向上",
	"analysis": {
		"trend_analysis": "多周期上行",
		"technical_signals": "RSI/MACD共振",
		"risk_assessment": "中等",
		"market_sentiment": "偏多",
		"key_levels": "49500/50800",
		"decision_rationale": "趋势延续"
	}
}`

func TestParse_PlainJSON(t *testing.T) {
	d, err := Parse(sampleDecisionJSON)
	require.NoError(t, err)
	assert.Equal(t, ActionOpenLong, d.Action)
	assert.Equal(t, 75.0, d.Confidence)
	assert.Equal(t, 3, d.Leverage)
	require.NotNil(t, d.Analysis)
	assert.Equal(t, "多周期上行", d.Analysis.TrendAnalysis)
}

func TestParse_FencedJSON(t *testing.T) {
	raw := "分析如下。\n```json\n" + sampleDecisionJSON + "\n```\n以上。"
	d, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", d.Symbol)
}

func TestParse_ProseWrappedJSON(t *testing.T) {
	raw := "我建议做多，决策如下：" + sampleDecisionJSON + " 请注意风险。"
	d, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, ActionOpenLong, d.Action)
}

func TestParse_Failures(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"空输出", ""},
		{"纯文本", "今天市场不好，建议观望。"},
		{"截断的JSON", `{"action": "hold", "symbol": "BTCUSDT"`},
		{"缺少action", `{"symbol": "BTCUSDT", "confidence": 50}`},
		{"缺少必需数值字段", `{"action": "hold", "symbol": "BTCUSDT", "confidence": 50, "reasoning": "观望"}`},
		{"action不在枚举内", `{"action": "yolo", "symbol": "BTCUSDT", "confidence": 50, "leverage": 1, "position_size_pct": 0, "stop_loss_pct": 1, "take_profit_pct": 2, "reasoning": "x", "analysis": {}}`},
		{"根节点是数组", `[{"action": "hold"}]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := Parse(tc.raw)
			assert.Error(t, err)
			assert.Nil(t, d)
		})
	}
}

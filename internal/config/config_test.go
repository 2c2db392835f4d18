package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalYAML = `
app:
  log_level: debug
ai:
  provider: deepseek
  api_key: sk-test
trading:
  symbol: ETHUSDT
`

func TestLoad_Minimal(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "ETHUSDT", cfg.Trading.Symbol)
	// 未配置项落默认值
	assert.Equal(t, "deepseek-chat", cfg.AI.Model)
	assert.Equal(t, 0.3, cfg.AI.Temperature)
	assert.Equal(t, 2000, cfg.AI.MaxTokens)
	assert.Equal(t, []string{"5m", "15m", "1h", "4h", "1d"}, cfg.Trading.Timeframes)
	assert.Equal(t, "15m", cfg.Trading.DecisionInterval)
	assert.Equal(t, 100, cfg.Trading.CandleLimit)
	assert.Equal(t, 5, cfg.Risk.MaxLeverage)
	assert.Equal(t, 1.5, cfg.Risk.MaxRiskPerTradePct)
	assert.Equal(t, 30.0, cfg.Risk.MaxTotalPositionPct)
	assert.Equal(t, 3, cfg.Risk.MaxConsecutiveLosses)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("AI_API_KEY", "sk-from-env")
	t.Setenv("BINANCE_API_KEY", "binance-env")

	cfg, err := Load(writeConfig(t, `
ai:
  provider: openai
trading:
  symbol: BTCUSDT
`))
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", cfg.AI.APIKey)
	assert.Equal(t, "binance-env", cfg.Binance.APIKey)
}

func TestLoad_Validation(t *testing.T) {
	t.Run("openai缺APIKey", func(t *testing.T) {
		t.Setenv("AI_API_KEY", "")
		_, err := Load(writeConfig(t, "ai:\n  provider: openai\n"))
		assert.ErrorContains(t, err, "api_key")
	})

	t.Run("blockrun缺钱包私钥", func(t *testing.T) {
		t.Setenv("BLOCKRUN_WALLET_KEY", "")
		_, err := Load(writeConfig(t, "ai:\n  provider: blockrun\n"))
		assert.ErrorContains(t, err, "wallet_key")
	})

	t.Run("未知provider", func(t *testing.T) {
		_, err := Load(writeConfig(t, "ai:\n  provider: skynet\n  api_key: k\n"))
		assert.ErrorContains(t, err, "provider")
	})

	t.Run("杠杆超出交易所上限", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
ai:
  provider: openai
  api_key: k
risk:
  max_leverage: 200
`))
		assert.ErrorContains(t, err, "max_leverage")
	})

	t.Run("路径为空", func(t *testing.T) {
		_, err := Load("")
		assert.Error(t, err)
	})
}

func TestRiskConfig_Constraints(t *testing.T) {
	c := RiskConfig{}.Constraints()
	assert.Equal(t, 5, c.MaxLeverage)
	assert.Equal(t, 1.5, c.MaxRiskPerTradePct)

	c = RiskConfig{MaxLeverage: 10, MaxRiskPerTradePct: 2}.Constraints()
	assert.Equal(t, 10, c.MaxLeverage)
	assert.Equal(t, 2.0, c.MaxRiskPerTradePct)
}

func TestLoadPersona(t *testing.T) {
	t.Run("空路径", func(t *testing.T) {
		got, err := LoadPersona("")
		assert.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("正常加载", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "persona.yaml")
		require.NoError(t, os.WriteFile(path, []byte("name: 保守型\nguidance: 偏好低杠杆\n"), 0o644))
		got, err := LoadPersona(path)
		require.NoError(t, err)
		assert.Equal(t, "偏好低杠杆", got)
	})

	t.Run("文件不存在", func(t *testing.T) {
		_, err := LoadPersona("/no/such/persona.yaml")
		assert.Error(t, err)
	})
}

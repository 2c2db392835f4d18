package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("config path cannot be empty")
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	cfg.overrideFromEnv()
	cfg.applyDefaults()
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// overrideFromEnv 敏感信息允许用环境变量覆盖配置文件。
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("BINANCE_API_KEY"); v != "" {
		c.Binance.APIKey = v
	}
	if v := os.Getenv("BINANCE_API_SECRET"); v != "" {
		c.Binance.APISecret = v
	}
	if v := os.Getenv("AI_API_KEY"); v != "" {
		c.AI.APIKey = v
	}
	if v := os.Getenv("BLOCKRUN_WALLET_KEY"); v != "" {
		c.AI.WalletKey = v
	}
}

func (c *Config) applyDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.AI.Provider == "" {
		c.AI.Provider = "openai"
	}
	if c.AI.Model == "" {
		c.AI.Model = "deepseek-chat"
	}
	if c.AI.Temperature <= 0 {
		c.AI.Temperature = 0.3
	}
	if c.AI.MaxTokens <= 0 {
		c.AI.MaxTokens = 2000
	}
	if c.AI.TimeoutSeconds <= 0 {
		c.AI.TimeoutSeconds = 120
	}
	if c.Binance.TimeoutSeconds <= 0 {
		c.Binance.TimeoutSeconds = 10
	}
	if c.Trading.Symbol == "" {
		c.Trading.Symbol = "BTCUSDT"
	}
	if len(c.Trading.Timeframes) == 0 {
		c.Trading.Timeframes = []string{"5m", "15m", "1h", "4h", "1d"}
	}
	if c.Trading.DecisionInterval == "" {
		c.Trading.DecisionInterval = "15m"
	}
	if c.Trading.CandleLimit <= 0 {
		c.Trading.CandleLimit = 100
	}
	c.Risk = c.Risk.withDefaults()
}

func (r RiskConfig) withDefaults() RiskConfig {
	if r.MaxRiskPerTradePct <= 0 {
		r.MaxRiskPerTradePct = 1.5
	}
	if r.MaxTotalPositionPct <= 0 {
		r.MaxTotalPositionPct = 30.0
	}
	if r.MaxLeverage <= 0 {
		r.MaxLeverage = 5
	}
	if r.MaxConsecutiveLosses <= 0 {
		r.MaxConsecutiveLosses = 3
	}
	return r
}

func validate(cfg *Config) error {
	for _, tf := range cfg.Trading.Timeframes {
		if strings.TrimSpace(tf) == "" {
			return fmt.Errorf("trading.timeframes 含空项")
		}
	}
	switch strings.ToLower(cfg.AI.Provider) {
	case "openai", "deepseek", "qwen":
		if cfg.AI.APIKey == "" {
			return fmt.Errorf("ai.api_key 未配置（也可用环境变量 AI_API_KEY）")
		}
	case "blockrun":
		if cfg.AI.WalletKey == "" {
			return fmt.Errorf("ai.wallet_key 未配置（也可用环境变量 BLOCKRUN_WALLET_KEY）")
		}
	default:
		return fmt.Errorf("不支持的 ai.provider: %s", cfg.AI.Provider)
	}
	if cfg.Risk.MaxLeverage > 125 {
		return fmt.Errorf("risk.max_leverage 超出交易所上限")
	}
	return nil
}

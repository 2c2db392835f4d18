package config

// Config 是 aitrader 的主配置载体，由宿主进程启动时加载一次，
// 按值传入各组件；核心逻辑里没有任何隐式全局查找。
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Binance BinanceConfig `mapstructure:"binance"`
	AI      AIConfig      `mapstructure:"ai"`
	Trading TradingConfig `mapstructure:"trading"`
	Risk    RiskConfig    `mapstructure:"risk"`
	Store   StoreConfig   `mapstructure:"store"`
	Notify  NotifyConfig  `mapstructure:"notify"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
	HTTPAddr string `mapstructure:"http_addr"`
	LogPath  string `mapstructure:"log_path"`
	LLMLog   string `mapstructure:"llm_log_path"`
}

type BinanceConfig struct {
	APIKey         string `mapstructure:"api_key"`
	APISecret      string `mapstructure:"api_secret"`
	RESTBaseURL    string `mapstructure:"rest_base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// AIConfig 模型后端配置。Provider 决定认证/传输方式：
// "openai" 走 API Key，"blockrun" 走 x402 钱包签名。
type AIConfig struct {
	Provider       string            `mapstructure:"provider"`
	APIURL         string            `mapstructure:"api_url"`
	APIKey         string            `mapstructure:"api_key"`
	Model          string            `mapstructure:"model"`
	WalletKey      string            `mapstructure:"wallet_key"`
	Headers        map[string]string `mapstructure:"headers"`
	Temperature    float64           `mapstructure:"temperature"`
	MaxTokens      int               `mapstructure:"max_tokens"`
	TimeoutSeconds int               `mapstructure:"timeout_seconds"`
	PersonaPath    string            `mapstructure:"persona_path"`
}

type TradingConfig struct {
	Symbol           string   `mapstructure:"symbol"`
	Timeframes       []string `mapstructure:"timeframes"`
	DecisionInterval string   `mapstructure:"decision_interval"`
	CandleLimit      int      `mapstructure:"candle_limit"`
}

// RiskConfig 四项风险约束，未配置时使用默认值。
type RiskConfig struct {
	MaxRiskPerTradePct   float64 `mapstructure:"max_risk_per_trade_pct"`
	MaxTotalPositionPct  float64 `mapstructure:"max_total_position_pct"`
	MaxLeverage          int     `mapstructure:"max_leverage"`
	MaxConsecutiveLosses int     `mapstructure:"max_consecutive_losses"`
}

type StoreConfig struct {
	DecisionLogPath string `mapstructure:"decision_log_path"`
	ContextLogPath  string `mapstructure:"context_log_path"`
}

type NotifyConfig struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
}

type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

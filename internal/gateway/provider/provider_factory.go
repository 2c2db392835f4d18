package provider

import (
	"fmt"
	"strings"
	"time"
)

// ModelCfg 单个模型后端的连接配置。
type ModelCfg struct {
	Kind      string // "openai"（兼容 DeepSeek/Qwen 等） | "blockrun"
	APIURL    string
	APIKey    string
	Model     string
	WalletKey string
	Headers   map[string]string
}

// Build 按配置选择实现。新增后端只需在这里扩展分支，调用方不感知差异。
func Build(cfg ModelCfg, timeout time.Duration) (ModelProvider, error) {
	kind := strings.ToLower(strings.TrimSpace(cfg.Kind))
	switch kind {
	case "", "openai", "deepseek", "qwen":
		client := &OpenAIChatClient{
			BaseURL:      cfg.APIURL,
			APIKey:       cfg.APIKey,
			Model:        cfg.Model,
			ExtraHeaders: cfg.Headers,
		}
		if timeout > 0 {
			client.Timeout = timeout
		}
		return client, nil
	case "blockrun":
		return NewBlockRunClient(cfg.APIURL, cfg.Model, cfg.WalletKey, timeout)
	default:
		return nil, fmt.Errorf("未知的模型后端: %s", cfg.Kind)
	}
}

package strategy

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"aitrader/internal/pkg/jsonutil"
)

// Parse 把模型原始输出解析为 TradingDecision。
// 三步：提取 JSON 对象 → schema 校验 → 解码。任何一步失败都返回错误，
// 由引擎转为兜底决策，不向上抛。
func Parse(raw string) (*TradingDecision, error) {
	block, ok := jsonutil.ExtractObject(raw)
	if !ok {
		return nil, fmt.Errorf("未找到 JSON 决策对象")
	}
	if !gjson.Valid(block) {
		return nil, fmt.Errorf("json 格式无效")
	}
	parsed := gjson.Parse(block)
	if !parsed.IsObject() {
		return nil, fmt.Errorf("根节点必须是 JSON 对象")
	}
	if strings.TrimSpace(parsed.Get("action").String()) == "" {
		return nil, fmt.Errorf("未检测到 action 字段")
	}

	var doc any
	if err := json.Unmarshal([]byte(block), &doc); err != nil {
		return nil, err
	}
	if err := decisionSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("决策 schema 校验失败: %w", err)
	}

	var d TradingDecision
	if err := json.Unmarshal([]byte(block), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

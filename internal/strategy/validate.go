package strategy

import "fmt"

// 中文说明：
// 基础决策校验，与决策的来源无关（模型输出、兜底、回放都走这里）。
// 快速失败：报告第一条被违反的规则。只读不修。
// 数值字段的"缺失"在解析阶段由 schema 保证，这里校验取值范围。

func Validate(d *TradingDecision, maxLeverage int) error {
	if d == nil {
		return fmt.Errorf("决策为空")
	}
	if d.Action == "" {
		return fmt.Errorf("决策缺少必需字段: action")
	}
	if d.Symbol == "" {
		return fmt.Errorf("决策缺少必需字段: symbol")
	}
	if d.Reasoning == "" {
		return fmt.Errorf("决策缺少必需字段: reasoning")
	}
	if !validActions[d.Action] {
		return fmt.Errorf("无效的action: %s", d.Action)
	}
	if d.Confidence < 0 || d.Confidence > 100 {
		return fmt.Errorf("confidence超出范围: %g", d.Confidence)
	}
	if maxLeverage <= 0 {
		maxLeverage = 5
	}
	if d.Leverage < 1 || d.Leverage > maxLeverage {
		return fmt.Errorf("leverage超出范围: %d", d.Leverage)
	}
	if d.PositionSizePct < 0 || d.PositionSizePct > 100 {
		return fmt.Errorf("position_size_pct超出范围: %g", d.PositionSizePct)
	}
	return nil
}

// IsValid 布尔视图，供只关心通过与否的调用方使用。
func IsValid(d *TradingDecision, maxLeverage int) bool {
	return Validate(d, maxLeverage) == nil
}

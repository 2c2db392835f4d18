package notifier

import (
	"fmt"
	"strings"

	"aitrader/internal/strategy"
)

// FormatDecision 渲染推送用的决策摘要。
func FormatDecision(d strategy.TradingDecision, valid bool) string {
	var b strings.Builder
	if d.IsFallback {
		fmt.Fprintf(&b, "⚠️ *%s* 决策降级（模型不可用），保守观望\n", d.Symbol)
	} else {
		fmt.Fprintf(&b, "🤖 *%s* 决策: `%s`\n", d.Symbol, d.Action)
	}
	fmt.Fprintf(&b, "置信度: %g | 杠杆: %dx | 仓位: %g%%\n", d.Confidence, d.Leverage, d.PositionSizePct)
	fmt.Fprintf(&b, "止损: %g%% | 止盈: %g%%\n", d.StopLossPct, d.TakeProfitPct)
	if !valid {
		b.WriteString("❌ 决策未通过校验，已忽略\n")
	}
	if r := strings.TrimSpace(d.Reasoning); r != "" {
		if len([]rune(r)) > 200 {
			r = string([]rune(r)[:200]) + "…"
		}
		fmt.Fprintf(&b, "理由: %s\n", r)
	}
	return b.String()
}

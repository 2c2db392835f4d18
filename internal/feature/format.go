package feature

import (
	"fmt"
	"sort"
	"strings"
	"time"

	formatutil "aitrader/internal/pkg/format"
)

// 中文说明：
// 将 MarketContext 渲染为给模型的最终文本。文档结构与措辞固定，
// 同样的输入（时间戳除外）必须渲染出完全相同的文本——
// 这份文本同时作为缓存键与回放依据。

// canonicalTimeframes 周期从小到大的规范顺序，未知周期排在已知之后。
var canonicalTimeframes = []string{"1m", "5m", "15m", "30m", "1h", "4h", "1d"}

type section struct {
	name   string
	render func(b *strings.Builder, ctx MarketContext)
}

// 按声明顺序拼接，顺序即文档结构。
var sections = []section{
	{"header", renderHeader},
	{"overview", renderOverview},
	{"timeframes", renderTimeframes},
	{"position", renderPosition},
	{"account", renderAccount},
	{"risk", renderRisk},
	{"checklist", renderChecklist},
}

// Format 渲染完整上下文文档。
func Format(ctx MarketContext) string {
	var b strings.Builder
	for _, s := range sections {
		s.render(&b, ctx)
	}
	return b.String()
}

// SortTimeframes 按规范顺序稳定排序周期代码；
// 未知代码整体排在已知代码之后，彼此保持原有相对顺序。
func SortTimeframes(codes []string) []string {
	out := make([]string, len(codes))
	copy(out, codes)
	sort.SliceStable(out, func(i, j int) bool {
		return timeframeIndex(out[i]) < timeframeIndex(out[j])
	})
	return out
}

func timeframeIndex(code string) int {
	for i, tf := range canonicalTimeframes {
		if tf == code {
			return i
		}
	}
	return len(canonicalTimeframes) + 1
}

func renderHeader(b *strings.Builder, ctx MarketContext) {
	fmt.Fprintf(b, "\n## 市场快照 (%s)\n\n", ctx.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(b, "**交易对**: %s\n", ctx.Symbol)
	fmt.Fprintf(b, "**当前价格**: $%s\n", formatutil.Thousands(ctx.MarketOverview.CurrentPrice, 2))
}

func renderOverview(b *strings.Builder, ctx MarketContext) {
	m := ctx.MarketOverview
	b.WriteString("\n### 市场状态总览\n")
	fmt.Fprintf(b, "- **资金费率**: %.4f%% (%s)\n", m.FundingRate*100, m.FundingRateStatus)
	b.WriteString("  → 资金费率反映多空力量对比，正值表示多头支付空头，负值相反\n")
	fmt.Fprintf(b, "- **持仓量(OI)**: %s\n", formatutil.Thousands(m.OpenInterest, 0))
	b.WriteString("  → 持仓量增加通常表示新资金入场，减少表示资金流出\n")
	fmt.Fprintf(b, "- **流动性深度**: %s\n", m.Liquidity)
	b.WriteString("  → 反映订单簿深度，影响大单的滑点\n")
}

func renderTimeframes(b *strings.Builder, ctx MarketContext) {
	b.WriteString("\n### 多周期分析\n")
	b.WriteString("→ 建议：综合多个时间周期判断，大周期确定趋势方向，小周期寻找入场时机\n")

	// map 没有输入顺序，先按字典序取得确定的基准序，再按规范序稳定排序
	codes := make([]string, 0, len(ctx.MultiTimeframe))
	for code := range ctx.MultiTimeframe {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	codes = SortTimeframes(codes)

	for _, tf := range codes {
		state := ctx.MultiTimeframe[tf]
		fmt.Fprintf(b, "\n**%s**:\n", tf)
		fmt.Fprintf(b, "  - 趋势: %s\n", state.Trend)
		fmt.Fprintf(b, "  - 波动率: %s (ATR: %.2f%%)\n", state.Volatility, state.ATRPct)
		fmt.Fprintf(b, "  - 动量: %s\n", state.Momentum)
		fmt.Fprintf(b, "  - RSI: %.2f\n", state.RSI)
		fmt.Fprintf(b, "  - MACD信号: %s\n", state.MACDSignal)
		fmt.Fprintf(b, "  - 成交量比率: %.2f\n", state.VolumeRatio)
		fmt.Fprintf(b, "  - 成交量变化: %.2f%%\n", state.VolumeChangePct)
		fmt.Fprintf(b, "  - 当前价格: $%.2f\n", state.Price)
		if len(state.Support) > 0 {
			fmt.Fprintf(b, "  - 支撑位: %s\n", joinLevels(state.Support))
		}
		if len(state.Resistance) > 0 {
			fmt.Fprintf(b, "  - 阻力位: %s\n", joinLevels(state.Resistance))
		}
	}
}

func joinLevels(levels []float64) string {
	parts := make([]string, len(levels))
	for i, lv := range levels {
		parts[i] = fmt.Sprintf("%.2f", lv)
	}
	return strings.Join(parts, ", ")
}

func renderPosition(b *strings.Builder, ctx MarketContext) {
	p := ctx.PositionContext
	b.WriteString("\n### 当前持仓\n")
	if !p.HasPosition {
		b.WriteString("- 无持仓\n")
		return
	}
	fmt.Fprintf(b, "- 方向: %s\n", p.Side)
	fmt.Fprintf(b, "- 数量: %g\n", p.Size)
	fmt.Fprintf(b, "- 入场价: $%s\n", formatutil.Thousands(p.EntryPrice, 2))
	fmt.Fprintf(b, "- 当前盈亏: %.2f%%\n", p.CurrentPnlPct)
	fmt.Fprintf(b, "- 未实现盈亏: $%s\n", formatutil.Thousands(p.UnrealizedPnl, 2))
	fmt.Fprintf(b, "- 杠杆: %dx\n", p.Leverage)
	fmt.Fprintf(b, "- 保证金使用率: %.1f%%\n", p.MarginUsagePct)
}

func renderAccount(b *strings.Builder, ctx MarketContext) {
	p := ctx.PositionContext
	b.WriteString("\n### 账户信息\n")
	fmt.Fprintf(b, "- 可用余额: $%s\n", formatutil.Thousands(p.AccountBalance, 2))
	fmt.Fprintf(b, "- 总余额: $%s\n", formatutil.Thousands(p.TotalBalance, 2))
}

func renderRisk(b *strings.Builder, ctx MarketContext) {
	r := ctx.RiskConstraints
	b.WriteString("\n### 风险约束\n")
	fmt.Fprintf(b, "- 单笔最大风险: %g%%\n", r.MaxRiskPerTradePct)
	fmt.Fprintf(b, "- 最大总仓位: %g%%\n", r.MaxTotalPositionPct)
	fmt.Fprintf(b, "- 最大杠杆: %dx\n", r.MaxLeverage)
	fmt.Fprintf(b, "- 最大连续亏损: %d次\n", r.MaxConsecutiveLosses)
}

// 决策指引清单是与模型约定的一部分，措辞固定，不要改动。
func renderChecklist(b *strings.Builder, _ MarketContext) {
	b.WriteString("\n### 决策要求\n")
	b.WriteString("请基于以上信息进行综合分析：\n")
	b.WriteString("1. **多周期趋势一致性**: 检查不同周期的趋势是否一致\n")
	b.WriteString("2. **动量与波动率**: 评估市场动能和波动性\n")
	b.WriteString("3. **技术指标共振**: RSI、MACD等指标是否发出一致信号\n")
	b.WriteString("4. **资金费率与OI**: 分析市场情绪和资金流向\n")
	b.WriteString("5. **支撑阻力位**: 考虑关键价位对价格的影响\n")
	b.WriteString("6. **风险收益比**: 确保潜在收益至少是风险的2倍以上\n")
	b.WriteString("7. **持仓管理**: 如有持仓，考虑是否需要调整或止盈止损\n")
}

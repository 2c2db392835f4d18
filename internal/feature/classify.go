package feature

import "aitrader/internal/market"

// 中文说明：
// 资金费率与流动性的阈值分类。阈值是硬编码的经验边界（未做过标定），
// 以命名常量保留，不要随手"优化"。

const (
	// 资金费率阈值（8 小时费率）。边界值归入 neutral 一侧。
	FundingExtremeThreshold = 0.001
	FundingMildThreshold    = 0.0003

	// 订单簿前 5 档深度之和的分档边界。
	LiquidityHighDepth   = 100.0
	LiquidityMediumDepth = 50.0

	depthLevels = 5
)

// ClassifyFundingRate 五档分类：extremely_positive/positive/neutral/negative/extremely_negative。
func ClassifyFundingRate(rate float64) string {
	switch {
	case rate > FundingExtremeThreshold:
		return "extremely_positive"
	case rate > FundingMildThreshold:
		return "positive"
	case rate < -FundingExtremeThreshold:
		return "extremely_negative"
	case rate < -FundingMildThreshold:
		return "negative"
	default:
		return "neutral"
	}
}

// ClassifyLiquidity 按前 5 档深度分类：unknown/low/medium/high。
// 买卖盘任一侧缺失（nil）为 unknown；有数据但深度为空为 low。
func ClassifyLiquidity(ob *market.OrderBook) string {
	if ob == nil || ob.Bids == nil || ob.Asks == nil {
		return "unknown"
	}
	if len(ob.Bids) == 0 || len(ob.Asks) == 0 {
		return "low"
	}
	total := topDepth(ob.Bids) + topDepth(ob.Asks)
	switch {
	case total > LiquidityHighDepth:
		return "high"
	case total > LiquidityMediumDepth:
		return "medium"
	default:
		return "low"
	}
}

func topDepth(levels []market.BookLevel) float64 {
	n := len(levels)
	if n > depthLevels {
		n = depthLevels
	}
	sum := 0.0
	for _, lv := range levels[:n] {
		sum += lv.Qty
	}
	return sum
}

package feature

import (
	"github.com/shopspring/decimal"

	"aitrader/internal/market"
)

const noAccountNote = "未配置有效API密钥，无法获取账户信息"

// BuildPositionContext 从原始账户/持仓字段推导归一化持仓视图。
// 账户缺失 → 固定"无数据"视图；持仓缺失或数量为 0 → 仅填余额；
// 否则计算方向、盈亏百分比与保证金使用率（均保留 2 位小数）。
func BuildPositionContext(pos *market.PositionSummary, currentPrice float64, acct *market.AccountSummary) PositionContext {
	if acct == nil {
		return PositionContext{
			HasPosition: false,
			Side:        "NONE",
			Note:        noAccountNote,
		}
	}
	if pos == nil || pos.PositionAmt == 0 {
		return PositionContext{
			HasPosition:    false,
			Side:           "NONE",
			AccountBalance: acct.AvailableBalance,
			TotalBalance:   acct.TotalWalletBalance,
		}
	}

	side := "SHORT"
	if pos.PositionAmt > 0 {
		side = "LONG"
	}

	pnlPct := 0.0
	if pos.EntryPrice > 0 {
		if side == "LONG" {
			pnlPct = (currentPrice - pos.EntryPrice) / pos.EntryPrice * 100
		} else {
			pnlPct = (pos.EntryPrice - currentPrice) / pos.EntryPrice * 100
		}
	}

	marginUsagePct := 0.0
	if acct.TotalWalletBalance > 0 {
		marginUsagePct = acct.TotalMarginBalance / acct.TotalWalletBalance * 100
	}

	size := pos.PositionAmt
	if size < 0 {
		size = -size
	}
	leverage := pos.Leverage
	if leverage <= 0 {
		leverage = 1
	}

	return PositionContext{
		HasPosition:    true,
		Side:           side,
		Size:           size,
		EntryPrice:     pos.EntryPrice,
		CurrentPrice:   currentPrice,
		CurrentPnlPct:  round2(pnlPct),
		UnrealizedPnl:  pos.UnrealizedProfit,
		AccountBalance: acct.AvailableBalance,
		TotalBalance:   acct.TotalWalletBalance,
		MarginUsagePct: round2(marginUsagePct),
		Leverage:       leverage,
	}
}

func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

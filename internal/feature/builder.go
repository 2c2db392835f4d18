package feature

import (
	"time"

	"aitrader/internal/market"
)

// Builder 将已抓取的市场数据组装为 MarketContext。
// 纯组合，不做任何网络或阻塞调用；唯一副作用是打时间戳。
type Builder struct {
	risk RiskProvider
}

func NewBuilder(risk RiskProvider) *Builder {
	return &Builder{risk: risk}
}

// Build 组装上下文。snapshot 字段缺失一律按零值处理，不报错。
func (b *Builder) Build(symbol string, states map[string]TimeframeState, snap *market.Snapshot, pos *market.PositionSummary) MarketContext {
	var (
		price float64
		rate  float64
		oi    float64
		ob    *market.OrderBook
		acct  *market.AccountSummary
	)
	if snap != nil {
		price = snap.Price
		rate = snap.FundingRate
		oi = snap.OpenInterest
		ob = snap.OrderBook
		acct = snap.Account
		if pos == nil {
			pos = snap.Position
		}
	}

	constraints := DefaultRiskConstraints()
	if b.risk != nil {
		constraints = b.risk.Risk()
	}

	return MarketContext{
		Timestamp: time.Now(),
		Symbol:    symbol,
		MarketOverview: MarketOverview{
			CurrentPrice:      price,
			FundingRate:       rate,
			FundingRateStatus: ClassifyFundingRate(rate),
			OpenInterest:      oi,
			Liquidity:         ClassifyLiquidity(ob),
		},
		MultiTimeframe:  states,
		PositionContext: BuildPositionContext(pos, price, acct),
		RiskConstraints: constraints,
	}
}

package market

// 中文说明：
// Snapshot 是单次决策使用的市场切面：价格/资金费率/持仓量/订单簿/账户/持仓。
// 各字段均允许缺失（指针为 nil 或数值为 0），由上层以零值容忍处理。

type BookLevel struct {
	Price float64 `json:"price"`
	Qty   float64 `json:"qty"`
}

// OrderBook 按价格优先级排列的买卖盘。Bids/Asks 为 nil 表示该侧数据缺失，
// 与空切片（有数据但无深度）含义不同。
type OrderBook struct {
	Bids []BookLevel `json:"bids"`
	Asks []BookLevel `json:"asks"`
}

// AccountSummary 合约账户余额概览。
type AccountSummary struct {
	AvailableBalance   float64 `json:"available_balance"`
	TotalWalletBalance float64 `json:"total_wallet_balance"`
	TotalMarginBalance float64 `json:"total_margin_balance"`
}

// PositionSummary 单币种持仓概览。PositionAmt 带符号：>0 多头，<0 空头。
type PositionSummary struct {
	PositionAmt      float64 `json:"position_amt"`
	EntryPrice       float64 `json:"entry_price"`
	UnrealizedProfit float64 `json:"unrealized_profit"`
	Leverage         int     `json:"leverage"`
}

// Snapshot 聚合一次抓取得到的全部市场观测。
type Snapshot struct {
	Price        float64          `json:"price"`
	FundingRate  float64          `json:"funding_rate"`
	OpenInterest float64          `json:"open_interest"`
	OrderBook    *OrderBook       `json:"orderbook,omitempty"`
	Account      *AccountSummary  `json:"account,omitempty"`
	Position     *PositionSummary `json:"position,omitempty"`
}

package binance

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/adshao/go-binance/v2/futures"

	"aitrader/internal/logger"
	"aitrader/internal/market"
)

const maxHistoryLimit = 1500

// Source 基于 go-binance SDK 抓取合约市场数据与账户状态。
// 未配置 API 密钥时仅抓公共行情，账户/持仓字段留空由上层按缺失处理。
type Source struct {
	cfg    Config
	client *futures.Client
}

func New(cfg Config) *Source {
	final := cfg.withDefaults()
	client := futures.NewClient(final.APIKey, final.APISecret)
	client.BaseURL = strings.TrimSpace(final.RESTBaseURL)
	client.HTTPClient = &http.Client{Timeout: final.HTTPTimeout}
	return &Source{cfg: final, client: client}
}

// FetchCandles 抓取单周期历史 K 线。
func (s *Source) FetchCandles(ctx context.Context, symbol, interval string, limit int) ([]market.Candle, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	interval = strings.ToLower(strings.TrimSpace(interval))
	if interval == "" {
		return nil, fmt.Errorf("interval is required")
	}
	kls, err := s.client.NewKlinesService().Symbol(symbol).Interval(interval).Limit(limit).Do(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]market.Candle, 0, len(kls))
	for _, kl := range kls {
		if kl == nil {
			continue
		}
		out = append(out, market.Candle{
			OpenTime:  kl.OpenTime,
			CloseTime: kl.CloseTime,
			Open:      parseFloat(kl.Open),
			High:      parseFloat(kl.High),
			Low:       parseFloat(kl.Low),
			Close:     parseFloat(kl.Close),
			Volume:    parseFloat(kl.Volume),
			Trades:    kl.TradeNum,
		})
	}
	return out, nil
}

// FetchSnapshot 抓取一次完整市场切面。公共行情任一项失败直接报错；
// 账户/持仓抓取失败只告警，按数据缺失处理。
func (s *Source) FetchSnapshot(ctx context.Context, symbol string) (*market.Snapshot, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	snap := &market.Snapshot{}

	premiums, err := s.client.NewPremiumIndexService().Symbol(symbol).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("获取资金费率失败: %w", err)
	}
	if len(premiums) > 0 && premiums[0] != nil {
		snap.FundingRate = parseFloat(premiums[0].LastFundingRate)
		snap.Price = parseFloat(premiums[0].MarkPrice)
	}

	prices, err := s.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("获取最新价格失败: %w", err)
	}
	if len(prices) > 0 && prices[0] != nil {
		snap.Price = parseFloat(prices[0].Price)
	}

	oi, err := s.client.NewGetOpenInterestService().Symbol(symbol).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("获取持仓量失败: %w", err)
	}
	if oi != nil {
		snap.OpenInterest = parseFloat(oi.OpenInterest)
	}

	depth, err := s.client.NewDepthService().Symbol(symbol).Limit(s.cfg.DepthLimit).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("获取订单簿失败: %w", err)
	}
	if depth != nil {
		ob := &market.OrderBook{
			Bids: make([]market.BookLevel, 0, len(depth.Bids)),
			Asks: make([]market.BookLevel, 0, len(depth.Asks)),
		}
		for _, lv := range depth.Bids {
			ob.Bids = append(ob.Bids, market.BookLevel{Price: parseFloat(lv.Price), Qty: parseFloat(lv.Quantity)})
		}
		for _, lv := range depth.Asks {
			ob.Asks = append(ob.Asks, market.BookLevel{Price: parseFloat(lv.Price), Qty: parseFloat(lv.Quantity)})
		}
		snap.OrderBook = ob
	}

	if s.cfg.APIKey != "" && s.cfg.APISecret != "" {
		acct, pos, aerr := s.fetchAccount(ctx, symbol)
		if aerr != nil {
			logger.Warnf("获取账户信息失败，按无账户数据处理: %v", aerr)
		} else {
			snap.Account = acct
			snap.Position = pos
		}
	}
	return snap, nil
}

func (s *Source) fetchAccount(ctx context.Context, symbol string) (*market.AccountSummary, *market.PositionSummary, error) {
	acct, err := s.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return nil, nil, err
	}
	summary := &market.AccountSummary{
		AvailableBalance:   parseFloat(acct.AvailableBalance),
		TotalWalletBalance: parseFloat(acct.TotalWalletBalance),
		TotalMarginBalance: parseFloat(acct.TotalMarginBalance),
	}
	var pos *market.PositionSummary
	for _, p := range acct.Positions {
		if p == nil || !strings.EqualFold(p.Symbol, symbol) {
			continue
		}
		amt := parseFloat(p.PositionAmt)
		if amt == 0 {
			continue
		}
		lev, _ := strconv.Atoi(strings.TrimSpace(p.Leverage))
		pos = &market.PositionSummary{
			PositionAmt:      amt,
			EntryPrice:       parseFloat(p.EntryPrice),
			UnrealizedProfit: parseFloat(p.UnrealizedProfit),
			Leverage:         lev,
		}
		break
	}
	return summary, pos, nil
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

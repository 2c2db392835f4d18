package indicator

import (
	"fmt"
	"math"

	talib "github.com/markcheno/go-talib"

	"aitrader/internal/feature"
	"aitrader/internal/market"
)

// 中文说明：
// 将单周期 K 线序列压缩为 TimeframeState（趋势/动量/波动率/指标摘要）。
// 输出只依赖输入序列，同样的 K 线必然得到同样的状态。

// Settings 指标参数，零值使用默认周期。
type Settings struct {
	EMAFast     int
	EMASlow     int
	RSIPeriod   int
	ATRPeriod   int
	ROCPeriod   int
	VolumeSMA   int
	LevelWindow int
}

func (s Settings) withDefaults() Settings {
	if s.EMAFast <= 0 {
		s.EMAFast = 21
	}
	if s.EMASlow <= 0 {
		s.EMASlow = 50
	}
	if s.RSIPeriod <= 0 {
		s.RSIPeriod = 14
	}
	if s.ATRPeriod <= 0 {
		s.ATRPeriod = 14
	}
	if s.ROCPeriod <= 0 {
		s.ROCPeriod = 10
	}
	if s.VolumeSMA <= 0 {
		s.VolumeSMA = 20
	}
	if s.LevelWindow <= 0 {
		s.LevelWindow = 20
	}
	return s
}

// MinCandles 返回当前参数下需要的最少 K 线数量。
func (s Settings) MinCandles() int {
	s = s.withDefaults()
	need := s.EMASlow
	for _, n := range []int{s.RSIPeriod + 1, s.ATRPeriod + 1, s.ROCPeriod + 1, s.VolumeSMA, s.LevelWindow + 1} {
		if n > need {
			need = n
		}
	}
	return need
}

// DeriveState 计算单周期技术状态。
func DeriveState(candles []market.Candle, cfg Settings) (feature.TimeframeState, error) {
	cfg = cfg.withDefaults()
	if len(candles) < cfg.MinCandles() {
		return feature.TimeframeState{}, fmt.Errorf("K线数量不足: %d < %d", len(candles), cfg.MinCandles())
	}

	n := len(candles)
	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	volumes := make([]float64, n)
	for i, c := range candles {
		closes[i] = c.Close
		highs[i] = c.High
		lows[i] = c.Low
		volumes[i] = c.Volume
	}
	price := closes[n-1]

	emaFast := last(talib.Ema(closes, cfg.EMAFast))
	emaSlow := last(talib.Ema(closes, cfg.EMASlow))
	rsi := last(talib.Rsi(closes, cfg.RSIPeriod))
	_, _, hist := talib.Macd(closes, 12, 26, 9)
	atr := last(talib.Atr(highs, lows, closes, cfg.ATRPeriod))
	roc := last(talib.Roc(closes, cfg.ROCPeriod))
	volSMA := last(talib.Sma(volumes, cfg.VolumeSMA))

	atrPct := 0.0
	if price > 0 {
		atrPct = atr / price * 100
	}

	volumeRatio := 0.0
	if volSMA > 0 {
		volumeRatio = volumes[n-1] / volSMA
	}
	volumeChangePct := 0.0
	if prev := volumes[n-2]; prev > 0 {
		volumeChangePct = (volumes[n-1] - prev) / prev * 100
	}

	support, resistance := keyLevels(highs, lows, cfg.LevelWindow)

	return feature.TimeframeState{
		Trend:           classifyTrend(price, emaFast, emaSlow),
		Volatility:      classifyVolatility(atrPct),
		ATRPct:          round2(atrPct),
		Momentum:        classifyMomentum(roc),
		RSI:             round2(rsi),
		MACDSignal:      classifyMACD(last(hist)),
		VolumeRatio:     round2(volumeRatio),
		VolumeChangePct: round2(volumeChangePct),
		Price:           price,
		Support:         support,
		Resistance:      resistance,
	}, nil
}

func classifyTrend(price, emaFast, emaSlow float64) string {
	switch {
	case price > emaFast && emaFast > emaSlow:
		return "uptrend"
	case price < emaFast && emaFast < emaSlow:
		return "downtrend"
	default:
		return "sideways"
	}
}

func classifyVolatility(atrPct float64) string {
	switch {
	case atrPct > 3:
		return "high"
	case atrPct > 1.5:
		return "medium"
	default:
		return "low"
	}
}

func classifyMomentum(roc float64) string {
	switch {
	case roc > 3:
		return "strong_up"
	case roc > 0.5:
		return "up"
	case roc < -3:
		return "strong_down"
	case roc < -0.5:
		return "down"
	default:
		return "flat"
	}
}

func classifyMACD(hist float64) string {
	switch {
	case hist > 0:
		return "bullish"
	case hist < 0:
		return "bearish"
	default:
		return "neutral"
	}
}

// keyLevels 取最近 window 根（不含当前K线）的最低/最高作为支撑/阻力。
func keyLevels(highs, lows []float64, window int) (support, resistance []float64) {
	n := len(highs)
	start := n - 1 - window
	if start < 0 {
		start = 0
	}
	lo := math.Inf(1)
	hi := math.Inf(-1)
	for i := start; i < n-1; i++ {
		if lows[i] < lo {
			lo = lows[i]
		}
		if highs[i] > hi {
			hi = highs[i]
		}
	}
	if !math.IsInf(lo, 1) {
		support = []float64{lo}
	}
	if !math.IsInf(hi, -1) {
		resistance = []float64{hi}
	}
	return support, resistance
}

func last(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"aitrader/internal/market"
)

func TestClassifyFundingRate(t *testing.T) {
	cases := []struct {
		name string
		rate float64
		want string
	}{
		{"强正费率", 0.0012, "extremely_positive"},
		{"轻微正费率", 0.0005, "positive"},
		{"零费率", 0, "neutral"},
		{"轻微负费率", -0.0005, "negative"},
		{"强负费率", -0.0015, "extremely_negative"},
		{"正边界归中性", 0.0003, "neutral"},
		{"负边界归中性", -0.0003, "neutral"},
		{"极端正边界归positive", 0.001, "positive"},
		{"极端负边界归negative", -0.001, "negative"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyFundingRate(tc.rate))
		})
	}
}

func TestClassifyLiquidity(t *testing.T) {
	book := func(bidQty, askQty float64, n int) *market.OrderBook {
		ob := &market.OrderBook{Bids: []market.BookLevel{}, Asks: []market.BookLevel{}}
		for i := 0; i < n; i++ {
			ob.Bids = append(ob.Bids, market.BookLevel{Price: 100, Qty: bidQty})
			ob.Asks = append(ob.Asks, market.BookLevel{Price: 101, Qty: askQty})
		}
		return ob
	}

	t.Run("订单簿缺失", func(t *testing.T) {
		assert.Equal(t, "unknown", ClassifyLiquidity(nil))
		assert.Equal(t, "unknown", ClassifyLiquidity(&market.OrderBook{Asks: []market.BookLevel{}}))
		assert.Equal(t, "unknown", ClassifyLiquidity(&market.OrderBook{Bids: []market.BookLevel{}}))
	})

	t.Run("有数据但深度为空", func(t *testing.T) {
		assert.Equal(t, "low", ClassifyLiquidity(&market.OrderBook{
			Bids: []market.BookLevel{},
			Asks: []market.BookLevel{},
		}))
	})

	t.Run("深度分档", func(t *testing.T) {
		// 前 5 档合计 30 → low
		assert.Equal(t, "low", ClassifyLiquidity(book(3, 3, 5)))
		// 合计 55 → medium
		assert.Equal(t, "medium", ClassifyLiquidity(book(5.5, 5.5, 5)))
		// 合计 130 → high
		assert.Equal(t, "high", ClassifyLiquidity(book(13, 13, 5)))
	})

	t.Run("边界值不升档", func(t *testing.T) {
		// 合计正好 50 → low，正好 100 → medium
		assert.Equal(t, "low", ClassifyLiquidity(book(5, 5, 5)))
		assert.Equal(t, "medium", ClassifyLiquidity(book(10, 10, 5)))
	})

	t.Run("只统计前5档", func(t *testing.T) {
		// 10 档每档 11，若全算则 220 → high；只算前 5 档每侧 55，总 110 仍是 high
		ob := book(11, 11, 10)
		assert.Equal(t, "high", ClassifyLiquidity(ob))
		// 第 6 档之后堆再多数量也不影响
		ob2 := book(4, 4, 5)
		ob2.Bids = append(ob2.Bids, market.BookLevel{Price: 99, Qty: 1000})
		assert.Equal(t, "low", ClassifyLiquidity(ob2))
	})
}

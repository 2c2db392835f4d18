package jsonutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractObject(t *testing.T) {
	t.Run("裸JSON", func(t *testing.T) {
		got, ok := ExtractObject(`{"action":"hold"}`)
		assert.True(t, ok)
		assert.Equal(t, `{"action":"hold"}`, got)
	})

	t.Run("带语言标记的围栏", func(t *testing.T) {
		raw := "```json\n{\"action\":\"hold\"}\n```"
		got, ok := ExtractObject(raw)
		assert.True(t, ok)
		assert.Equal(t, `{"action":"hold"}`, got)
	})

	t.Run("前后有说明文字", func(t *testing.T) {
		raw := `综合判断如下 {"action":"hold","note":"观望"} 请谨慎操作`
		got, ok := ExtractObject(raw)
		assert.True(t, ok)
		assert.Equal(t, `{"action":"hold","note":"观望"}`, got)
	})

	t.Run("嵌套对象取最外层", func(t *testing.T) {
		raw := `{"a":{"b":{"c":1}},"d":2}`
		got, ok := ExtractObject(raw)
		assert.True(t, ok)
		assert.Equal(t, raw, got)
	})

	t.Run("字符串里的大括号不计深度", func(t *testing.T) {
		raw := `{"reasoning":"注意 } 这个符号","action":"hold"}`
		got, ok := ExtractObject(raw)
		assert.True(t, ok)
		assert.Equal(t, raw, got)
	})

	t.Run("转义引号", func(t *testing.T) {
		raw := `{"reasoning":"他说\"等等\"","action":"hold"}`
		got, ok := ExtractObject(raw)
		assert.True(t, ok)
		assert.Equal(t, raw, got)
	})

	t.Run("无JSON", func(t *testing.T) {
		_, ok := ExtractObject("今天没有交易建议")
		assert.False(t, ok)
	})

	t.Run("未闭合对象", func(t *testing.T) {
		_, ok := ExtractObject(`{"action":"hold"`)
		assert.False(t, ok)
	})

	t.Run("空输入", func(t *testing.T) {
		_, ok := ExtractObject("   ")
		assert.False(t, ok)
	})
}

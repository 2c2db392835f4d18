package format

import (
	"fmt"
	"strings"
)

// Thousands 按千分位格式化数值，prec 为小数位数。
// 上下文文档会作为缓存/测试键使用，这里只依赖输入值，保证逐次渲染一致。
func Thousands(v float64, prec int) string {
	s := fmt.Sprintf("%.*f", prec, v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart := s
	fracPart := ""
	if idx := strings.IndexByte(s, '.'); idx != -1 {
		intPart, fracPart = s[:idx], s[idx:]
	}
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	b.WriteString(fracPart)
	return b.String()
}

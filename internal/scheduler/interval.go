package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseInterval 将 "15m"、"1h"、"4h"、"1d" 解析为 time.Duration。
func ParseInterval(interval string) (time.Duration, error) {
	s := strings.ToLower(strings.TrimSpace(interval))
	if len(s) < 2 {
		return 0, fmt.Errorf("非法周期: %q", interval)
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("非法周期: %q", interval)
	}
	switch s[len(s)-1] {
	case 'm':
		return time.Duration(n) * time.Minute, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	case 'w':
		return time.Duration(n) * 7 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("非法周期单位: %q", interval)
	}
}

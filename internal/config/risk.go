package config

import (
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"aitrader/internal/feature"
	"aitrader/internal/logger"
)

// 中文说明：
// RiskProvider 在决策时提供当前风险约束。配置文件被修改时热加载
// risk 段，其余配置仍需重启生效。实现 feature.RiskProvider。

type RiskProvider struct {
	mu      sync.RWMutex
	path    string
	current feature.RiskConstraints
	watcher *fsnotify.Watcher
}

func NewRiskProvider(path string, initial RiskConfig) *RiskProvider {
	return &RiskProvider{
		path:    path,
		current: initial.Constraints(),
	}
}

// Constraints 转换为核心层使用的约束值。
func (r RiskConfig) Constraints() feature.RiskConstraints {
	r = r.withDefaults()
	return feature.RiskConstraints{
		MaxRiskPerTradePct:   r.MaxRiskPerTradePct,
		MaxTotalPositionPct:  r.MaxTotalPositionPct,
		MaxLeverage:          r.MaxLeverage,
		MaxConsecutiveLosses: r.MaxConsecutiveLosses,
	}
}

func (p *RiskProvider) Risk() feature.RiskConstraints {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Watch 开始监听配置文件变更。path 为空时不监听。
func (p *RiskProvider) Watch() error {
	if p.path == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(p.path); err != nil {
		watcher.Close()
		return err
	}
	p.watcher = watcher
	go p.loop()
	return nil
}

func (p *RiskProvider) loop() {
	for {
		select {
		case ev, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			p.reload()
		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnf("风险配置监听出错: %v", err)
		}
	}
}

func (p *RiskProvider) reload() {
	v := viper.New()
	v.SetConfigFile(p.path)
	if err := v.ReadInConfig(); err != nil {
		logger.Warnf("重载风险配置失败，保持当前值: %v", err)
		return
	}
	var rc RiskConfig
	if err := v.UnmarshalKey("risk", &rc); err != nil {
		logger.Warnf("解析 risk 段失败，保持当前值: %v", err)
		return
	}
	next := rc.Constraints()
	p.mu.Lock()
	p.current = next
	p.mu.Unlock()
	logger.Infof("风险约束已热加载: max_leverage=%d max_risk=%g%%", next.MaxLeverage, next.MaxRiskPerTradePct)
}

func (p *RiskProvider) Close() {
	if p.watcher != nil {
		p.watcher.Close()
	}
}

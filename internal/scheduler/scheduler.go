package scheduler

import (
	"context"
	"time"

	"aitrader/internal/logger"
)

// Aligned 按 K 线收盘时间对齐触发决策任务。例如 interval=15m 时，
// 总在每刻钟边界（加 Offset）执行，保证喂给模型的是刚收盘的数据。
type Aligned struct {
	Interval       time.Duration
	Offset         time.Duration
	RunImmediately bool

	ctx   context.Context
	nowFn func() time.Time
}

func NewAligned(ctx context.Context, interval, offset time.Duration) *Aligned {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Aligned{
		Interval: interval,
		Offset:   offset,
		ctx:      ctx,
		nowFn:    time.Now,
	}
}

// Start 阻塞运行，ctx 取消后返回。
func (s *Aligned) Start(task func()) {
	if s == nil || task == nil {
		return
	}
	if s.Interval <= 0 {
		logger.Warnf("scheduler: interval=%s 非法，退出", s.Interval)
		return
	}
	if s.Offset < 0 {
		s.Offset = 0
	}
	if s.nowFn == nil {
		s.nowFn = time.Now
	}

	startAt := s.nowFn().UTC()
	logger.Infof("scheduler: 启动 interval=%s offset=%s run_immediately=%v", s.Interval, s.Offset, s.RunImmediately)

	if s.RunImmediately {
		task()
	}

	for {
		now := s.nowFn().UTC()
		nextClose := now.Truncate(s.Interval).Add(s.Interval)
		wakeAt := nextClose.Add(s.Offset)
		wait := wakeAt.Sub(now)

		logger.Infof("scheduler: 距离收盘=%s 下次执行=%s | uptime=%s",
			nextClose.Sub(now).Truncate(time.Second),
			wakeAt.Format(time.RFC3339),
			now.Sub(startAt).Truncate(time.Second))

		if wait <= 0 {
			task()
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-s.ctx.Done():
			timer.Stop()
			logger.Infof("scheduler: ctx 取消，退出")
			return
		case <-timer.C:
		}
		task()
	}
}

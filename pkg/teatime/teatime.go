package teatime

import "time"

// Config 描述每日下午茶窗口，时间均为本地时间
type Config struct {
	Hour                    int
	Minute                  int
	SubmissionWindowMinutes int
}

// DefaultConfig 默认 17:00 开窗，持续 10 分钟
func DefaultConfig() Config {
	return Config{
		Hour:                    17,
		Minute:                  0,
		SubmissionWindowMinutes: 10,
	}
}

// Evaluation 描述某一时刻相对窗口的位置
type Evaluation struct {
	WindowOpen           bool
	SecondsUntilNextOpen int
	OpensAt              time.Time
	ClosesAt             time.Time
}

// WindowFor 返回 now 所在日历日的窗口边界，区间为 [OpensAt, ClosesAt)
func WindowFor(now time.Time, cfg Config) (opensAt, closesAt time.Time) {
	opensAt = time.Date(now.Year(), now.Month(), now.Day(), cfg.Hour, cfg.Minute, 0, 0, now.Location())
	closesAt = opensAt.Add(time.Duration(cfg.SubmissionWindowMinutes) * time.Minute)
	return opensAt, closesAt
}

// Evaluate 纯函数判定窗口状态。开窗瞬间算开，关窗瞬间算关。
// 窗口已过时 SecondsUntilNextOpen 指向明天的开窗时刻。
func Evaluate(now time.Time, cfg Config) Evaluation {
	opensAt, closesAt := WindowFor(now, cfg)

	open := !now.Before(opensAt) && now.Before(closesAt)

	nextOpen := opensAt
	if !now.Before(opensAt) {
		nextOpen = opensAt.AddDate(0, 0, 1)
	}

	seconds := int(nextOpen.Sub(now) / time.Second)
	if seconds < 0 {
		seconds = 0
	}

	return Evaluation{
		WindowOpen:           open,
		SecondsUntilNextOpen: seconds,
		OpensAt:              opensAt,
		ClosesAt:             closesAt,
	}
}

// DateKey 返回提交记录使用的日历日键，格式 2006-01-02
func DateKey(now time.Time) string {
	return now.Format("2006-01-02")
}

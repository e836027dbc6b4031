package service

import "time"

const (
	defaultListLimit = 9
	maxListLimit     = 100
)

// Window 描述基于 startIndex/limit 的分页窗口。
type Window struct {
	StartIndex int
	Limit      int
}

func (w Window) normalize(fallback int) Window {
	if w.StartIndex < 0 {
		w.StartIndex = 0
	}
	if w.Limit <= 0 {
		w.Limit = fallback
	}
	if w.Limit > maxListLimit {
		w.Limit = maxListLimit
	}
	return w
}

func sortDirection(order string) string {
	if order == "asc" {
		return "asc"
	}
	return "desc"
}

// oneMonthAgo 返回用于统计“近一个月新增”的起始时间。
func oneMonthAgo(now time.Time) time.Time {
	return now.AddDate(0, -1, 0)
}

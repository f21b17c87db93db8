package dashboard

import "time"

// Interval は集計対象の半開区間 [Start, End) を表す。
// End がゼロ値の場合は上限なし(未来方向に開いた区間)を意味する。
type Interval struct {
	Start time.Time
	End   time.Time
}

// Contains は t が区間に含まれるかを返す。
func (iv Interval) Contains(t time.Time) bool {
	if t.Before(iv.Start) {
		return false
	}
	if iv.End.IsZero() {
		return true
	}
	return t.Before(iv.End)
}

// Windows はダッシュボード集計に使う3つの基準区間。
type Windows struct {
	Today Interval
	Week  Interval
	Month Interval
}

// ComputeWindows は基準時刻 now から当日・今週・今月の区間を導出する。
// 週の起点は直近の日曜日 0 時とする。区間境界はすべて now と同じ
// ロケーションの暦日で計算する。
func ComputeWindows(now time.Time) Windows {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	// time.Weekday は日曜が 0 なのでそのまま戻り日数になる
	weekStart := midnight.AddDate(0, 0, -int(now.Weekday()))

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	return Windows{
		Today: Interval{Start: midnight, End: midnight.AddDate(0, 0, 1)},
		Week:  Interval{Start: weekStart},
		Month: Interval{Start: monthStart},
	}
}

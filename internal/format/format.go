// Пакет format — чистые детерминированные преобразования данных
// дашборда в отображаемый вид. Без сети, без общего состояния.
package format

import (
	"fmt"
	"time"
)

// Категории серии дней практики (streak).
const (
	// TierGold — серия от 7 дней.
	TierGold = "gold"
	// TierSilver — серия от 3 дней.
	TierSilver = "silver"
	// TierNone — серия меньше 3 дней.
	TierNone = "none"
)

// Minutes форматирует минуты практики:
// до 60 — "Xm", ровно N часов — "Xh", иначе — "Xh Ym".
func Minutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	h := minutes / 60
	m := minutes % 60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// LastPractice форматирует дату последней практики относительно now:
// zero — "Never", сегодня — "Today", вчера — "Yesterday",
// меньше недели — "N days ago", иначе — dd.mm.yyyy.
func LastPractice(last, now time.Time) string {
	if last.IsZero() {
		return "Never"
	}

	// Сравниваем календарные дни, а не интервалы в часах
	y1, m1, d1 := last.Date()
	y2, m2, d2 := now.Date()
	day1 := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	days := int(day2.Sub(day1).Hours() / 24)

	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	default:
		return last.Format("02.01.2006")
	}
}

// StreakTier выбирает визуальную категорию серии по фиксированным порогам:
// ≥7 — gold, ≥3 — silver, иначе — none.
func StreakTier(streakDays int) string {
	switch {
	case streakDays >= 7:
		return TierGold
	case streakDays >= 3:
		return TierSilver
	default:
		return TierNone
	}
}

// ProgressWidth ограничивает ширину прогресс-бара диапазоном [0, 100].
// Отображаемое числовое значение прогресса остаётся исходным —
// ограничивается только ширина.
func ProgressWidth(progress float64) float64 {
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}

// Date форматирует дату в dd.mm.yyyy; zero — пустая строка.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02.01.2006")
}

package format

import (
	"testing"
	"time"
)

// TestMinutes проверяет форматирование минут практики.
func TestMinutes(t *testing.T) {
	cases := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{1, "1m"},
		{59, "59m"},
		{60, "1h"},
		{65, "1h 5m"},
		{120, "2h"},
		{125, "2h 5m"},
	}

	for _, tc := range cases {
		got := Minutes(tc.minutes)
		if got != tc.want {
			t.Errorf("Minutes(%d) = %q, ожидается %q", tc.minutes, got, tc.want)
		}
	}
}

// TestLastPractice проверяет относительное форматирование даты практики.
func TestLastPractice(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		last time.Time
		want string
	}{
		{"никогда", time.Time{}, "Never"},
		{"сегодня", now.Add(-2 * time.Hour), "Today"},
		{"вчера", now.AddDate(0, 0, -1), "Yesterday"},
		{"три дня назад", now.AddDate(0, 0, -3), "3 days ago"},
		{"шесть дней назад", now.AddDate(0, 0, -6), "6 days ago"},
		{"неделя назад — дата", now.AddDate(0, 0, -7), "08.03.2025"},
		{"месяц назад — дата", now.AddDate(0, -1, 0), "15.02.2025"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := LastPractice(tc.last, now)
			if got != tc.want {
				t.Errorf("LastPractice(%v) = %q, ожидается %q", tc.last, got, tc.want)
			}
		})
	}
}

// TestLastPractice_LateEveningYesterday проверяет границу календарного дня:
// вчерашний вечер остаётся "Yesterday" даже если прошло меньше 24 часов.
func TestLastPractice_LateEveningYesterday(t *testing.T) {
	now := time.Date(2025, time.March, 15, 8, 0, 0, 0, time.UTC)
	last := time.Date(2025, time.March, 14, 23, 30, 0, 0, time.UTC)

	if got := LastPractice(last, now); got != "Yesterday" {
		t.Errorf("LastPractice = %q, ожидается Yesterday", got)
	}
}

// TestStreakTier проверяет пороги выбора категории серии.
func TestStreakTier(t *testing.T) {
	cases := []struct {
		days int
		want string
	}{
		{0, TierNone},
		{2, TierNone},
		{3, TierSilver},
		{6, TierSilver},
		{7, TierGold},
		{30, TierGold},
	}

	for _, tc := range cases {
		if got := StreakTier(tc.days); got != tc.want {
			t.Errorf("StreakTier(%d) = %q, ожидается %q", tc.days, got, tc.want)
		}
	}
}

// TestProgressWidth проверяет ограничение ширины прогресс-бара.
func TestProgressWidth(t *testing.T) {
	cases := []struct {
		progress float64
		want     float64
	}{
		{0, 0},
		{42.5, 42.5},
		{100, 100},
		{150, 100}, // ширина ограничена, само значение 150 не искажается
		{-10, 0},
	}

	for _, tc := range cases {
		if got := ProgressWidth(tc.progress); got != tc.want {
			t.Errorf("ProgressWidth(%v) = %v, ожидается %v", tc.progress, got, tc.want)
		}
	}
}

// TestDate проверяет форматирование даты экзамена.
func TestDate(t *testing.T) {
	if got := Date(time.Time{}); got != "" {
		t.Errorf("Date(zero) = %q, ожидается пустая строка", got)
	}
	d := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	if got := Date(d); got != "01.06.2025" {
		t.Errorf("Date = %q, ожидается 01.06.2025", got)
	}
}

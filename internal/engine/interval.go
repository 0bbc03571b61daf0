package engine

import (
	"time"

	"hydration_monitor/internal/config"
)

// DrinkReminderInterval returns the time until the next drink reminder after
// sinceDrink without a drink. draw is a uniform value in [0, 1) that selects
// the jitter. The result never drops below DRINK_REMINDER_LIMIT.
func DrinkReminderInterval(cfg config.Config, sinceDrink time.Duration, draw float64) time.Duration {
	iv := BaseDrinkReminderInterval(cfg, sinceDrink) +
		time.Duration(jitterMinutes(cfg.RandomThresholdMinutes, draw))*time.Minute
	if floor := time.Duration(cfg.DrinkReminderLimit) * time.Minute; iv < floor {
		return floor
	}
	return iv
}

// BaseDrinkReminderInterval is the interval before jitter: it falls linearly
// from DRINK_REMINDER_BASE to DRINK_REMINDER_LIMIT over the ramp.
func BaseDrinkReminderInterval(cfg config.Config, sinceDrink time.Duration) time.Duration {
	frac := sinceDrink.Minutes() / float64(cfg.DrinkReminderRampMinutes)
	frac = clamp(frac, 0, 1)
	m := float64(cfg.DrinkReminderBase) - float64(cfg.DrinkReminderBase-cfg.DrinkReminderLimit)*frac
	return time.Duration(m * float64(time.Minute))
}

// jitterMinutes maps draw onto a whole number of minutes in [-r, r].
func jitterMinutes(r int, draw float64) int {
	if r <= 0 {
		return 0
	}
	n := int(draw * float64(2*r+1))
	if n < 0 {
		n = 0
	}
	if n > 2*r {
		n = 2 * r
	}
	return n - r
}

// inHydrationWindow reports whether now's local hour lies in
// [HYDRATION_START_HOUR, HYDRATION_END_HOUR). A start after the end wraps midnight.
func inHydrationWindow(cfg config.Config, now time.Time) bool {
	h, start, end := now.Hour(), cfg.HydrationStartHour, cfg.HydrationEndHour
	if start <= end {
		return h >= start && h < end
	}
	return h >= start || h < end
}

// hoursIntoWindow is how much of today's hydration window has already passed.
func hoursIntoWindow(cfg config.Config, now time.Time) float64 {
	start, end := cfg.HydrationStartHour, cfg.HydrationEndHour
	length := float64((end - start + 24) % 24)
	if inHydrationWindow(cfg, now) {
		return float64((now.Hour()-start+24)%24) + float64(now.Minute())/60
	}
	if start <= end && now.Hour() < start {
		return 0
	}
	return length
}

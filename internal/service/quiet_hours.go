// internal/service/quiet_hours.go
package service

import (
    "time"

    "github.com/torqueworks/garage-reminders/internal/model"
)

// IsQuietNow reports whether the given time falls inside the shop's quiet
// window. The window is start-inclusive, end-exclusive, and wraps past
// midnight when start > end (start=21, end=9 means quiet 9 PM through 9 AM).
// start == end disables the window.
func IsQuietNow(shop model.ShopConfig, at time.Time) bool {
    start := shop.QuietHoursStart
    end := shop.QuietHoursEnd
    if start == end {
        return false
    }

    hour := at.Hour()
    if start < end {
        return hour >= start && hour < end
    }
    return hour >= start || hour < end
}

// NextOpenTime returns the earliest time at or after `at` that is outside the
// shop's quiet window. Messages composed during quiet hours get scheduled here.
func NextOpenTime(shop model.ShopConfig, at time.Time) time.Time {
    if !IsQuietNow(shop, at) {
        return at
    }

    open := time.Date(at.Year(), at.Month(), at.Day(), shop.QuietHoursEnd, 0, 0, 0, at.Location())
    if !open.After(at) {
        open = open.Add(24 * time.Hour)
    }
    return open
}

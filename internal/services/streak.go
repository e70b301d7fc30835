package services

import (
	"time"

	"github.com/Dashrath-Patel/CareerVision.AI/internal/models"
)

// advanceStreak applies one day of activity at now:
// same day keeps the streak, the following day extends it, anything else restarts at 1.
// LastActivityDate always moves to now.
func advanceStreak(p *models.UserProfile, now time.Time) {
	today := dayStart(now)

	switch {
	case p.LastActivityDate == nil:
		p.CurrentStreak = 1
	case dayStart(*p.LastActivityDate).Equal(today):
	case dayStart(*p.LastActivityDate).Equal(today.AddDate(0, 0, -1)):
		p.CurrentStreak++
	default:
		p.CurrentStreak = 1
	}

	if p.CurrentStreak > p.LongestStreak {
		p.LongestStreak = p.CurrentStreak
	}

	at := now
	p.LastActivityDate = &at
}

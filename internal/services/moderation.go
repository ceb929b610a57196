package services

import (
	"log"
	"time"

	"github.com/craftfolio/craftfolio-backend/internal/database"
)

// RecordRateLimitViolation writes an audit row when a client trips a
// limiter. Enforcement itself lives in Redis; these rows exist for admin
// visibility only, so failures are logged and ignored by callers.
func RecordRateLimitViolation(ipAddress, routeGroup, path string) error {
	_, err := database.PostgresDB.Exec(`
		INSERT INTO rate_limit_violations (ip_address, route_group, path)
		VALUES ($1, $2, $3)
	`, ipAddress, routeGroup, path)
	return err
}

// RecordBlockedIP records that an IP was blocked and for how long.
func RecordBlockedIP(ipAddress, reason string, duration time.Duration) error {
	_, err := database.PostgresDB.Exec(`
		INSERT INTO blocked_ips (ip_address, reason, expires_at)
		VALUES ($1, $2, $3)
	`, ipAddress, reason, time.Now().Add(duration))
	return err
}

// ViolationCount returns the number of violations recorded for an IP in the
// last 24 hours.
func ViolationCount(ipAddress string) (int64, error) {
	var count int64
	err := database.PostgresDB.QueryRow(`
		SELECT COUNT(*) FROM rate_limit_violations
		WHERE ip_address = $1 AND created_at > $2
	`, ipAddress, time.Now().Add(-24*time.Hour)).Scan(&count)
	return count, err
}

// CleanupOldViolations removes violations older than the given age. Blocked
// IP rows are kept.
func CleanupOldViolations(hoursOld int) error {
	cutoff := time.Now().Add(-time.Duration(hoursOld) * time.Hour)
	_, err := database.PostgresDB.Exec(`
		DELETE FROM rate_limit_violations WHERE created_at < $1
	`, cutoff)
	return err
}

// StartViolationCleanup starts a background goroutine that periodically
// cleans up old violations.
func StartViolationCleanup(cleanupIntervalHours int, violationsAgeHours int) {
	if cleanupIntervalHours <= 0 {
		cleanupIntervalHours = 1
	}
	if violationsAgeHours <= 0 {
		violationsAgeHours = 6
	}

	go func() {
		ticker := time.NewTicker(time.Duration(cleanupIntervalHours) * time.Hour)
		defer ticker.Stop()

		if err := CleanupOldViolations(violationsAgeHours); err != nil {
			log.Printf("violation cleanup failed: %v", err)
		}

		for range ticker.C {
			if err := CleanupOldViolations(violationsAgeHours); err != nil {
				log.Printf("violation cleanup failed: %v", err)
			}
		}
	}()
}

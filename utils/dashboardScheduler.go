package utils

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"emirimo/config"
	"emirimo/database"
	"emirimo/models"
	"emirimo/models/learning"
	"emirimo/socket"

	"github.com/robfig/cron/v3"
)

// InitializeDashboardScheduler sets up the periodic admin dashboard jobs:
// a stats broadcast every 30 seconds (the refresh signal dashboards fall
// back to when socket events are dropped) and a nightly sweep of orphaned
// certificate files.
func InitializeDashboardScheduler(b socket.Broadcaster) *cron.Cron {
	log.Println("[DASHBOARD-SCHEDULER] Initializing dashboard scheduler...")

	c := cron.New()

	c.AddFunc("@every 30s", func() {
		BroadcastDashboardStats(b)
	})

	// Nightly at 3 AM
	c.AddFunc("0 3 * * *", func() {
		log.Println("[DASHBOARD-SCHEDULER] Running orphaned certificate sweep...")
		CleanupOrphanedCertificates()
	})

	c.Start()
	log.Println("[DASHBOARD-SCHEDULER] Dashboard scheduler started")
	return c
}

// CollectDashboardStats computes the admin dashboard counters
func CollectDashboardStats() map[string]interface{} {
	db := database.Database.Db

	var totalUsers, activeUsers, seekers, employers int64
	db.Model(&models.User{}).Where("is_deleted = ?", false).Count(&totalUsers)
	db.Model(&models.User{}).Where("is_deleted = ? AND status = ?", false, "active").Count(&activeUsers)
	db.Model(&models.User{}).Where("is_deleted = ? AND role = ?", false, "SEEKER").Count(&seekers)
	db.Model(&models.User{}).Where("is_deleted = ? AND role = ?", false, "EMPLOYER").Count(&employers)

	var openJobs, pendingJobs int64
	db.Model(&models.Job{}).Where("is_deleted = ? AND status = ?", false, "open").Count(&openJobs)
	db.Model(&models.Job{}).Where("is_deleted = ? AND status = ?", false, "pending").Count(&pendingJobs)

	var completions int64
	db.Model(&learning.CompletionRecord{}).Where("is_deleted = ?", false).Count(&completions)

	return map[string]interface{}{
		"total_users":  totalUsers,
		"active_users": activeUsers,
		"seekers":      seekers,
		"employers":    employers,
		"open_jobs":    openJobs,
		"pending_jobs": pendingJobs,
		"completions":  completions,
	}
}

// BroadcastDashboardStats pushes fresh counters to the admin room
func BroadcastDashboardStats(b socket.Broadcaster) {
	b.Broadcast(socket.Event{
		Type:    socket.EventDashboardStats,
		Payload: CollectDashboardStats(),
	})
}

// CleanupOrphanedCertificates removes local certificate files whose id no
// longer maps to a completion record. A request that died between artifact
// write and record insert leaves such files behind; they are harmless but
// accumulate.
func CleanupOrphanedCertificates() {
	db := database.Database.Db
	dir := config.AppConfig.CertificatesDir

	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[DASHBOARD-SCHEDULER] Error reading certificates dir: %v", err)
		}
		return
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".pdf") {
			continue
		}
		certID := strings.TrimSuffix(entry.Name(), ".pdf")

		// Only touch files old enough that an in-flight completion cannot
		// still be about to write their record
		info, err := entry.Info()
		if err != nil || time.Since(info.ModTime()) < 24*time.Hour {
			continue
		}

		var count int64
		db.Model(&learning.CompletionRecord{}).Where("certificate_id = ?", certID).Count(&count)
		if count > 0 {
			continue
		}

		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			log.Printf("[DASHBOARD-SCHEDULER] Error removing orphaned certificate %s: %v", certID, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		log.Printf("[DASHBOARD-SCHEDULER] Removed %d orphaned certificate files", removed)
	}
}

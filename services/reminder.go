package services

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/HungNM1486/be-iot-farm-ptit/models"
)

// ScanUpcomingTasks creates one care_task_reminder notification for every
// care task scheduled tomorrow, i.e. within [tomorrow 00:00, day after 00:00)
// relative to now. It returns the number of reminders created.
//
// Runs are not deduplicated: invoking this twice in the same window creates
// the reminders twice. The cron schedule is expected to account for that.
func ScanUpcomingTasks(db *gorm.DB, hub Broadcaster, now time.Time) (int, error) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	end := start.AddDate(0, 0, 1)

	var tasks []models.CareTask
	if err := db.Where("scheduled_date >= ? AND scheduled_date < ?", start, end).Find(&tasks).Error; err != nil {
		return 0, err
	}

	created := 0
	for _, task := range tasks {
		var plant models.Plant
		if err := db.First(&plant, task.PlantID).Error; err != nil {
			log.Printf("skipping reminder for task %d: plant %d not found", task.ID, task.PlantID)
			continue
		}

		taskID := task.ID
		n := &models.Notification{
			Type:       models.NotificationCareTaskReminder,
			Message:    fmt.Sprintf("Reminder: %q for plant %s is scheduled tomorrow", task.Name, plant.Name),
			LocationID: plant.LocationID,
			SourceType: "care_task",
			SourceID:   &taskID,
		}
		if err := CreateNotification(db, hub, n); err != nil {
			log.Printf("failed to create reminder for task %d: %v", task.ID, err)
			continue
		}
		created++
	}
	return created, nil
}

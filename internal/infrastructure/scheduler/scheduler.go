package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/completion"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/notification"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/task"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/pkg/config"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/pkg/logger"
	"go.uber.org/zap"
)

// Scheduler runs the periodic due-date reminder sweep. It notifies every
// volunteer holding a pending completion of a task whose due date falls
// inside the configured window.
type Scheduler struct {
	tasks       task.Service
	completions completion.Repository
	notifier    notification.DomainNotifier
	cfg         config.SchedulerConfig
	logger      *logger.Logger
	stop        chan struct{}
}

func NewScheduler(tasks task.Service, completions completion.Repository, notifier notification.DomainNotifier, cfg config.SchedulerConfig, logger *logger.Logger) *Scheduler {
	return &Scheduler{
		tasks:       tasks,
		completions: completions,
		notifier:    notifier,
		cfg:         cfg,
		logger:      logger,
		stop:        make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	if !s.cfg.Enabled {
		s.logger.Info("Reminder scheduler disabled")
		return
	}

	s.logger.Info("Reminder scheduler initialized",
		zap.Duration("interval", s.cfg.ReminderInterval),
		zap.Duration("due_soon_window", s.cfg.DueSoonWindow),
	)

	// Run immediately at startup
	s.runReminderSweep()

	go func() {
		ticker := time.NewTicker(s.cfg.ReminderInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.runReminderSweep()
			case <-s.stop:
				return
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	close(s.stop)
}

func (s *Scheduler) runReminderSweep() {
	ctx := context.Background()
	startTime := time.Now()

	dueSoon, err := s.tasks.TasksDueSoon(ctx, s.cfg.DueSoonWindow)
	if err != nil {
		s.logger.Error("Failed to load tasks due soon", zap.Error(err))
		return
	}

	var notified int
	for i := range dueSoon {
		t := &dueSoon[i]
		pending, err := s.completions.FindPendingForTask(ctx, t.ID)
		if err != nil {
			s.logger.Error("Failed to load pending completions",
				zap.String("task_id", t.ID.String()),
				zap.Error(err))
			continue
		}

		for _, c := range pending {
			data := map[string]string{
				"task_id":       t.ID.String(),
				"completion_id": c.ID.String(),
				"due_date":      t.DueDate.Format(time.RFC3339),
			}
			content := fmt.Sprintf("The task %q is due %s.", t.Title, t.DueDate.Format("Mon 2 Jan 15:04"))
			if err := s.notifier.NotifyVolunteer(ctx, c.VolunteerID, notification.TaskDueSoon,
				"Task due soon", content, data, "task", t.ID); err != nil {
				s.logger.Warn("Failed to send due-soon reminder",
					zap.String("volunteer_id", c.VolunteerID.String()),
					zap.Error(err))
				continue
			}
			notified++
		}
	}

	s.logger.Info("Reminder sweep completed",
		zap.Int("tasks_due_soon", len(dueSoon)),
		zap.Int("reminders_sent", notified),
		zap.Duration("duration", time.Since(startTime)),
	)
}

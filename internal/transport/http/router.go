package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/taskpulse/backend/internal/clock"
	"github.com/taskpulse/backend/internal/config"
	"github.com/taskpulse/backend/internal/core/ports"
	"github.com/taskpulse/backend/internal/core/services"
	"github.com/taskpulse/backend/internal/infrastructure/db"
	"github.com/taskpulse/backend/internal/infrastructure/logger"
	"github.com/taskpulse/backend/internal/infrastructure/notify"
	"github.com/taskpulse/backend/internal/transport/http/handlers"
	httpmw "github.com/taskpulse/backend/internal/transport/http/middleware"
	"gorm.io/gorm"
)

type RouterConfig struct {
	DB     *gorm.DB
	Logger *logger.Logger
	Config *config.Config
	Clock  clock.Clock
	// Notifier overrides the mail/log transport; the websocket hub is always added.
	Notifier ports.Notifier
}

// Components are the services behind the routes.
type Components struct {
	TaskRepo     ports.TaskRepository
	UserRepo     ports.UserRepository
	TimelineRepo ports.TimelineRepository
	Hub          *notify.Hub
	Tasks        ports.TaskService
	Reminders    *services.ReminderService
}

// Wire builds repositories and services without registering any route.
func Wire(cfg RouterConfig) *Components {
	clk := cfg.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}

	// Initialize repositories
	taskRepo := db.NewTaskRepository(cfg.DB, cfg.Logger)
	userRepo := db.NewUserRepository(cfg.DB, cfg.Logger)
	var timelineRepo ports.TimelineRepository
	if cfg.Config.Features.EnableTimeline {
		timelineRepo = db.NewTimelineRepository(cfg.DB, cfg.Logger)
	} else {
		timelineRepo = db.NewTimelineRepoStub(cfg.Logger)
	}

	hub := notify.NewHub(cfg.Logger)
	transport := cfg.Notifier
	if transport == nil {
		if cfg.Config.Mail.Enabled {
			transport = notify.NewMailer(cfg.Config.Mail, cfg.Logger)
		} else {
			transport = notify.NewLogNotifier(cfg.Logger)
		}
	}

	// Initialize services
	reminderService := services.NewReminderService(services.ReminderServiceConfig{
		TaskRepo:      taskRepo,
		UserRepo:      userRepo,
		Notifier:      notify.Multi{transport, hub},
		TimelineRepo:  timelineRepo,
		Clock:         clk,
		Logger:        cfg.Logger,
		Interval:      cfg.Config.Reminder.Interval,
		Window:        cfg.Config.Reminder.Window,
		RunOnStart:    cfg.Config.Reminder.RunOnStart,
		SubjectPrefix: cfg.Config.Reminder.SubjectPrefix,
		Signature:     cfg.Config.Reminder.Signature,
	})

	taskService := services.NewTaskService(services.TaskServiceConfig{
		Repository:   taskRepo,
		Upcoming:     reminderService,
		TimelineRepo: timelineRepo,
		Clock:        clk,
		Logger:       cfg.Logger,
	})

	return &Components{
		TaskRepo:     taskRepo,
		UserRepo:     userRepo,
		TimelineRepo: timelineRepo,
		Hub:          hub,
		Tasks:        taskService,
		Reminders:    reminderService,
	}
}

// SetupRoutes wires the services and registers their handlers on app. The
// reminder service is returned so the caller can schedule it.
func SetupRoutes(app *fiber.App, cfg RouterConfig) *services.ReminderService {
	comp := Wire(cfg)

	// Initialize handlers
	taskHandler := handlers.NewTaskHandler(comp.Tasks, cfg.Logger)
	reminderHandler := handlers.NewReminderHandler(comp.Reminders, comp.Hub, comp.UserRepo, cfg.Logger)
	userHandler := handlers.NewUserHandler(comp.UserRepo, cfg.Logger)
	timelineHandler := handlers.NewTimelineHandler(comp.TimelineRepo, comp.Tasks)

	ownerAuth := httpmw.OwnerAuth(cfg.Config)
	adminAuth := httpmw.AdminAuth(cfg.Config)

	// Live reminder stream
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws/reminders", ownerAuth, websocket.New(reminderHandler.Stream))

	// API v1 routes
	api := app.Group("/api/v1")

	// Task routes; static segments before /:id
	tasks := api.Group("/tasks", ownerAuth)
	tasks.Post("/", taskHandler.CreateTask)
	tasks.Get("/", taskHandler.GetTasks)
	tasks.Get("/count", taskHandler.CountTasks)
	tasks.Get("/overdue", taskHandler.GetOverdue)
	tasks.Get("/upcoming", taskHandler.GetUpcoming)
	tasks.Get("/roadmaps", taskHandler.GetRoadmaps)
	tasks.Post("/roadmaps", taskHandler.CreateRoadmap)
	tasks.Get("/:id", taskHandler.GetTask)
	tasks.Put("/:id", taskHandler.UpdateTask)
	tasks.Delete("/:id", taskHandler.DeleteTask)
	tasks.Post("/:id/complete", taskHandler.CompleteTask)
	tasks.Patch("/:id/status", taskHandler.SetStatus)
	tasks.Get("/:id/timeline", timelineHandler.GetTaskEvents)

	// Reminder routes
	reminders := api.Group("/reminders", adminAuth)
	reminders.Post("/scan", reminderHandler.Scan)

	// User contact routes
	users := api.Group("/users", adminAuth)
	users.Get("/:id", userHandler.GetUser)
	users.Put("/:id", userHandler.UpsertUser)

	// Timeline routes
	timeline := api.Group("/timeline", adminAuth)
	timeline.Get("/", timelineHandler.GetEvents)
	timeline.Get("/:id", timelineHandler.GetEvent)

	return comp.Reminders
}

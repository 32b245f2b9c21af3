package handlers

import (
	"context"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/taskpulse/backend/internal/core/ports"
	"github.com/taskpulse/backend/internal/core/services"
	"github.com/taskpulse/backend/internal/infrastructure/logger"
	"github.com/taskpulse/backend/internal/infrastructure/notify"
	httpmw "github.com/taskpulse/backend/internal/transport/http/middleware"
)

// Scanner runs a single reminder pass.
type Scanner interface {
	ScanAndRemind(ctx context.Context) services.ScanReport
}

type ReminderHandler struct {
	scanner Scanner
	hub     *notify.Hub
	users   ports.UserRepository
	logger  *logger.Logger
}

func NewReminderHandler(scanner Scanner, hub *notify.Hub, users ports.UserRepository, logger *logger.Logger) *ReminderHandler {
	return &ReminderHandler{scanner: scanner, hub: hub, users: users, logger: logger}
}

func (h *ReminderHandler) Scan(c *fiber.Ctx) error {
	h.logger.Infow("reminder_scan_requested", "client_ip", c.IP())
	report := h.scanner.ScanAndRemind(c.UserContext())
	return c.JSON(report)
}

// lockedConn serialises writes; a scan and a second scan may push at once.
type lockedConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (l *lockedConn) WriteJSON(v interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conn.WriteJSON(v)
}

// Stream subscribes the caller's address to live reminders until the socket
// closes.
func (h *ReminderHandler) Stream(c *websocket.Conn) {
	defer c.Close()

	owner, _ := c.Locals(httpmw.OwnerKey).(string)
	user, err := h.users.GetByID(context.Background(), owner)
	if err != nil || user == nil || user.Email == "" {
		h.logger.Warnw("ws_reminders_unknown_owner", "owner_id", owner, "error", err)
		_ = c.WriteJSON(fiber.Map{"error": "unknown user"})
		return
	}

	conn := &lockedConn{conn: c}
	h.hub.Subscribe(user.Email, conn)
	defer h.hub.Unsubscribe(user.Email, conn)
	h.logger.Infow("ws_reminders_connected", "owner_id", owner)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			h.logger.Debugw("ws_reminders_closed", "owner_id", owner, "error", err)
			return
		}
	}
}

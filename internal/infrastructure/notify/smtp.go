package notify

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/taskpulse/backend/internal/config"
	"github.com/taskpulse/backend/internal/infrastructure/logger"
	"github.com/wneessen/go-mail"
)

const defaultMailTimeout = 30 * time.Second

// Mailer delivers plain-text mail through an SMTP relay. Every Send opens
// its own connection, bounded by the caller's context and the configured
// timeout.
type Mailer struct {
	host     string
	port     int
	from     string
	username string
	password string
	tls      mail.TLSPolicy
	timeout  time.Duration
	logger   *logger.Logger
	now      func() time.Time
}

func NewMailer(cfg config.MailConfig, log *logger.Logger) *Mailer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultMailTimeout
	}
	return &Mailer{
		host:     cfg.Host,
		port:     cfg.Port,
		from:     cfg.From,
		username: cfg.Username,
		password: cfg.Password,
		tls:      tlsPolicy(cfg.TLSPolicy),
		timeout:  timeout,
		logger:   log,
		now:      time.Now,
	}
}

func tlsPolicy(name string) mail.TLSPolicy {
	switch name {
	case "none":
		return mail.NoTLS
	case "mandatory":
		return mail.TLSMandatory
	default:
		return mail.TLSOpportunistic
	}
}

func (m *Mailer) Send(ctx context.Context, address, subject, body string) error {
	if address == "" {
		return fmt.Errorf("smtp: empty recipient")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := m.message(address, subject, body)
	if err != nil {
		return err
	}
	client, err := mail.NewClient(m.host, m.options(ctx)...)
	if err != nil {
		return fmt.Errorf("smtp: client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		m.logger.Errorw("mail_send_failed", "to", address, "relay", fmt.Sprintf("%s:%d", m.host, m.port), "error", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("smtp: send to %s: %w", address, ctxErr)
		}
		return fmt.Errorf("smtp: send to %s: %w", address, err)
	}
	m.logger.Infow("mail_sent", "to", address, "subject", subject)
	return nil
}

func (m *Mailer) options(ctx context.Context) []mail.Option {
	opts := []mail.Option{
		mail.WithTLSPortPolicy(m.tls),
		mail.WithPort(m.port),
		mail.WithTimeout(m.timeout),
		mail.WithDialContextFunc(m.dialer(ctx)),
	}
	if m.username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.username),
			mail.WithPassword(m.password),
		)
	}
	return opts
}

// dialer ties the relay connection to the Send context: its deadline
// becomes the socket deadline and cancellation closes the socket, so a
// relay that stops talking cannot block the caller.
func (m *Mailer) dialer(sendCtx context.Context) mail.DialContextFunc {
	return func(dialCtx context.Context, network, addr string) (net.Conn, error) {
		d := net.Dialer{Timeout: m.timeout}
		conn, err := d.DialContext(dialCtx, network, addr)
		if err != nil {
			return nil, err
		}
		deadline := time.Now().Add(m.timeout)
		if dl, ok := sendCtx.Deadline(); ok && dl.Before(deadline) {
			deadline = dl
		}
		if err := conn.SetDeadline(deadline); err != nil {
			conn.Close()
			return nil, err
		}
		stop := context.AfterFunc(sendCtx, func() { conn.Close() })
		return &boundConn{Conn: conn, stop: stop}, nil
	}
}

type boundConn struct {
	net.Conn
	stop func() bool
}

func (c *boundConn) Close() error {
	c.stop()
	return c.Conn.Close()
}

func (m *Mailer) message(to, subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return nil, fmt.Errorf("smtp: sender %q: %w", m.from, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("smtp: recipient %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetDateWithValue(m.now())
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}

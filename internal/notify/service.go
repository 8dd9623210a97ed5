package notify

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"longview/internal/config"
	"longview/internal/logging"
	"longview/internal/lvdate"
)

// Notifier is the capability the generator needs from a notification
// backend. Service is the stock implementation; deployments can supply
// their own.
type Notifier interface {
	// Notifications returns every ledger entry.
	Notifications() []Notification
	// Pending returns the entries due in month now that have not been sent.
	Pending(now lvdate.Date) []Notification
	// Notify delivers one entry and records the outcome.
	Notify(ctx context.Context, n Notification) error
	// Persist writes the recorded outcomes back to the ledger.
	Persist(ctx context.Context) error
}

// Report summarizes one delivery pass.
type Report struct {
	Pending int
	Sent    int
	Failed  int
}

// Service delivers ledger notifications through a Sender.
type Service struct {
	ledger         Ledger
	sender         Sender
	notifications  []Notification
	fiveDigitYears bool
	clock          func() time.Time
	logger         *slog.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the clock used for sent stamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithFiveDigitYears zero pads the year in sent stamps.
func WithFiveDigitYears(enabled bool) Option {
	return func(s *Service) { s.fiveDigitYears = enabled }
}

// NewService loads the ledger and returns a ready service.
func NewService(ctx context.Context, ledger Ledger, sender Sender, opts ...Option) (*Service, error) {
	if sender == nil {
		sender = Discard{}
	}
	s := &Service{
		ledger:         ledger,
		sender:         sender,
		fiveDigitYears: true,
		clock:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "notify")

	notifications, err := ledger.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.notifications = notifications
	return s, nil
}

// Open builds the ledger and sender described by cfg. The caller closes the
// returned ledger.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Service, Ledger, error) {
	n := cfg.Notify
	var (
		ledger Ledger
		err    error
	)
	switch n.Ledger {
	case config.LedgerSQLite:
		ledger, err = OpenSQLiteLedger(ctx, n.DataFile)
		if err != nil {
			return nil, nil, err
		}
	default:
		ledger = NewCSVLedger(n.DataFile, cfg.Timeline.FiveDigitYears)
	}

	svc, err := NewService(ctx, ledger, SenderFromConfig(cfg),
		WithLogger(logger),
		WithFiveDigitYears(cfg.Timeline.FiveDigitYears),
	)
	if err != nil {
		_ = ledger.Close()
		return nil, nil, err
	}
	return svc, ledger, nil
}

// SenderFromConfig returns the sender selected by notify.sender.
func SenderFromConfig(cfg *config.Config) Sender {
	n := cfg.Notify
	switch n.Sender {
	case config.SenderSMTP:
		return NewSMTPSender(n.SMTPServer, n.From, n.Subject, n.SMTPUsername, n.SMTPPassword)
	case config.SenderNtfy:
		return NewNtfySender(n.NtfyTopic, n.NtfyToken, n.Subject, time.Duration(n.RequestTimeout)*time.Second)
	default:
		return Discard{}
	}
}

// Notifications returns a copy of every ledger entry.
func (s *Service) Notifications() []Notification {
	return slices.Clone(s.notifications)
}

// Pending returns the entries dated now whose status does not start with "Sent".
func (s *Service) Pending(now lvdate.Date) []Notification {
	var out []Notification
	for _, n := range s.notifications {
		if n.Date.Equal(now) && !n.Sent() {
			out = append(out, n)
		}
	}
	return out
}

// Notify sends n. On success the entry is stamped with SentStamp; on failure
// it is marked StatusRetrying so the next run tries again, and the error is
// returned.
func (s *Service) Notify(ctx context.Context, n Notification) error {
	if n.Index < 0 || n.Index >= len(s.notifications) {
		return fmt.Errorf("notification index %d out of range", n.Index)
	}
	if err := s.sender.Send(ctx, n); err != nil {
		s.notifications[n.Index].Status = StatusRetrying
		return err
	}
	s.notifications[n.Index].Status = SentStamp(s.clock(), s.fiveDigitYears)
	return nil
}

// Persist writes every entry back to the ledger.
func (s *Service) Persist(ctx context.Context) error {
	if err := s.ledger.Save(ctx, s.notifications); err != nil {
		return fmt.Errorf("persist notification ledger: %w", err)
	}
	return nil
}

// Deliver sends every pending notification through n and persists the
// ledger. Delivery failures are logged and counted, never returned; only a
// ledger write failure is an error.
func Deliver(ctx context.Context, n Notifier, now lvdate.Date, logger *slog.Logger) (Report, error) {
	logger = logging.NewComponentLogger(logger, "notify")
	pending := n.Pending(now)
	report := Report{Pending: len(pending)}
	for _, note := range pending {
		if err := n.Notify(ctx, note); err != nil {
			report.Failed++
			logging.WarnWithContext(logger, "notification delivery failed; will retry next run", "notification_failed",
				logging.Int("index", note.Index),
				logging.String("whom", note.Whom),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check notify sender settings and connectivity"),
				logging.String(logging.FieldImpact, "recipient not reminded this run"),
			)
			continue
		}
		report.Sent++
		logger.Info("notification sent",
			logging.Int("index", note.Index),
			logging.String("whom", note.Whom),
			logging.String(logging.FieldEventType, "notification_sent"),
		)
	}
	if err := n.Persist(ctx); err != nil {
		return report, err
	}
	return report, nil
}

// LastNotified returns the latest-dated entry that was sent.
func LastNotified(notifications []Notification) (Notification, bool) {
	sorted := sortedByDate(notifications)
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].Sent() {
			return sorted[i], true
		}
	}
	return Notification{}, false
}

// NextUpcoming returns the earliest-dated entry not yet sent.
func NextUpcoming(notifications []Notification) (Notification, bool) {
	for _, n := range sortedByDate(notifications) {
		if !n.Sent() {
			return n, true
		}
	}
	return Notification{}, false
}

func sortedByDate(notifications []Notification) []Notification {
	sorted := slices.Clone(notifications)
	slices.SortStableFunc(sorted, func(a, b Notification) int {
		return a.Date.Compare(b.Date)
	})
	return sorted
}

// Import copies entries into ledger, renumbering positions from zero.
func Import(ctx context.Context, ledger Ledger, notifications []Notification) error {
	renumbered := make([]Notification, len(notifications))
	for i, n := range notifications {
		n.Index = i
		if strings.TrimSpace(n.Status) == "" {
			n.Status = StatusUnsent
		}
		renumbered[i] = n
	}
	return ledger.Save(ctx, renumbered)
}

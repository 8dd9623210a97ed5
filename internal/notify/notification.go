package notify

import (
	"fmt"
	"strings"
	"time"

	"longview/internal/lvdate"
	"longview/internal/textutil"
)

// Delivery status values stored in the ledger. Successful deliveries are
// stamped with SentStamp instead.
const (
	StatusUnsent   = "Unsent"
	StatusRetrying = "Retrying"
	sentPrefix     = "Sent"
)

// Notification is one ledger entry.
type Notification struct {
	// Index is the entry's position in the ledger.
	Index int
	// Row is the timeline row the notification is drawn on; empty for none.
	Row    string
	Date   lvdate.Date
	Whom   string
	Text   string
	Status string
}

// Sent reports whether the notification was delivered successfully.
func (n Notification) Sent() bool {
	return strings.HasPrefix(n.Status, sentPrefix)
}

// Recipients splits Whom on commas.
func (n Notification) Recipients() []string {
	var out []string
	for _, part := range strings.Split(n.Whom, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// SentStamp returns the status recorded after a successful delivery on day,
// e.g. "Sent June 05, 02004".
func SentStamp(day time.Time, fiveDigitYears bool) string {
	if fiveDigitYears {
		return fmt.Sprintf("%s %s %02d, %05d", sentPrefix, day.Month(), day.Day(), day.Year())
	}
	return fmt.Sprintf("%s %s %02d, %d", sentPrefix, day.Month(), day.Day(), day.Year())
}

// BuildMessage renders the RFC 5322 mail for n with a wrapped body.
func BuildMessage(from, subject string, n Notification) []byte {
	return []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		from, n.Whom, subject, textutil.Wrap(n.Text, textutil.DefaultWrapWidth)))
}

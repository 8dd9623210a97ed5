package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/smtp"
	"strings"
	"time"

	"longview/internal/textutil"
)

const userAgent = "longview/1.0"

// Sender delivers a single notification.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// ErrNoRecipients is returned when a notification has an empty whom field.
var ErrNoRecipients = errors.New("notification has no recipients")

// SMTPSender mails notifications through an SMTP relay.
type SMTPSender struct {
	Server   string
	From     string
	Subject  string
	Username string
	Password string

	// sendMail is smtp.SendMail; tests replace it.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender returns a sender for server ("host:port"). Authentication is
// used only when username is set.
func NewSMTPSender(server, from, subject, username, password string) *SMTPSender {
	return &SMTPSender{
		Server:   server,
		From:     from,
		Subject:  subject,
		Username: username,
		Password: password,
		sendMail: smtp.SendMail,
	}
}

// Send mails n to every address in its whom field.
func (s *SMTPSender) Send(ctx context.Context, n Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	to := n.Recipients()
	if len(to) == 0 {
		return ErrNoRecipients
	}
	var auth smtp.Auth
	if s.Username != "" {
		host, _, err := net.SplitHostPort(s.Server)
		if err != nil {
			host = s.Server
		}
		auth = smtp.PlainAuth("", s.Username, s.Password, host)
	}
	send := s.sendMail
	if send == nil {
		send = smtp.SendMail
	}
	if err := send(s.Server, auth, s.From, to, BuildMessage(s.From, s.Subject, n)); err != nil {
		return fmt.Errorf("send mail via %s: %w", s.Server, err)
	}
	return nil
}

// NtfySender publishes notifications to an ntfy topic URL.
type NtfySender struct {
	endpoint string
	token    string
	title    string
	client   *http.Client
}

// NewNtfySender returns a sender posting to topic. A zero timeout means 10s.
func NewNtfySender(topic, token, title string, timeout time.Duration) *NtfySender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NtfySender{
		endpoint: strings.TrimSpace(topic),
		token:    strings.TrimSpace(token),
		title:    title,
		client:   &http.Client{Timeout: timeout},
	}
}

// Send posts the notification text; recipients become ntfy tags.
func (n *NtfySender) Send(ctx context.Context, note Notification) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(note.Text))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if n.title != "" {
		req.Header.Set("Title", n.title)
	}
	tags := []string{"longview", "reminder"}
	if note.Row != "" {
		tags = append(tags, "row-"+textutil.Tag(note.Row))
	}
	req.Header.Set("Tags", strings.Join(tags, ","))
	if n.token != "" {
		req.Header.Set("Authorization", "Bearer "+n.token)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Discard is a Sender that accepts every notification without delivering it.
type Discard struct{}

// Send implements Sender.
func (Discard) Send(context.Context, Notification) error { return nil }

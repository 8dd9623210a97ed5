// Package notify implements the "remember and remind" notifier.
//
// A Ledger stores dated notifications together with their delivery status
// (CSV file or SQLite database). A Sender delivers one notification (SMTP
// mail, an ntfy topic, or nothing). Service ties the two together: it
// selects the notifications due this month, sends them, stamps the result,
// and writes the ledger back. Deployments that need different behaviour
// supply their own Notifier.
package notify

// Package textutil provides small text helpers shared by the notifier and the
// page renderer: paragraph wrapping for mail bodies, image names derived from
// row identifiers, and ntfy tags.
package textutil

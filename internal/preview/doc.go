// Package preview serves a published timeline directory over HTTP for
// local viewing. It is a development aid, not a production web server.
package preview

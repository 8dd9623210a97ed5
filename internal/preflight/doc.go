// Package preflight provides readiness checks for the files, directories
// and delivery endpoints a Long View build depends on.
//
// These checks run in two contexts:
//   - The workflow calls RunAll before staging a build. If any check fails
//     the build stops before touching the output directory.
//   - The CLI "longview check" command prints every result as a table.
//
// Notification checks run only when notify.enabled is set.
package preflight

// Package fileutil holds file copy and comparison helpers used when staging
// and publishing generated output.
package fileutil

// Package publish owns the output directory.
//
// A build renders into a staging directory created next to the output
// directory. Only after every file has been written does UpdateTree fold the
// staging tree into the output, replacing changed files one at a time and
// removing files that are no longer generated. A failed build discards its
// staging directory and leaves the published tree untouched.
//
// A Lock next to the output directory keeps concurrent builds (for example
// a watch loop and a manual build) from publishing over each other.
package publish

// Package dataset reads the event data file that feeds the timeline.
//
// The file is comma separated. A record whose first field is non-empty
// starts a new row: id, start, end, link, title, then any number of extra
// arguments that popup templates may reference. A record whose first field
// is empty is a subitem of the row above it: date, link, extra arguments.
// An end date of "?" means the row is ongoing and ends at the resolved now
// date.
//
// Malformed records abort loading with a RecordError naming the file and
// line.
package dataset

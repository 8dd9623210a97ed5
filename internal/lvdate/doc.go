// Package lvdate implements the month-resolution date used throughout the
// timeline: an integer count of months since year zero, negative for dates
// before the common era.
//
// Dates parse from the "YYYY[/M][ BC]" form used by the data and
// configuration files and format back to the same shape, optionally padded to
// five-digit years. Arithmetic always returns another Date so callers never
// fall back to raw integers by accident. An end date may carry the ongoing
// flag, in which case it formats as "?".
package lvdate

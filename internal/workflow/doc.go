// Package workflow runs one Long View build from configuration to a
// published output directory.
//
// A Runner resolves the current month, reads the event and interest files,
// delivers due notifications and attaches them to their rows, places the
// configured sections, drops rows whose dates fall outside the layout,
// plans the navigation strip, renders everything into a staging directory
// beside the output, and finally folds the stage into the output directory
// file by file. The output directory is only touched after every earlier
// step has succeeded; any structural failure discards the stage.
//
// Failures are tagged with ErrInput, ErrConfiguration, ErrRender, ErrNotify
// or ErrPublish so callers can classify them with errors.Is.
package workflow

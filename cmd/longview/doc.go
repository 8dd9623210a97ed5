// Package main hosts the Long View CLI entrypoint and command graph.
//
// The Cobra-based command tree loads configuration once, builds a run
// logger, and hands off to the internal packages: build runs the workflow,
// layout prints the computed geometry, notify manages the notification
// ledger, check runs the preflight checks, watch rebuilds on input changes,
// serve previews the published tree, and slice renders standalone sliced
// images.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main

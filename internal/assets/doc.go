// Package assets prepares the static asset directory before the worker pool
// binds its socket.
//
// Two strategies are available. [Syncer] mirrors a source directory into the
// target directory, copying only files whose content changed. [Command] runs
// an external collect-static style command. [New] selects and orders them
// from configuration. Preparation is one-shot and any failure is fatal to the
// boot sequence.
package assets

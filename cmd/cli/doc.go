// Package cli constructs the mtracker command-line interface, wiring the Cobra
// command hierarchy, the layered configuration loader and zap logging around the
// mark and scan tools. It also owns the mapping from command errors to process
// exit codes.
package cli

// Package mark implements the interactive Marker Writer: it asks for a resource
// category, name and identity, then records the target directory in the
// marker file stored there, merging with any record already using the identity.
//
// CommandBuilder wires the Cobra command; Service drives the workflow.
package mark

// Package marker implements the M-Tracker marker file: the record model, the
// tolerant loader, the atomic writer, and the reconciliation rules that grow a
// resource's path history when it is re-marked or re-discovered by a scan.
package marker

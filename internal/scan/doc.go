// Package scan walks a directory tree, reports every marker file it finds and
// appends the scanned location to each tracked resource's path history.
package scan

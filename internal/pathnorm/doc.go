// Package pathnorm converts host filesystem paths into the canonical form that
// is recorded in marker path histories.
//
// The only translation currently supported rewrites drives mounted by the
// Windows Subsystem for Linux (/mnt/<drive>/...) into Windows drive-letter
// paths, so a resource scanned from WSL and from Windows records one location.
package pathnorm

// Package category holds the resource category catalog and the interactive
// selection of a category code for a new marker.
//
// The catalog is an immutable value: the common codes with their stock
// descriptions, the code that requests a custom category, and the reserved
// numeric range that custom codes may not use.
package category

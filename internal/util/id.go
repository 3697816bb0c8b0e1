package util

import "github.com/rs/xid"

// NewID returns a globally unique, time-sortable identifier. IDs are never
// reused within or across processes.
func NewID(prefix string) string {
	id := xid.New().String()
	if prefix == "" {
		return id
	}
	return prefix + "_" + id
}

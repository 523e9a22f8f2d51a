// Package fileutil holds the filesystem primitives the organizer builds on:
// verified copies that keep mode and modification time, recursive tree
// copies, and moves that fall back to copy plus delete across filesystems.
package fileutil

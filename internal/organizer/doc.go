// Package organizer writes identified movie folders into their canonical
// "Title (Year) [tmdbid-N]" layout.
//
// Organizing happens in two phases. Plan renders the canonical names and
// works out every filesystem step, refusing with a ConflictError when a
// destination already holds a different file. Organize then applies the plan
// by moving or copying entries, deleting unrecognized ones when asked, and
// removing the emptied source folder in move mode. Paths that differ only in
// Unicode composition are treated as already in place and only warned about.
package organizer

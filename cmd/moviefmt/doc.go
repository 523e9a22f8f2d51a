// Package main hosts the moviefmt CLI.
//
// The root command takes an input directory and renames every movie folder
// inside it into the "Title (Year) [tmdbid-N]" layout. Subcommands scaffold
// and check the configuration file and list the run journal. Flags override
// the configuration file, which overrides built-in defaults.
package main

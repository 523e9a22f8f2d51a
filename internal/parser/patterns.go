package parser

import (
	"fmt"
	"regexp"
)

const (
	// DefaultFolderPattern captures the title greedily up to the last
	// parenthesized four digit year, plus an optional tmdbid tag. Anything
	// after that is ignored.
	DefaultFolderPattern = `^(?P<title>.+)\s\((?P<year>[0-9]{4})\)(?:\s\[tmdbid-(?P<tmdbid>[0-9]+)\])?.*$`
	// DefaultFilePattern captures the label after the last " - " separator
	// (optionally bracketed) and the final dot suffix.
	DefaultFilePattern = `^(?:.*\s-\s\[?(?P<label>[^\[\]]+?)\]?|.*?)\.(?P<extension>[\pL\pN_]+)$`
)

// Patterns holds the compiled folder and file expressions.
type Patterns struct {
	folder *regexp.Regexp
	file   *regexp.Regexp
}

// DefaultPatterns returns the built-in folder and file expressions.
func DefaultPatterns() Patterns {
	return Patterns{
		folder: regexp.MustCompile(DefaultFolderPattern),
		file:   regexp.MustCompile(DefaultFilePattern),
	}
}

// CompilePatterns compiles custom expressions. The folder expression must
// define the title and year groups (tmdbid is optional); the file expression
// must define extension (label is optional).
func CompilePatterns(folderExpr, fileExpr string) (Patterns, error) {
	folder, err := regexp.Compile(folderExpr)
	if err != nil {
		return Patterns{}, fmt.Errorf("compile folder pattern: %w", err)
	}
	for _, group := range []string{"title", "year"} {
		if folder.SubexpIndex(group) < 0 {
			return Patterns{}, fmt.Errorf("folder pattern must define the %q group", group)
		}
	}
	file, err := regexp.Compile(fileExpr)
	if err != nil {
		return Patterns{}, fmt.Errorf("compile file pattern: %w", err)
	}
	if file.SubexpIndex("extension") < 0 {
		return Patterns{}, fmt.Errorf("file pattern must define the %q group", "extension")
	}
	return Patterns{folder: folder, file: file}, nil
}

func (p Patterns) valid() bool {
	return p.folder != nil && p.file != nil
}

func namedGroups(re *regexp.Regexp, value string) (map[string]string, bool) {
	match := re.FindStringSubmatch(value)
	if match == nil {
		return nil, false
	}
	groups := make(map[string]string, len(match))
	for i, name := range re.SubexpNames() {
		if name != "" && i < len(match) {
			groups[name] = match[i]
		}
	}
	return groups, true
}

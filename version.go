package notekeep

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var rawVersion string

// Version is the release recorded in the VERSION file, without surrounding whitespace.
var Version = strings.TrimSpace(rawVersion)

package notekeep_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/notekeep"
)

func TestVersion(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^\d+\.\d+\.\d+(-[0-9A-Za-z.]+)?$`), notekeep.Version)
}

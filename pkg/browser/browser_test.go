package browser

import (
	"regexp"
	"testing"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrphanPatternMatchesOnlyRodProfiles(t *testing.T) {
	re, err := regexp.Compile(orphanPattern())
	require.NoError(t, err)

	launched := launcher.New().FormatArgs()
	assert.True(t, matchesAny(re, launched), "launcher args: %v", launched)

	personal := []string{"/usr/bin/google-chrome", "--user-data-dir=/home/dev/.config/google-chrome", "--restore-last-session"}
	assert.False(t, matchesAny(re, personal))
	assert.False(t, re.MatchString("/usr/bin/chromium --type=renderer"))
}

func matchesAny(re *regexp.Regexp, args []string) bool {
	for _, arg := range args {
		if re.MatchString(arg) {
			return true
		}
	}
	return false
}

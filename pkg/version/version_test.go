package version_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/yearcal/pkg/version"
)

func TestString(t *testing.T) {
	t.Parallel()

	s := version.String()
	assert.Contains(t, s, "yearcal ")
	assert.Contains(t, s, "commit "+version.Commit)
	assert.NotEmpty(t, version.Current())
}

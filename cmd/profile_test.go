package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Rorical/diabeguide/internal/config"
)

func TestValidateBaseURL(t *testing.T) {
	assert.NoError(t, validateBaseURL("http://127.0.0.1:5000"))
	assert.NoError(t, validateBaseURL("https://diabeguide.example.org/"))
	assert.Error(t, validateBaseURL("127.0.0.1:5000/api"))
	assert.Error(t, validateBaseURL(""))
}

func TestValidateTimeout(t *testing.T) {
	assert.NoError(t, validateTimeout(""))
	assert.NoError(t, validateTimeout("90s"))
	assert.Error(t, validateTimeout("-1s"))
	assert.Error(t, validateTimeout("soon"))
}

func TestSortedProfileNames(t *testing.T) {
	cfg := &config.Config{Profiles: map[string]config.Profile{"work": {}, "clinic": {}, "default": {}}}
	assert.Equal(t, []string{"clinic", "default", "work"}, sortedProfileNames(cfg, ""))
	assert.Equal(t, []string{"clinic", "work"}, sortedProfileNames(cfg, "default"))
}

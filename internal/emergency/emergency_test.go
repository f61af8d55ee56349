package emergency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLRoundTrip(t *testing.T) {
	for _, s := range Symptoms() {
		msg, err := MessageFromURL(URL(s))
		require.NoError(t, err)
		assert.Equal(t, s.Message(), msg)
	}
	assert.Equal(t, "/chatbot?message=Symptoms+of+high+sugar+level", URL(High))
}

func TestMessageFromURL(t *testing.T) {
	msg, err := MessageFromURL("http://127.0.0.1:5000/chatbot?message=Symptoms of low sugar level")
	require.NoError(t, err)
	assert.Equal(t, "Symptoms of low sugar level", msg)

	msg, err = MessageFromURL("/chatbot")
	require.NoError(t, err)
	assert.Empty(t, msg)

	_, err = MessageFromURL("http://[::1")
	assert.Error(t, err)
}

func TestParseSymptom(t *testing.T) {
	s, err := ParseSymptom(" LOW ")
	require.NoError(t, err)
	assert.Equal(t, Low, s)
	assert.Equal(t, "Low sugar", s.Title())

	_, err = ParseSymptom("medium")
	assert.Error(t, err)
}

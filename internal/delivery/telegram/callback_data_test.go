package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCallback(t *testing.T) {
	tests := []struct {
		data   string
		action string
		params []string
	}{
		{"answer:12:3", actionAnswer, []string{"12", "3"}},
		{"study:quit", actionStudy, []string{"quit"}},
		{"study", actionStudy, []string{}},
		{"", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			cd := decodeCallback(tt.data)
			assert.Equal(t, tt.action, cd.Action)
			assert.Equal(t, tt.params, cd.Params)
			assert.Equal(t, tt.data, cd.Raw)
		})
	}
}

func TestAnswerCallbackRoundTrip(t *testing.T) {
	data := buildAnswerCallback(4021, 2)
	assert.Equal(t, "answer:4021:2", data)
	assert.LessOrEqual(t, len(data), 64)

	wordID, option, err := parseAnswerCallback(decodeCallback(data))
	require.NoError(t, err)
	assert.Equal(t, int64(4021), wordID)
	assert.Equal(t, 2, option)
}

func TestParseAnswerCallback_Malformed(t *testing.T) {
	for _, data := range []string{
		"answer",
		"answer:1",
		"answer:x:1",
		"answer:1:y",
		"answer:1:-1",
		"answer:1:2:3",
		"study:1:2",
	} {
		t.Run(data, func(t *testing.T) {
			_, _, err := parseAnswerCallback(decodeCallback(data))
			assert.ErrorIs(t, err, errMalformedCallback)
		})
	}
}

func TestBuildStudyCallback(t *testing.T) {
	assert.Equal(t, "study:start", buildStudyCallback(studyStart))
	assert.Equal(t, "study:quit", buildStudyCallback(studyQuit))
}

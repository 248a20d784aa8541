package telegram

import (
	"errors"
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionAnswer = "answer"
	actionStudy  = "study"
)

// Study sub-actions.
const (
	studyStart = "start"
	studyQuit  = "quit"
)

var errMalformedCallback = errors.New("malformed callback data")

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// buildAnswerCallback builds callback data for picking an option of the
// question about wordID.
func buildAnswerCallback(wordID int64, option int) string {
	return callbackData{
		Action: actionAnswer,
		Params: []string{
			strconv.FormatInt(wordID, 10),
			strconv.Itoa(option),
		},
	}.encode()
}

// parseAnswerCallback extracts the word ID and option index of an answer callback.
func parseAnswerCallback(cd callbackData) (wordID int64, option int, err error) {
	if cd.Action != actionAnswer || len(cd.Params) != 2 {
		return 0, 0, errMalformedCallback
	}

	wordID, err = strconv.ParseInt(cd.Params[0], 10, 64)
	if err != nil {
		return 0, 0, errMalformedCallback
	}
	option, err = strconv.Atoi(cd.Params[1])
	if err != nil || option < 0 {
		return 0, 0, errMalformedCallback
	}

	return wordID, option, nil
}

func buildStudyCallback(subAction string) string {
	return callbackData{
		Action: actionStudy,
		Params: []string{subAction},
	}.encode()
}

package main

import (
	"strings"

	"github.com/rxtech-lab/argo-indicators/pkg/errors"
)

// Exit codes by error kind.
const (
	exitOK           = 0
	exitUnknown      = 1
	exitConstruction = 2
	exitFetch        = 3
	exitInput        = 4
	exitOutput       = 5
)

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	switch errors.KindOf(err) {
	case errors.KindConstruction:
		return exitConstruction
	case errors.KindFetch:
		return exitFetch
	case errors.KindEmptyInput, errors.KindMalformedInput:
		return exitInput
	case errors.KindOutput:
		return exitOutput
	case errors.KindUnknown:
		return exitUnknown
	default:
		return exitUnknown
	}
}

// formatError renders err as a single line for the operator. Details go to the log file.
func formatError(err error) string {
	var coded *errors.Error
	message := err.Error()

	if errors.As(err, &coded) {
		message = coded.Message
	}

	return "error: " + strings.Join(strings.Fields(message), " ")
}

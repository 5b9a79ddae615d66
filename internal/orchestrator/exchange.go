// File: internal/orchestrator/exchange.go
package orchestrator

import (
	"regexp"
	"strings"
)

// Phase tracks where the current exchange sits in its lifecycle. Exactly one
// exchange can hold the loop between snapshot capture and response
// interpretation; once an answer is presenting, a newer submission may
// supersede it.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitingSnapshot
	PhaseAwaitingResponse
	PhaseDispatching
	PhasePresenting
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaitingSnapshot:
		return "awaiting_snapshot"
	case PhaseAwaitingResponse:
		return "awaiting_response"
	case PhaseDispatching:
		return "dispatching"
	case PhasePresenting:
		return "presenting"
	case PhaseClosed:
		return "closed"
	default:
		return "unknown"
	}
}

var actionTokenRe = regexp.MustCompile(`<([^<>]+)>`)

// ExtractActionToken scans an assistant answer for the first non-empty
// angle-bracket delimited token. Answers without one are narration.
func ExtractActionToken(answer string) (string, bool) {
	for _, m := range actionTokenRe.FindAllStringSubmatch(answer, -1) {
		token := strings.TrimSpace(m[1])
		if token != "" {
			return token, true
		}
	}
	return "", false
}

// File: api/schemas/agent.go
package schemas

// AgentRequest is the single-exchange payload sent to the remote reasoning
// service. PageHTML duplicates PageSnapshot.HTML so the service can consume
// the markup without unpacking the structured snapshot.
type AgentRequest struct {
	UserPrompt     string        `json:"userPrompt"`
	PreviousAnswer string        `json:"previousAnswer"`
	PageHTML       string        `json:"pageHtml"`
	PageSnapshot   *PageSnapshot `json:"pageSnapshot"`
	ConstantPrompt string        `json:"constantPrompt"`
}

// AgentResponse is the success body returned by the reasoning service. The
// answer is overloaded: it is either a narrated result, or contains an action
// token delimited by angle brackets that the orchestrator dispatches silently.
type AgentResponse struct {
	Answer string `json:"answer"`
}

package dispatch

import (
	"errors"
	"fmt"

	"github.com/seosiju/sheetgpt/internal/agent"
	"github.com/seosiju/sheetgpt/internal/llm"
)

// All failures leave the dispatcher as stable formula-style text; nothing
// propagates as a fault into the caller's evaluation context.

const (
	gptErrorPrefix   = "#GPT_ERROR: "
	agentErrorPrefix = "#AGENT_ERROR: "
)

func gptError(reason string) string {
	return gptErrorPrefix + reason
}

func agentError(reason string) string {
	return agentErrorPrefix + reason
}

// completionErrorText maps a direct-path failure to its error text.
func completionErrorText(err error) string {
	var remote *llm.RemoteError
	switch {
	case errors.As(err, &remote):
		return gptError(remote.Message)
	case errors.Is(err, llm.ErrNoResponse):
		return gptError("No response")
	case errors.Is(err, llm.ErrNotJSON):
		return gptError("Response is not valid JSON")
	default:
		return gptError(err.Error())
	}
}

// agentErrorText maps an agent-path failure. InvalidToolkitError and
// MaxRoundsError already carry their contract wording.
func agentErrorText(err error) string {
	var remote *llm.RemoteError
	if errors.As(err, &remote) {
		return agentError(remote.Message)
	}
	var invalid *agent.InvalidToolkitError
	if errors.As(err, &invalid) {
		return agentError(invalid.Error())
	}
	var maxed *agent.MaxRoundsError
	if errors.As(err, &maxed) {
		return agentError(maxed.Error())
	}
	return agentError(err.Error())
}

func tokenLimitError(estimated int) string {
	return gptError(fmt.Sprintf("TOKEN_LIMIT - estimated %d tokens", estimated))
}

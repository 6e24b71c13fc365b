package explain

import (
	"fmt"
	"strings"

	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/llm"
)

// Persona is the system framing sent with every request.
const Persona = "You are an insurance expert advising public transport operators."

// BuildPrompt renders the user instruction for tripID and the matched policy names.
func BuildPrompt(tripID string, policyNames []string) string {
	var b strings.Builder
	b.WriteString(Persona)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Explain simply and briefly why each of these insurance policies matters for trip %s:\n", tripID)
	for _, name := range policyNames {
		fmt.Fprintf(&b, "- %s\n", name)
	}
	b.WriteString("Reply ONLY with one JSON object per policy, in the same order, each of the form:\n")
	b.WriteString(`{"title": "string", "analysis": "string"}`)
	b.WriteString("\nKeep title and analysis to one sentence each. Do not write any text outside the JSON objects.\n")
	return b.String()
}

func buildMessages(tripID string, policyNames []string) []llm.Message {
	return []llm.Message{
		{Role: "system", Content: Persona},
		{Role: "user", Content: BuildPrompt(tripID, policyNames)},
	}
}

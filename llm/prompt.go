package llm

import "fmt"

const analysisPrompt = `
You are an AI assistant helping a broker analyze a conversation transcript. Please provide:

1. A concise summary of the conversation (2-3 sentences)
2. A list of specific follow-up items or action items that the broker should address

Here is the transcript:
%s

Always format your response as JSON with the following structure:
{
  "summary": "Your summary here",
  "followUpItems": ["Item 1", "Item 2", "Item 3"]
}
`

// BuildPrompt embeds the transcript verbatim into the analysis instructions.
func BuildPrompt(transcript string) string {
	return fmt.Sprintf(analysisPrompt, transcript)
}

package llm

import (
	"context"
	"fmt"

	"github.com/luochenhu/gh-issuelens/pkg/models"
)

// AnalysisSystemPrompt builds the Q&A system prompt embedding the raw
// serialized issue data. The model is instructed to answer only from that
// data, in the language of the user's question.
func AnalysisSystemPrompt(issueData string) string {
	return fmt.Sprintf(`You are an experienced Q&A bot that provides answers based on user-provided data and questions.

1. Only respond based on the user's input; do not fabricate information.
2. If your answer includes relevant knowledge sources, please format it appropriately (provide links if available).
3. Ensure your response is in the same language as the user's input.

## User Data
%s

## Examples
- **Input:** "What is the capital of France?"
- **Output:** "The capital of France is Paris. [Source](https://en.wikipedia.org/wiki/Paris)"

- **Input:** "¿Cuál es la capital de España?"
- **Output:** "La capital de España es Madrid. [Fuente](https://es.wikipedia.org/wiki/Madrid)"`, issueData)
}

// SummarySystemPrompt builds the issue summarization system prompt. Emoji
// reaction counts are called out as a weighting signal for judging which
// proposed solutions worked.
func SummarySystemPrompt() string {
	return `You are a skilled summarizer. Based on the provided GitHub Issue data, summarize the key points discussed in the Issue. Indicate whether there is a conclusion, and if so, state what it is. For bug-related issues, list the proposed solutions and identify which ones are effective. Consider the reactions, such as thumbs up or other emojis, as valuable reference points.

## Requirements
- Summarize key points from the GitHub Issue.
- State if there is a conclusion and what it is.
- For bug issues, list proposed solutions and their effectiveness.
- Use reactions (like emojis) as reference.

## Output Format
- A clear summary with sections for key points, conclusion, and bug solutions.

## Examples
1. **Input**: GitHub Issue data discussing a feature request.
   **Output**:
   - **Key Points**: Users want feature X for better usability.
   - **Conclusion**: The team will consider implementing feature X.

2. **Input**: GitHub Issue data about a bug.
   **Output**:
   - **Key Points**: Users report bug Y affecting functionality.
   - **Conclusion**: No final conclusion yet.
   - **Proposed Solutions**:
     - Solution A: Effective
     - Solution B: Not effective
     - Solution C: Needs further testing`
}

// Analyze answers a free-form question over serialized issue data.
func (c *Client) Analyze(ctx context.Context, question, issueData string, onChunk StreamFunc) *models.LLMResponse {
	userPrompt := fmt.Sprintf("My Question Is: %s", question)
	return c.Generate(ctx, AnalysisSystemPrompt(issueData), userPrompt, onChunk)
}

// Summarize condenses one issue's serialized data, answering in the
// configured display language (English when unset).
func (c *Client) Summarize(ctx context.Context, issueData string, onChunk StreamFunc) *models.LLMResponse {
	language := "en"
	if settings, err := c.settings(); err == nil && settings.Language != "" {
		language = settings.Language
	}

	userPrompt := fmt.Sprintf("## GitHub Issue Data\n%s\n\n## Language\nResponse me by: %s\n", issueData, language)
	return c.Generate(ctx, SummarySystemPrompt(), userPrompt, onChunk)
}

package completion

import "fmt"

// SystemPrompt sets the assistant persona: gentle, sincere, and focused on
// 3-5 small concrete first steps.
const SystemPrompt = `You are Em, a supportive, non-judgmental AI assistant for users with ADHD. Your goal is to help users start tasks they feel overwhelmed by. Be gentle, understanding, sincere, and focus on breaking things down into 3-5 small, concrete, actionable first steps. Avoid demanding or overly cheerful language.`

// BuildUserPrompt embeds the task description into the fixed user prompt.
// The reply is asked for in two parts, steps first, so the decomposer has
// a predictable shape to work with.
func BuildUserPrompt(taskDescription string) string {
	return fmt.Sprintf(`I'm feeling overwhelmed by this task: '%s'.

Can you help me figure out just the first few steps to get started? Keep it simple and clear. Please list the steps first (maybe numbered or bulleted). After the steps, please provide a separate, brief (1-2 sentences) encouraging thought focused specifically on tackling the very first step you listed. Sound sincere and understanding.`, taskDescription)
}

// Package llm turns an optional theme into a three-line 5-7-5 poem by way of
// an external chat-completion provider. It owns the prompt text, the provider
// adapters (OpenAI chat completions and Google Gemini) and the strict parser
// for the provider's structured reply.
package llm

import (
	"fmt"
	"strings"
)

// SystemTemplate fixes the shape of every provider reply. The example lines
// are placeholders the provider is told never to reuse.
const SystemTemplate = `You are a poet who writes traditional haiku in English.
Reply with a single JSON object and nothing else, in exactly this shape:
{"lineOne":"<five syllables>","lineTwo":"<seven syllables>","lineThree":"<five syllables>"}
Each value is one line of the poem as plain text with no trailing punctuation separators.
Do not add keys, comments, markdown or code fences.`

// BuildPrompt returns the user-role instruction for theme. A nil or blank
// theme asks for a pleasant, zen subject of the provider's choosing.
func BuildPrompt(theme *string) string {
	var b strings.Builder
	if theme != nil && strings.TrimSpace(*theme) != "" {
		fmt.Fprintf(&b, "Write an original haiku about %q. ", strings.TrimSpace(*theme))
	} else {
		b.WriteString("Write an original haiku on a pleasant, zen theme of your choosing. ")
	}
	b.WriteString("Use three lines of five, seven and five syllables. ")
	b.WriteString("Do not reuse or paraphrase the template example. ")
	b.WriteString("Always answer in the exact JSON format you were given.")
	return b.String()
}

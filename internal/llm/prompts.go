package llm

import (
	_ "embed"
	"strings"
)

// NotFoundAnswer is the sentence the model is told to use when the context lacks an answer.
const NotFoundAnswer = "I'm sorry, I cannot find the answer to that in this document."

var (
	//go:embed prompts/analysis.txt
	analysisPrompt string
	//go:embed prompts/qa.txt
	qaPrompt string
)

// BuildAnalysisPrompt prefixes the document text with the fixed analysis instructions.
func BuildAnalysisPrompt(documentText string) string {
	var b strings.Builder
	b.Grow(len(analysisPrompt) + len(documentText) + 32)
	b.WriteString(strings.TrimRight(analysisPrompt, "\n"))
	b.WriteString("\n\nDocument to analyze:\n")
	b.WriteString(documentText)
	return b.String()
}

// BuildQAPrompt fills the question-answering template with the document context and question.
func BuildQAPrompt(question, context string) string {
	replacer := strings.NewReplacer(
		"{{NOT_FOUND_ANSWER}}", NotFoundAnswer,
		"{{CONTEXT}}", context,
		"{{QUESTION}}", question,
	)
	return replacer.Replace(qaPrompt)
}

package prompt

import (
	"fmt"
	"regexp"
	"strings"

	"insurance-faq-be/pkg/llm"
	"insurance-faq-be/pkg/store"
)

// SystemInstruction constrains the model to extraction-only answers: facts,
// numbers and enumerations present in the supplied documents, nothing else.
const SystemInstruction = "You are an AI data analyst for an insurance company. Your task is to answer the user's <question> by extracting structured data from the provided <documents>. " +
	"Follow this strict process:\n\n" +
	"1. **Identify User Intent:** Analyze the <question> to understand the primary topic. Key topics include: 'Sum Insured', 'Eligibility', 'Waiting Period', 'Coverage', 'Bonus', 'Exclusions', or a specific benefit name.\n\n" +
	"2. **Targeted Data Extraction:** Scan the <documents> for sections matching the user's intent. Your goal is to find and extract the following types of information above all else:\n" +
	"   - **Currency Amounts & Limits:** (e.g., '₹5 Lakhs', 'Up to 1 Crore', '50L/100L', 'up to ₹10,000').\n" +
	"   - **Time Periods:** (e.g., '30 days', '24 months', '3 years', '90 days').\n" +
	"   - **Percentages:** (e.g., '10% co-payment', '50% of SI per year').\n" +
	"   - **Lists of Benefits or Conditions:** (e.g., 'In-patient care, Day care treatment...').\n\n" +
	"3. **Synthesize the Final Answer:** Construct a direct answer using ONLY the facts, numbers, and lists you extracted. Start with the most important data point (like the Sum Insured amount) first.\n\n" +
	"**CRITICAL RULES:**\n" +
	"- **PRIORITIZE TABLES:** If you see text that looks like a table (e.g., `Sum Insured - 5L/7L/10L`), prioritize extracting from it.\n" +
	"- **NO GENERAL KNOWLEDGE:** Do not define what 'Sum Insured' is in general. Only state the specific Sum Insured values found in the documents.\n" +
	"- **NO HALLUCINATION:** If you cannot find the exact information, you MUST state: 'The provided documents do not contain specific details on this topic.'\n" +
	"- **NO QUESTIONS:** Never ask the user for clarification. Answer based only on what you are given."

const maxHistoryTurns = 4

var whitespaceRe = regexp.MustCompile(`\s+`)

// Build assembles the user prompt: chunks wrapped with their source product
// label, the trailing history, and the question with a target language.
func Build(question string, chunks []store.Chunk, language string, history []store.HistoryEntry) (systemPrompt, userPrompt string) {
	formatted := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		product := chunk.ProductName
		if product == "" {
			product = "Unknown Policy"
		}
		// Collapse whitespace so tables stay readable for the model
		cleaned := strings.TrimSpace(whitespaceRe.ReplaceAllString(chunk.Text, " "))
		formatted = append(formatted, fmt.Sprintf("<document source='%s'>\n%s\n</document>", product, cleaned))
	}
	contextText := strings.Join(formatted, "\n\n")

	historyText := ""
	if len(history) > 0 {
		recent := history
		if len(recent) > maxHistoryTurns {
			recent = recent[len(recent)-maxHistoryTurns:]
		}
		lines := make([]string, len(recent))
		for i, m := range recent {
			lines[i] = fmt.Sprintf("%s: %s", strings.ToUpper(m.Role), m.Content)
		}
		historyText = fmt.Sprintf("<history>\n%s\n</history>\n", strings.Join(lines, "\n"))
	}

	userPrompt = fmt.Sprintf(
		"Here are the documents to use:\n<documents>\n%s\n</documents>\n\n%s\n<question>\n%s\n</question>\n\nBased on your instructions, what is the answer in %s?",
		contextText, historyText, question, language,
	)

	return SystemInstruction, userPrompt
}

// BuildComparison assembles the prompt for a two-entity comparison: each
// entity's chunks are labelled separately and the model is asked for a single
// side-by-side answer.
func BuildComparison(question string, productA, productB string, chunksA, chunksB []store.Chunk, language string) (systemPrompt, userPrompt string) {
	section := func(product string, chunks []store.Chunk) string {
		parts := make([]string, 0, len(chunks))
		for _, chunk := range chunks {
			cleaned := strings.TrimSpace(whitespaceRe.ReplaceAllString(chunk.Text, " "))
			parts = append(parts, fmt.Sprintf("<document source='%s'>\n%s\n</document>", product, cleaned))
		}
		return strings.Join(parts, "\n\n")
	}

	userPrompt = fmt.Sprintf(
		"Here are the documents for the two plans being compared:\n<documents>\n%s\n\n%s\n</documents>\n\n"+
			"<question>\n%s\n</question>\n\n"+
			"Compare '%s' and '%s' point by point using ONLY the documents above. "+
			"Cover Sum Insured, waiting periods, and key benefits where present. "+
			"Based on your instructions, what is the answer in %s?",
		section(productA, chunksA), section(productB, chunksB),
		question, productA, productB, language,
	)

	return SystemInstruction, userPrompt
}

// ToMessages converts a system+user prompt pair into provider messages.
func ToMessages(systemPrompt, userPrompt string) []llm.Message {
	return []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}
}

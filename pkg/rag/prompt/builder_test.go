package prompt

import (
	"strings"
	"testing"

	"insurance-faq-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

func TestBuildWrapsChunksWithSource(t *testing.T) {
	chunks := []store.Chunk{
		{Text: "The  waiting\nperiod   is 30 days.", ProductName: "Health Shield"},
		{Text: "Room rent capped at 1%.", ProductName: ""},
	}

	system, user := Build("what is the waiting period?", chunks, "English", nil)

	assert.Equal(t, SystemInstruction, system)
	assert.Contains(t, user, "<document source='Health Shield'>\nThe waiting period is 30 days.\n</document>")
	assert.Contains(t, user, "<document source='Unknown Policy'>")
	assert.Contains(t, user, "<question>\nwhat is the waiting period?\n</question>")
	assert.Contains(t, user, "what is the answer in English?")
	assert.NotContains(t, user, "<history>")
}

func TestBuildIncludesRecentHistory(t *testing.T) {
	history := []store.HistoryEntry{
		{Role: store.RoleUser, Content: "oldest turn"},
		{Role: store.RoleAssistant, Content: "second turn"},
		{Role: store.RoleUser, Content: "third turn"},
		{Role: store.RoleAssistant, Content: "fourth turn"},
		{Role: store.RoleUser, Content: "newest turn"},
	}

	_, user := Build("follow up", nil, "English", history)

	assert.Contains(t, user, "<history>")
	assert.Contains(t, user, "USER: newest turn")
	assert.NotContains(t, user, "oldest turn")
}

func TestBuildComparisonLabelsBothEntities(t *testing.T) {
	chunksA := []store.Chunk{{Text: "Health Shield covers 5L."}}
	chunksB := []store.Chunk{{Text: "Secure Life covers 10L."}}

	system, user := BuildComparison("which is better?", "Health Shield", "Secure Life", chunksA, chunksB, "English")

	assert.Equal(t, SystemInstruction, system)
	assert.Contains(t, user, "<document source='Health Shield'>")
	assert.Contains(t, user, "<document source='Secure Life'>")
	assert.Contains(t, user, "Compare 'Health Shield' and 'Secure Life'")
	assert.Contains(t, user, "which is better?")
}

func TestToMessages(t *testing.T) {
	messages := ToMessages("sys", "usr")

	assert.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].Role)
	assert.Equal(t, "sys", messages[0].Content)
	assert.Equal(t, "user", messages[1].Role)
	assert.Equal(t, "usr", messages[1].Content)
}

func TestSystemInstructionForbidsGeneralKnowledge(t *testing.T) {
	assert.True(t, strings.Contains(SystemInstruction, "NO GENERAL KNOWLEDGE"))
	assert.True(t, strings.Contains(SystemInstruction, "NO HALLUCINATION"))
}

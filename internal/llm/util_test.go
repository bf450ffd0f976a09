package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock_JSONFence(t *testing.T) {
	input := "```json\n{\"is_question\": true}\n```"
	assert.Equal(t, `{"is_question": true}`, CleanJSONBlock(input))
}

func TestCleanJSONBlock_GenericFence(t *testing.T) {
	input := "```\n{\"accomplished\": false}\n```"
	assert.Equal(t, `{"accomplished": false}`, CleanJSONBlock(input))
}

func TestCleanJSONBlock_FenceWithBraceOnFirstLine(t *testing.T) {
	// The opening brace directly after the fence must not be treated as a
	// language identifier.
	input := "```{\"next_step_id\": 2}```"
	assert.Equal(t, `{"next_step_id": 2}`, CleanJSONBlock(input))
}

func TestCleanJSONBlock_NoFence(t *testing.T) {
	input := `{"scores": []}`
	assert.Equal(t, input, CleanJSONBlock(input))
}

func TestCleanJSONBlock_Whitespace(t *testing.T) {
	input := "  \n {\"a\": 1} \n "
	assert.Equal(t, `{"a": 1}`, CleanJSONBlock(input))
}

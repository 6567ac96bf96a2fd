/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBankSkipsIncompleteQuestions(t *testing.T) {
	bank, err := NewBank([]Question{
		{Prompt: "What is 2 + 2?", Answer: "4"},
		{Prompt: "   ", Answer: "nothing"},
		{Prompt: "No answer?", Answer: ""},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, bank.Len())
}

func TestNewBankRejectsEmpty(t *testing.T) {
	_, err := NewBank(nil)
	assert.ErrorIs(t, err, ErrEmptyBank)

	_, err = NewBank([]Question{{Prompt: "", Answer: ""}})
	assert.ErrorIs(t, err, ErrEmptyBank)
}

func TestLoadBank(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"questions.json": `[{"text": "What color is the sky?", "answer": "Blue"}, {"text": "What is 2 + 2?", "answer": "4"}]`,
		"questions.yaml": "- text: What color is the sky?\n  answer: Blue\n- text: What is 2 + 2?\n  answer: \"4\"\n",
		"questions.yml":  "- text: What color is the sky?\n  answer: Blue\n- text: What is 2 + 2?\n  answer: \"4\"\n",
	}

	for name, contents := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

			bank, err := LoadBank(path)
			require.NoError(t, err)

			assert.Equal(t, 2, bank.Len())
			assert.Equal(t, []Question{
				{Prompt: "What color is the sky?", Answer: "Blue"},
				{Prompt: "What is 2 + 2?", Answer: "4"},
			}, bank.Unused(nil))
		})
	}
}

func TestLoadBankErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadBank(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	malformed := filepath.Join(dir, "malformed.json")
	require.NoError(t, os.WriteFile(malformed, []byte(`{"text":`), 0o644))
	_, err = LoadBank(malformed)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`[]`), 0o644))
	_, err = LoadBank(empty)
	assert.ErrorIs(t, err, ErrEmptyBank)
}

func TestDefaultBank(t *testing.T) {
	bank := DefaultBank()

	require.Equal(t, 1, bank.Len())
	assert.Equal(t, Question{Prompt: "What is 2 + 2?", Answer: "4"}, bank.Unused(nil)[0])
}

func TestUnused(t *testing.T) {
	bank := testBank(t, 3)

	used := map[string]struct{}{
		"What color is the sky?": {},
	}

	unused := bank.Unused(used)
	require.Len(t, unused, 2)
	for _, q := range unused {
		assert.NotEqual(t, "What color is the sky?", q.Prompt)
	}

	for _, q := range unused {
		used[q.Prompt] = struct{}{}
	}
	assert.Empty(t, bank.Unused(used))
}

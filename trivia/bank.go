/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrEmptyBank = errors.New("question bank contains no usable questions")

// Question is a single prompt and the answer that resolves it.
type Question struct {
	Prompt string `json:"text" yaml:"text"`
	Answer string `json:"answer" yaml:"answer"`
}

// Bank is loaded once at startup and never mutated afterwards, so rooms share
// it without locking.
type Bank struct {
	questions []Question
}

func NewBank(questions []Question) (*Bank, error) {
	kept := make([]Question, 0, len(questions))
	for _, q := range questions {
		if strings.TrimSpace(q.Prompt) == "" || strings.TrimSpace(q.Answer) == "" {
			continue
		}
		kept = append(kept, q)
	}

	if len(kept) == 0 {
		return nil, ErrEmptyBank
	}

	return &Bank{questions: kept}, nil
}

// DefaultBank is served when the configured bank cannot be read.
func DefaultBank() *Bank {
	return &Bank{questions: []Question{
		{Prompt: "What is 2 + 2?", Answer: "4"},
	}}
}

// LoadBank reads a JSON or YAML (by extension) list of questions.
func LoadBank(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading question bank: %w", err)
	}

	var questions []Question

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &questions)
	default:
		err = json.Unmarshal(data, &questions)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing question bank %s: %w", path, err)
	}

	bank, err := NewBank(questions)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	return bank, nil
}

func (b *Bank) Len() int {
	return len(b.questions)
}

// Unused returns the questions whose prompt is not in used, in bank order.
func (b *Bank) Unused(used map[string]struct{}) []Question {
	unused := make([]Question, 0, len(b.questions))
	for _, q := range b.questions {
		if _, ok := used[q.Prompt]; ok {
			continue
		}
		unused = append(unused, q)
	}
	return unused
}

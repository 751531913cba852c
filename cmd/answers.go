package main

import (
	"fmt"
	"os"

	"github.com/okian/duoquiz/internal/domain/model"
	"gopkg.in/yaml.v3"
)

// loadAnswers reads a participant's answers from a YAML file:
//
//	answers:
//	  1: 3
//	  2: 5
//	key_question_id: 101
//	key_answer: 2
//	bonus: 4
func loadAnswers(path string) (model.UserAnswers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.UserAnswers{}, fmt.Errorf("read answers: %w", err)
	}
	var u model.UserAnswers
	if err := yaml.Unmarshal(data, &u); err != nil {
		return model.UserAnswers{}, fmt.Errorf("parse answers %s: %w", path, err)
	}
	if err := u.Validate(); err != nil {
		return model.UserAnswers{}, fmt.Errorf("answers %s: %w", path, err)
	}
	return u, nil
}

package service

import (
	"errors"

	"dtportal/database"
	"dtportal/database/model"
	"dtportal/util/json_util"

	"github.com/goccy/go-json"
)

// MockTestService serves randomized question sets and grades submissions.
type MockTestService struct{}

// passMarkPercent is the share of correct answers needed to pass a mock test.
const passMarkPercent = 86

// QuestionView is a question prepared for rendering: options decoded, the
// correct answer withheld.
type QuestionView struct {
	Id      int      `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// MockResult is the graded outcome of a submitted mock test.
type MockResult struct {
	Correct int  `json:"correct"`
	Total   int  `json:"total"`
	Percent int  `json:"percent"`
	Passed  bool `json:"passed"`
}

// RandomQuestions returns up to n active questions in random order.
func (s *MockTestService) RandomQuestions(n int) ([]*QuestionView, error) {
	db := database.GetDB()
	questions := make([]*model.MockQuestion, 0)
	err := db.Model(model.MockQuestion{}).
		Where("active = ?", true).
		Order("RANDOM()").
		Limit(n).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}

	views := make([]*QuestionView, 0, len(questions))
	for _, q := range questions {
		options, err := decodeOptions(q.Options)
		if err != nil {
			return nil, err
		}
		views = append(views, &QuestionView{
			Id:      q.Id,
			Prompt:  q.Prompt,
			Options: options,
		})
	}
	return views, nil
}

// Grade scores the submitted answers (question id to chosen option index).
// Unanswered questions count as wrong.
func (s *MockTestService) Grade(answers map[int]int) (*MockResult, error) {
	if len(answers) == 0 {
		return nil, errors.New("no answers submitted")
	}

	ids := make([]int, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}

	db := database.GetDB()
	questions := make([]*model.MockQuestion, 0)
	err := db.Model(model.MockQuestion{}).Where("id IN ?", ids).Find(&questions).Error
	if err != nil {
		return nil, err
	}

	correct := 0
	for _, q := range questions {
		if chosen, ok := answers[q.Id]; ok && chosen == q.Answer {
			correct++
		}
	}

	total := len(questions)
	percent := 0
	if total > 0 {
		percent = correct * 100 / total
	}
	return &MockResult{
		Correct: correct,
		Total:   total,
		Percent: percent,
		Passed:  percent >= passMarkPercent,
	}, nil
}

// SaveQuestion validates and stores a question, encoding its options as JSON.
func (s *MockTestService) SaveQuestion(q *model.MockQuestion, options []string) error {
	if q.Prompt == "" {
		return errors.New("prompt can not be empty")
	}
	if len(options) < 2 {
		return errors.New("a question needs at least two options")
	}
	if q.Answer < 0 || q.Answer >= len(options) {
		return errors.New("answer index out of range")
	}
	encoded, err := json.Marshal(options)
	if err != nil {
		return err
	}
	q.Options = encoded

	db := database.GetDB()
	return db.Save(q).Error
}

func (s *MockTestService) ListQuestions() ([]*model.MockQuestion, error) {
	db := database.GetDB()
	questions := make([]*model.MockQuestion, 0)
	err := db.Model(model.MockQuestion{}).Order("id asc").Find(&questions).Error
	return questions, err
}

func (s *MockTestService) DeleteQuestion(id int) error {
	db := database.GetDB()
	return db.Delete(&model.MockQuestion{}, id).Error
}

func decodeOptions(raw json_util.RawMessage) ([]string, error) {
	options := make([]string, 0)
	if err := json.Unmarshal(raw, &options); err != nil {
		return nil, err
	}
	return options, nil
}

package service

import (
	"testing"

	"dtportal/database/model"
)

func seedQuestions(t *testing.T, n int) []*model.MockQuestion {
	t.Helper()
	s := MockTestService{}
	questions := make([]*model.MockQuestion, 0, n)
	for i := 0; i < n; i++ {
		q := &model.MockQuestion{
			Prompt: "question",
			Answer: 1,
			Active: true,
		}
		if err := s.SaveQuestion(q, []string{"wrong", "right", "also wrong"}); err != nil {
			t.Fatal(err)
		}
		questions = append(questions, q)
	}
	return questions
}

func TestRandomQuestionsWithholdAnswer(t *testing.T) {
	setupDB(t)
	seedQuestions(t, 5)
	s := MockTestService{}

	views, err := s.RandomQuestions(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 3 {
		t.Fatalf("got %d questions, want 3", len(views))
	}
	for _, v := range views {
		if len(v.Options) != 3 {
			t.Errorf("question %d has %d options, want 3", v.Id, len(v.Options))
		}
	}
}

func TestGrade(t *testing.T) {
	setupDB(t)
	questions := seedQuestions(t, 10)
	s := MockTestService{}

	tests := []struct {
		name        string
		correct     int
		wantPercent int
		wantPassed  bool
	}{
		{"all correct", 10, 100, true},
		{"just below pass mark", 8, 80, false},
		{"pass boundary", 9, 90, true},
		{"none correct", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answers := make(map[int]int)
			for i, q := range questions {
				if i < tt.correct {
					answers[q.Id] = 1
				} else {
					answers[q.Id] = 0
				}
			}
			result, err := s.Grade(answers)
			if err != nil {
				t.Fatal(err)
			}
			if result.Correct != tt.correct {
				t.Errorf("correct = %d, want %d", result.Correct, tt.correct)
			}
			if result.Percent != tt.wantPercent {
				t.Errorf("percent = %d, want %d", result.Percent, tt.wantPercent)
			}
			if result.Passed != tt.wantPassed {
				t.Errorf("passed = %v, want %v", result.Passed, tt.wantPassed)
			}
		})
	}
}

func TestGradeRejectsEmpty(t *testing.T) {
	setupDB(t)
	s := MockTestService{}
	if _, err := s.Grade(nil); err == nil {
		t.Error("empty submission should fail")
	}
}

func TestSaveQuestionValidation(t *testing.T) {
	setupDB(t)
	s := MockTestService{}

	if err := s.SaveQuestion(&model.MockQuestion{Prompt: ""}, []string{"a", "b"}); err == nil {
		t.Error("empty prompt should fail")
	}
	if err := s.SaveQuestion(&model.MockQuestion{Prompt: "q"}, []string{"only"}); err == nil {
		t.Error("single option should fail")
	}
	if err := s.SaveQuestion(&model.MockQuestion{Prompt: "q", Answer: 5}, []string{"a", "b"}); err == nil {
		t.Error("answer out of range should fail")
	}
}

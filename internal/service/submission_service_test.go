package service

import (
	"testing"
	"time"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/registry"
	"github.com/examhall/examhall-backend/internal/repository"
	"github.com/google/uuid"
)

func TestScoreAnswers(t *testing.T) {
	q1 := uuid.New()
	q2 := uuid.New()
	q3 := uuid.New()

	key := []repository.AnswerKeyEntry{
		{QuestionID: q1, CorrectOption: 0, Points: 2},
		{QuestionID: q2, CorrectOption: 1, Points: 3},
	}

	tests := []struct {
		name         string
		answers      []model.Answer
		wantScore    int
		wantTotal    int
		wantAccepted int
	}{
		{
			name: "one right one wrong",
			answers: []model.Answer{
				{QuestionID: q1, SelectedOption: 0},
				{QuestionID: q2, SelectedOption: 2},
			},
			wantScore:    2,
			wantTotal:    5,
			wantAccepted: 2,
		},
		{
			name: "all correct",
			answers: []model.Answer{
				{QuestionID: q1, SelectedOption: 0},
				{QuestionID: q2, SelectedOption: 1},
			},
			wantScore:    5,
			wantTotal:    5,
			wantAccepted: 2,
		},
		{
			name:         "empty answer set still has full total",
			answers:      nil,
			wantScore:    0,
			wantTotal:    5,
			wantAccepted: 0,
		},
		{
			name: "unanswered sentinel scores zero",
			answers: []model.Answer{
				{QuestionID: q1, SelectedOption: model.UnansweredOption},
				{QuestionID: q2, SelectedOption: 1},
			},
			wantScore:    3,
			wantTotal:    5,
			wantAccepted: 2,
		},
		{
			name: "question outside the exam is ignored",
			answers: []model.Answer{
				{QuestionID: q3, SelectedOption: 0},
				{QuestionID: q1, SelectedOption: 0},
			},
			wantScore:    2,
			wantTotal:    5,
			wantAccepted: 1,
		},
		{
			name: "duplicate question id keeps first occurrence",
			answers: []model.Answer{
				{QuestionID: q1, SelectedOption: 1}, // wrong, counts
				{QuestionID: q1, SelectedOption: 0}, // right, ignored
				{QuestionID: q2, SelectedOption: 1},
			},
			wantScore:    3,
			wantTotal:    5,
			wantAccepted: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreAnswers(key, tt.answers)
			if got.Score != tt.wantScore {
				t.Errorf("Score = %d, want %d", got.Score, tt.wantScore)
			}
			if got.TotalPossible != tt.wantTotal {
				t.Errorf("TotalPossible = %d, want %d", got.TotalPossible, tt.wantTotal)
			}
			if len(got.Accepted) != tt.wantAccepted {
				t.Errorf("len(Accepted) = %d, want %d", len(got.Accepted), tt.wantAccepted)
			}
		})
	}
}

func TestScoreAnswersOrderIndependent(t *testing.T) {
	q1 := uuid.New()
	q2 := uuid.New()
	key := []repository.AnswerKeyEntry{
		{QuestionID: q1, CorrectOption: 0, Points: 2},
		{QuestionID: q2, CorrectOption: 1, Points: 3},
	}

	forward := scoreAnswers(key, []model.Answer{
		{QuestionID: q1, SelectedOption: 0},
		{QuestionID: q2, SelectedOption: 1},
	})
	reversed := scoreAnswers(key, []model.Answer{
		{QuestionID: q2, SelectedOption: 1},
		{QuestionID: q1, SelectedOption: 0},
	})

	if forward.Score != reversed.Score || forward.TotalPossible != reversed.TotalPossible {
		t.Errorf("scoring depends on answer order: %+v vs %+v", forward, reversed)
	}
}

func TestScoreAnswersEmptyKey(t *testing.T) {
	got := scoreAnswers(nil, []model.Answer{{QuestionID: uuid.New(), SelectedOption: 0}})
	if got.Score != 0 || got.TotalPossible != 0 || len(got.Accepted) != 0 {
		t.Errorf("scoreAnswers(empty key) = %+v, want all zero", got)
	}
}

func TestLateness(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	att := registry.Attempt{StartTime: start, Duration: 30 * time.Minute}

	if got := lateness(att, start.Add(10*time.Minute)); got > 0 {
		t.Errorf("lateness mid-exam = %v, want <= 0", got)
	}
	if got := lateness(att, start.Add(30*time.Minute)); got != 0 {
		t.Errorf("lateness at deadline = %v, want 0", got)
	}
	if got := lateness(att, start.Add(31*time.Minute)); got != time.Minute {
		t.Errorf("lateness past deadline = %v, want 1m", got)
	}
}

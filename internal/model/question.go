package model

import "github.com/google/uuid"

// Question represents a single exam question with its answer key.
// Never serialized to the student side; see QuestionForStudent.
type Question struct {
	ID            uuid.UUID `json:"id"`
	Text          string    `json:"text"`
	Options       []string  `json:"options"`
	CorrectOption int       `json:"correct_option"`
	Points        int       `json:"points"`
	Position      int       `json:"position"`
}

// QuestionForStudent is a question without the correct option or point
// value, as handed to students.
type QuestionForStudent struct {
	ID       uuid.UUID `json:"id"`
	Text     string    `json:"text"`
	Options  []string  `json:"options"`
	Position int       `json:"position"`
}

// UnansweredOption is the sentinel selected-option value meaning the
// student left the question blank.
const UnansweredOption = -1

// Answer is one submitted answer. SelectedOption of UnansweredOption (-1)
// means the question was left blank.
type Answer struct {
	QuestionID     uuid.UUID `json:"question_id" binding:"required"`
	SelectedOption int       `json:"selected_option" binding:"min=-1"`
}

// SubmitExamRequest is the payload for submitting a completed exam.
// An empty answer list is a valid (all-blank) submission.
type SubmitExamRequest struct {
	Answers []Answer `json:"answers" binding:"dive"`
}

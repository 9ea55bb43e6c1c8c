package quiz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/anooppassi66/lms-development/internal/models"
)

func threeQuestionQuiz() *models.Quiz {
	return &models.Quiz{
		ID:        uuid.New(),
		Title:     "Go basics",
		PassMarks: 2,
		Status:    models.QuizActive,
		Questions: []models.Question{
			{ID: uuid.New(), Text: "q1", Options: []string{"a", "b"}, CorrectIndex: 0, Marks: 1},
			{ID: uuid.New(), Text: "q2", Options: []string{"a", "b"}, CorrectIndex: 1, Marks: 1},
			{ID: uuid.New(), Text: "q3", Options: []string{"a", "b", "c"}, CorrectIndex: 2, Marks: 1},
		},
	}
}

func answersFor(quiz *models.Quiz, indexes ...int) []models.Answer {
	answers := make([]models.Answer, 0, len(indexes))
	for i, idx := range indexes {
		answers = append(answers, models.Answer{
			QuestionID:  quiz.Questions[i].ID,
			AnswerIndex: idx,
		})
	}
	return answers
}

func TestGradeAllCorrect(t *testing.T) {
	quiz := threeQuestionQuiz()
	score, total := Grade(quiz, answersFor(quiz, 0, 1, 2))
	assert.Equal(t, 3, score)
	assert.Equal(t, 3, total)
}

func TestGradeOrderIndependent(t *testing.T) {
	quiz := threeQuestionQuiz()
	ordered := answersFor(quiz, 0, 1, 2)
	reversed := []models.Answer{ordered[2], ordered[0], ordered[1]}

	s1, t1 := Grade(quiz, ordered)
	s2, t2 := Grade(quiz, reversed)
	assert.Equal(t, s1, s2)
	assert.Equal(t, t1, t2)
}

func TestGradeUnknownQuestionIgnored(t *testing.T) {
	quiz := threeQuestionQuiz()
	answers := answersFor(quiz, 0, 1, 2)
	answers = append(answers, models.Answer{QuestionID: uuid.New(), AnswerIndex: 0})

	score, total := Grade(quiz, answers)
	assert.Equal(t, 3, score)
	assert.Equal(t, 3, total)
}

func TestGradeDuplicateAnswerLastWins(t *testing.T) {
	quiz := threeQuestionQuiz()
	answers := []models.Answer{
		{QuestionID: quiz.Questions[0].ID, AnswerIndex: 0},
		{QuestionID: quiz.Questions[0].ID, AnswerIndex: 1},
	}
	score, _ := Grade(quiz, answers)
	assert.Equal(t, 0, score, "later duplicate should override the correct first answer")

	answers[0], answers[1] = answers[1], answers[0]
	score, _ = Grade(quiz, answers)
	assert.Equal(t, 1, score)
}

func TestGradeMissingAnswersScoreZero(t *testing.T) {
	quiz := threeQuestionQuiz()
	score, total := Grade(quiz, nil)
	assert.Equal(t, 0, score)
	assert.Equal(t, 3, total)
}

func TestGradeMarksDefaultToOne(t *testing.T) {
	quiz := &models.Quiz{
		Questions: []models.Question{
			{ID: uuid.New(), Options: []string{"a", "b"}, CorrectIndex: 0, Marks: 0},
			{ID: uuid.New(), Options: []string{"a", "b"}, CorrectIndex: 0, Marks: -3},
			{ID: uuid.New(), Options: []string{"a", "b"}, CorrectIndex: 0, Marks: 5},
		},
	}
	score, total := Grade(quiz, []models.Answer{
		{QuestionID: quiz.Questions[0].ID, AnswerIndex: 0},
		{QuestionID: quiz.Questions[1].ID, AnswerIndex: 0},
		{QuestionID: quiz.Questions[2].ID, AnswerIndex: 0},
	})
	assert.Equal(t, 7, total)
	assert.Equal(t, 7, score)
}

func TestGradeWeightedPartial(t *testing.T) {
	quiz := &models.Quiz{
		Questions: []models.Question{
			{ID: uuid.New(), Options: []string{"a", "b"}, CorrectIndex: 0, Marks: 2},
			{ID: uuid.New(), Options: []string{"a", "b"}, CorrectIndex: 1, Marks: 3},
		},
	}
	score, total := Grade(quiz, []models.Answer{
		{QuestionID: quiz.Questions[0].ID, AnswerIndex: 0},
		{QuestionID: quiz.Questions[1].ID, AnswerIndex: 0},
	})
	assert.Equal(t, 2, score)
	assert.Equal(t, 5, total)
}

func TestPassTargetClampsToTotal(t *testing.T) {
	assert.Equal(t, 3, PassTarget(5, 3), "pass marks above total clamp down")
	assert.Equal(t, 2, PassTarget(2, 3))
	assert.Equal(t, 3, PassTarget(3, 3))
}

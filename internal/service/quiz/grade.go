package quiz

import (
	"github.com/google/uuid"

	"github.com/anooppassi66/lms-development/internal/models"
)

// Grade scores a set of submitted answers against the quiz's current
// question set. It is pure: no I/O, deterministic, order-independent.
//
// Answers are collapsed into a map first, so a question answered more than
// once in the same submission resolves to the last occurrence. Answers whose
// question id does not match any question are ignored, not errors. The total
// is recomputed from the current questions so it stays consistent when the
// quiz has been edited since pass_marks was stored.
func Grade(quiz *models.Quiz, answers []models.Answer) (score, total int) {
	picked := make(map[uuid.UUID]int, len(answers))
	for _, ans := range answers {
		picked[ans.QuestionID] = ans.AnswerIndex
	}

	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		total += q.Weight()
		if idx, ok := picked[q.ID]; ok && idx == q.CorrectIndex {
			score += q.Weight()
		}
	}
	return score, total
}

// PassTarget clamps the stored pass marks to the recomputed total, so a quiz
// whose questions were trimmed after authoring remains passable.
func PassTarget(passMarks, total int) int {
	if passMarks > total {
		return total
	}
	return passMarks
}

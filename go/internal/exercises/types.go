package exercises

// CreateExerciseRequest represents a movement added to a competition's workout
type CreateExerciseRequest struct {
	Name           string `json:"name" validate:"required"`
	Description    string `json:"description"`
	Sets           int    `json:"sets"`
	Reps           int    `json:"reps"`
	ExecutionOrder int    `json:"execution_order"`
}

// UpdateExerciseRequest represents the organizer-editable fields of a movement
type UpdateExerciseRequest struct {
	Name           string `json:"name" validate:"required"`
	Description    string `json:"description"`
	Sets           int    `json:"sets"`
	Reps           int    `json:"reps"`
	ExecutionOrder int    `json:"execution_order"`
}

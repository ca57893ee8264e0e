package wellness

import (
	"encoding/json"

	"wellness/internal/domain"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	domain.UserProfile
	Password string `json:"password"`
}

type signupResponse struct {
	Status string             `json:"status"`
	User   domain.UserProfile `json:"user"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Recommendation is a proactive suggestion.
type Recommendation struct {
	Category   string `json:"category"`
	Suggestion string `json:"suggestion"`
	Reasoning  string `json:"reasoning"`
}

// WellnessPlan is the coach's plan for today.
type WellnessPlan struct {
	DailyTip       string `json:"daily_tip"`
	WorkoutPlan    string `json:"workout_plan"`
	DietSuggestion string `json:"diet_suggestion"`
}

// ChatReply is a coach answer. UpdatedContext holds only the profile keys the
// coach changed, or is empty when it changed none.
type ChatReply struct {
	Response       string          `json:"response"`
	UpdatedContext json.RawMessage `json:"updated_context,omitempty"`
}

type chatRequest struct {
	UserID  string             `json:"user_id"`
	Message string             `json:"message"`
	Context domain.UserProfile `json:"context"`
}

type doubtRequest struct {
	UserID   string             `json:"user_id"`
	Question string             `json:"question"`
	Context  domain.UserProfile `json:"context"`
}

type imageRequest struct {
	UserID    string             `json:"user_id"`
	ImageData string             `json:"image_data"`
	Context   domain.UserProfile `json:"context"`
}

type doubtResponse struct {
	Answer string `json:"answer"`
}

type mealResponse struct {
	Insight string `json:"insight"`
}

type prescriptionResponse struct {
	Analysis string `json:"analysis"`
}

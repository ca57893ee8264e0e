package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"wellness/internal/domain"
	"wellness/internal/wellness"
)

// Coach is the AI part of the wellness API.
type Coach interface {
	Recommendation(ctx context.Context, p domain.UserProfile) (*wellness.Recommendation, error)
	Chat(ctx context.Context, p domain.UserProfile, message string) (*wellness.ChatReply, error)
	WellnessPlan(ctx context.Context, p domain.UserProfile) (*wellness.WellnessPlan, error)
	ClarifyDoubt(ctx context.Context, p domain.UserProfile, question string) (string, error)
	AnalyzeMeal(ctx context.Context, p domain.UserProfile, imageData string) (string, error)
	AnalyzePrescription(ctx context.Context, p domain.UserProfile, imageData string) (string, error)
}

// CoachService sends the session's profile as context to the coach
// and turns every reply into display text.
type CoachService struct {
	coach Coach
}

// NewCoachService creates a coach service
func NewCoachService(coach Coach) *CoachService {
	return &CoachService{coach: coach}
}

// Recommend asks for a proactive suggestion.
func (c *CoachService) Recommend(ctx context.Context, sess *Session) (string, error) {
	if sess == nil {
		return "", ErrNoSession
	}
	rec, err := c.coach.Recommendation(ctx, sess.Profile().Snapshot())
	if err != nil {
		return "", fmt.Errorf("getting recommendation: %w", err)
	}
	return formatSections(
		section{strings.ToUpper(rec.Category), rec.Suggestion},
		section{"Why", rec.Reasoning},
	), nil
}

// Chat sends message and applies any profile changes the coach sends back.
func (c *CoachService) Chat(ctx context.Context, sess *Session, message string) (string, error) {
	if sess == nil {
		return "", ErrNoSession
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return "", &domain.ValidationError{Field: "message", Value: message, Reason: "message is empty"}
	}

	reply, err := c.coach.Chat(ctx, sess.Profile().Snapshot(), message)
	if err != nil {
		return "", fmt.Errorf("chatting: %w", err)
	}
	if len(reply.UpdatedContext) > 0 && string(reply.UpdatedContext) != "null" && sess.Active() {
		if err := sess.Profile().Merge(reply.UpdatedContext); err != nil {
			log.Printf("coach: ignoring updated context: %v", err)
		}
	}
	return reply.Response, nil
}

// Plan asks for today's wellness plan.
func (c *CoachService) Plan(ctx context.Context, sess *Session) (string, error) {
	if sess == nil {
		return "", ErrNoSession
	}
	plan, err := c.coach.WellnessPlan(ctx, sess.Profile().Snapshot())
	if err != nil {
		return "", fmt.Errorf("getting wellness plan: %w", err)
	}
	return formatSections(
		section{"Daily tip", plan.DailyTip},
		section{"Workout", plan.WorkoutPlan},
		section{"Diet", plan.DietSuggestion},
	), nil
}

// Ask sends a free-form question.
func (c *CoachService) Ask(ctx context.Context, sess *Session, question string) (string, error) {
	if sess == nil {
		return "", ErrNoSession
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return "", &domain.ValidationError{Field: "question", Value: question, Reason: "question is empty"}
	}
	answer, err := c.coach.ClarifyDoubt(ctx, sess.Profile().Snapshot(), question)
	if err != nil {
		return "", fmt.Errorf("asking question: %w", err)
	}
	return answer, nil
}

// AnalyzeMeal sends the meal photo at path.
func (c *CoachService) AnalyzeMeal(ctx context.Context, sess *Session, path string) (string, error) {
	if sess == nil {
		return "", ErrNoSession
	}
	data, err := ImageDataURL(path)
	if err != nil {
		return "", err
	}
	insight, err := c.coach.AnalyzeMeal(ctx, sess.Profile().Snapshot(), data)
	if err != nil {
		return "", fmt.Errorf("analyzing meal: %w", err)
	}
	return insight, nil
}

// AnalyzePrescription sends the prescription photo at path.
func (c *CoachService) AnalyzePrescription(ctx context.Context, sess *Session, path string) (string, error) {
	if sess == nil {
		return "", ErrNoSession
	}
	data, err := ImageDataURL(path)
	if err != nil {
		return "", err
	}
	analysis, err := c.coach.AnalyzePrescription(ctx, sess.Profile().Snapshot(), data)
	if err != nil {
		return "", fmt.Errorf("analyzing prescription: %w", err)
	}
	return analysis, nil
}

// ImageDataURL reads an image file into a base64 data URL.
func ImageDataURL(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", &domain.ValidationError{Field: "image", Value: path, Reason: "path is empty"}
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}
	if info.Size() > MaxImageBytes {
		return "", &domain.ValidationError{Field: "image", Value: path, Reason: "larger than 5 MB"}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}
	mime := http.DetectContentType(raw)
	if !strings.HasPrefix(mime, "image/") {
		return "", &domain.ValidationError{Field: "image", Value: path, Reason: "not an image (" + mime + ")"}
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}

type section struct {
	title, body string
}

// formatSections joins non-empty sections as "Title: body" paragraphs.
func formatSections(sections ...section) string {
	var parts []string
	for _, s := range sections {
		body := strings.TrimSpace(s.body)
		if body == "" {
			continue
		}
		if s.title == "" {
			parts = append(parts, body)
			continue
		}
		parts = append(parts, s.title+": "+body)
	}
	return strings.Join(parts, "\n\n")
}

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"fittrack/errs"
	"fittrack/models"
	"fittrack/utils"

	"gorm.io/gorm"
)

const defaultCoachModel = "gemini-2.5-flash-preview-05-20"

// CoachService talks to the generative-language API. Every call is
// best-effort: non-2xx or an unrecognizable body surfaces as
// errs.ErrOracleUnavailable and callers degrade from there.
type CoachService struct {
	db      *gorm.DB
	client  *http.Client
	apiKey  string
	model   string
	baseURL string
}

func NewCoachService(db *gorm.DB) *CoachService {
	return &CoachService{
		db:      db,
		client:  &http.Client{Timeout: 15 * time.Second},
		apiKey:  os.Getenv("GEMINI_API_KEY"),
		model:   defaultCoachModel,
		baseURL: "https://generativelanguage.googleapis.com",
	}
}

// Complete sends one prompt and returns the first candidate's text.
func (s *CoachService) Complete(ctx context.Context, prompt string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY not set: %w", errs.ErrOracleUnavailable)
	}

	payload := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}
	body, _ := json.Marshal(payload)

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("coach request: %v: %w", err, errs.ErrOracleUnavailable)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("coach response read: %v: %w", err, errs.ErrOracleUnavailable)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("coach api status %d: %w", resp.StatusCode, errs.ErrOracleUnavailable)
	}

	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(respBytes, &out); err != nil {
		return "", fmt.Errorf("coach response decode: %v: %w", err, errs.ErrOracleUnavailable)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("coach returned no candidates: %w", errs.ErrOracleUnavailable)
	}
	return strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text), nil
}

// ---------- Coaching operations ----------

// RecommendMeal suggests a meal sized to the calories the user has left
// today. Hitting the target short-circuits without an oracle call.
func (s *CoachService) RecommendMeal(ctx context.Context, userID uint, currentCalories int) (string, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return "", err
	}

	target := utils.DailyCalorieTarget(user.Weight, user.Height, user.Age, user.Gender, user.ActivityLevel)
	remaining := target - currentCalories
	if remaining <= 0 {
		return "You've already hit your calorie goal for today! Fantastic work.", nil
	}

	prompt := fmt.Sprintf(`You are an expert fitness and nutrition coach. A user needs a meal recommendation based on their personal calorie target.
User's Daily Calorie Target: %d
Calories Consumed So Far: %d
Calories Remaining: %d
Based on this, suggest a single, healthy, and specific meal idea that is approximately %d calories. Keep the response to 2-3 sentences. Be encouraging.`,
		target, currentCalories, remaining, remaining)

	return s.Complete(ctx, prompt)
}

// EstimateMealCalories asks for a bare integer estimate.
func (s *CoachService) EstimateMealCalories(ctx context.Context, mealName, quantity string) (int, error) {
	prompt := fmt.Sprintf(`Based on the meal %q with a quantity of %q, estimate the total calories. Provide only a single integer number as the response. For example: 350`,
		mealName, quantity)

	text, err := s.Complete(ctx, prompt)
	if err != nil {
		return 0, err
	}
	calories, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("calorie estimate was not a number: %w", errs.ErrOracleUnavailable)
	}
	return calories, nil
}

var firstNumber = regexp.MustCompile(`\d+`)

// EstimateWorkoutCalories estimates burn for an activity, scaled to the
// user's weight (70 kg when unset). Extraction is looser here: the
// first integer anywhere in the reply counts.
func (s *CoachService) EstimateWorkoutCalories(ctx context.Context, userID uint, workoutName, duration string) (int, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return 0, err
	}
	weight := user.Weight
	if weight <= 0 {
		weight = 70
	}

	prompt := fmt.Sprintf(`As a fitness expert, estimate the total calories burned for the following activity.
User's approximate weight: %.0f kg.
Activity: %q
Duration: %q
Provide only a single integer representing the estimated total calories burned. Do not include any other text, units, or explanations. For example: 150`,
		weight, workoutName, duration)

	text, err := s.Complete(ctx, prompt)
	if err != nil {
		return 0, err
	}
	match := firstNumber.FindString(text)
	if match == "" {
		return 0, fmt.Errorf("no number in burn estimate: %w", errs.ErrOracleUnavailable)
	}
	calories, _ := strconv.Atoi(match)
	return calories, nil
}

// AnalyzeProgress reviews a week of calorie and workout series.
func (s *CoachService) AnalyzeProgress(ctx context.Context, userID uint, calorieDays []DayCalories, workoutDays []DayMinutes) (string, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("User's Goal: %s\n", user.Goal))
	sb.WriteString(fmt.Sprintf("User's Profile Details: Age %d, Weight %.0f kg, Height %.0f cm.\n", user.Age, user.Weight, user.Height))
	sb.WriteString("Last 7 Days Calorie Intake:\n")
	if len(calorieDays) == 0 {
		sb.WriteString("- (no meals logged)\n")
	}
	for _, d := range calorieDays {
		sb.WriteString(fmt.Sprintf("- %s: %d kcal\n", d.Date, d.Calories))
	}
	sb.WriteString("Last 7 Days Workouts:\n")
	if len(workoutDays) == 0 {
		sb.WriteString("- (no workouts logged)\n")
	}
	for _, d := range workoutDays {
		sb.WriteString(fmt.Sprintf("- %s: %d minutes\n", d.Date, d.Minutes))
	}

	prompt := fmt.Sprintf(`You are an expert fitness and nutrition coach reviewing a user's weekly data.
Here is the summary:
%s
Based on this data, provide a short (3-4 sentences), encouraging, and insightful analysis. Comment on their consistency, calorie intake relative to common goals, and provide one specific, actionable tip for the upcoming week. Address the user directly.`,
		sb.String())

	return s.Complete(ctx, prompt)
}

// Chat answers a free-form question with the user's profile as context.
func (s *CoachService) Chat(ctx context.Context, userID uint, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("message is required: %w", errs.ErrValidation)
	}
	user, err := s.user(ctx, userID)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(`You are FitBot, a friendly and motivational fitness assistant.
A user is asking for advice. Use their profile information to give a personalized, helpful, and concise response (3-4 sentences).
User Profile:
- Name: %s
- Stated Goal: %s
- Weight: %.0f kg
- Height: %.0f cm
- Age: %d
- Activity Level: %s
User's Message: %q
Your Response:`,
		user.Name, user.Goal, user.Weight, user.Height, user.Age, user.ActivityLevel, message)

	return s.Complete(ctx, prompt)
}

// GoalTips produces three actionable tips toward the user's weight goal.
func (s *CoachService) GoalTips(ctx context.Context, userID uint) (string, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.GoalType == "" || user.TargetWeight <= 0 {
		return "", fmt.Errorf("user goal not set: %w", errs.ErrValidation)
	}

	currentWeight := user.Weight
	if currentWeight <= 0 {
		currentWeight = user.TargetWeight
	}
	activityLevel := user.ActivityLevel
	if activityLevel == "" {
		activityLevel = "Moderately Active"
	}

	prompt := fmt.Sprintf(`You are an expert fitness and nutrition coach. A user needs advice to reach their weight goal.
User's Profile:
- Current Weight: %.0f kg
- Goal Type: %s
- Target Weight: %.0f kg
- Activity Level: %s
Based on this, provide 3 short, encouraging, and highly actionable tips to help them progress. Format the response as a simple list with bullet points or dashes.`,
		currentWeight, user.GoalType, user.TargetWeight, activityLevel)

	return s.Complete(ctx, prompt)
}

var jsonFence = regexp.MustCompile("```(?:json)?\n?")

// ClassifyMealNames labels each distinct meal name Healthy/Unhealthy in
// a single round trip; the reply is a JSON object keyed by name.
func (s *CoachService) ClassifyMealNames(ctx context.Context, names []string) (map[string]string, error) {
	if len(names) == 0 {
		return map[string]string{}, nil
	}
	nameList, _ := json.Marshal(names)
	prompt := fmt.Sprintf(`You are a nutrition expert. For the following JSON array of meal names, classify each as "Healthy" or "Unhealthy". Return your response as a single JSON object where keys are the meal names and values are the classification. For example: {"Grilled Chicken Salad": "Healthy", "Fried Parotta": "Unhealthy"}

%s`, nameList)

	text, err := s.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	cleaned := strings.TrimSpace(jsonFence.ReplaceAllString(text, ""))
	var healthiness map[string]string
	if err := json.Unmarshal([]byte(cleaned), &healthiness); err != nil {
		return nil, fmt.Errorf("classification was not a JSON object: %w", errs.ErrOracleUnavailable)
	}
	return healthiness, nil
}

func (s *CoachService) user(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, errs.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

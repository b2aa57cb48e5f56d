package utils

import (
	"errors"
	"math"
)

const fallbackCalorieTarget = 2000

var activityMultipliers = map[string]float64{
	"Sedentary":         1.2,
	"Lightly Active":    1.375,
	"Moderately Active": 1.55,
	"Very Active":       1.725,
}

// DailyCalorieTarget estimates maintenance calories with the
// Mifflin-St Jeor equation scaled by activity level. Falls back to
// 2000 kcal whenever the profile is incomplete.
func DailyCalorieTarget(weightKg, heightCm float64, age int, gender, activityLevel string) int {
	if weightKg <= 0 || heightCm <= 0 || age <= 0 || gender == "" || activityLevel == "" {
		return fallbackCalorieTarget
	}

	var bmr float64
	switch gender {
	case "Male":
		bmr = 10*weightKg + 6.25*heightCm - 5*float64(age) + 5
	case "Female":
		bmr = 10*weightKg + 6.25*heightCm - 5*float64(age) - 161
	default:
		return fallbackCalorieTarget
	}

	multiplier, ok := activityMultipliers[activityLevel]
	if !ok {
		multiplier = 1.2
	}
	return int(math.Round(bmr * multiplier))
}

// CalculateBMI expects height in centimeters and weight in kilograms.
func CalculateBMI(heightCm, weightKg float64) (float64, error) {
	if heightCm <= 0 || weightKg <= 0 {
		return 0, errors.New("height and weight must be positive")
	}
	if heightCm < 50 || heightCm > 250 || weightKg < 10 || weightKg > 400 {
		return 0, errors.New("height/weight out of plausible range")
	}

	h := heightCm / 100.0
	return weightKg / (h * h), nil
}

func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25.0:
		return "Normal weight"
	case bmi < 30.0:
		return "Overweight"
	case bmi < 35.0:
		return "Obesity class I"
	case bmi < 40.0:
		return "Obesity class II"
	default:
		return "Obesity class III"
	}
}

package tools

import "github.com/verte-zerg/calcdeck/internal/jsnum"

func healthTools() []Tool {
	return []Tool{
		{
			Name:     "bmi",
			Title:    "BMI Calculator",
			Category: Health,
			Fields: []Field{
				{Key: "weight", Label: "Weight (kg)", Default: "70"},
				{Key: "height", Label: "Height (cm)", Default: "175"},
			},
			compute: bmi,
		},
		{
			Name:     "calorie",
			Title:    "Calorie Calculator (BMR)",
			Category: Health,
			Fields: []Field{
				{Key: "gender", Label: "Gender", Default: "male", Options: []string{"male", "female"}},
				{Key: "age", Label: "Age (years)", Default: "30"},
				{Key: "weight", Label: "Weight (kg)", Default: "70"},
				{Key: "height", Label: "Height (cm)", Default: "175"},
			},
			compute: calorie,
		},
	}
}

// BMI status thresholds.
const (
	underweightBelow = 18.5
	normalBelow      = 25
	overweightBelow  = 30
)

func bmi(_ *env, in values) []Line {
	weight, height := in.float("weight"), in.float("height")
	if anyNaN(weight, height) || weight <= 0 || height <= 0 {
		return []Line{line("BMI", "--"), line("Status", "Enter values to see status")}
	}
	meters := height / 100
	value := weight / (meters * meters)
	status := "Obesity"
	switch {
	case value < underweightBelow:
		status = "Underweight"
	case value < normalBelow:
		status = "Normal weight"
	case value < overweightBelow:
		status = "Overweight"
	}
	return []Line{line("BMI", jsnum.ToFixed(value, 2)), line("Status", status)}
}

// calorie computes basal metabolic rate with the Mifflin-St Jeor equation.
func calorie(_ *env, in values) []Line {
	age, weight, height := in.float("age"), in.float("weight"), in.float("height")
	if anyNaN(age, weight, height) || age <= 0 || weight <= 0 || height <= 0 {
		return []Line{line("BMR", "--")}
	}
	bmr := 10*weight + 6.25*height - 5*age
	if in["gender"] == "male" {
		bmr += 5
	} else {
		bmr -= 161
	}
	return []Line{line("BMR", jsnum.ToFixed(bmr, 0))}
}

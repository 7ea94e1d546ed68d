package ai

import (
	"fmt"
	"strings"
)

// paceZones is the pace zone definition block the prompt instructs the model
// to plan intensities with.
const paceZones = `{
  "pace_zones": {
    "zone_1_recovery": {
      "description": "Very easy, conversational",
      "pace_calculation": "5K_pace + 90-120 seconds",
      "hr_percentage": "65-75% max HR",
      "rpe": "2-3/10"
    },
    "zone_2_aerobic": {
      "description": "Easy, build aerobic base",
      "pace_calculation": "5K_pace + 60-90 seconds",
      "hr_percentage": "75-85% max HR",
      "rpe": "4-5/10"
    },
    "zone_3_tempo": {
      "description": "Comfortably hard, tempo pace",
      "pace_calculation": "5K_pace + 15-30 seconds",
      "hr_percentage": "85-90% max HR",
      "rpe": "6-7/10"
    },
    "zone_4_threshold": {
      "description": "Hard, lactate threshold",
      "pace_calculation": "5K_pace + 0-15 seconds",
      "hr_percentage": "90-95% max HR",
      "rpe": "7-8/10"
    },
    "zone_5_vo2max": {
      "description": "Very hard, VO2 max pace",
      "pace_calculation": "5K_pace - 5-10 seconds",
      "hr_percentage": "95-100% max HR",
      "rpe": "9-10/10"
    }
  }
}`

// buildPrompt assembles the coaching prompt from the onboarding answers and
// the selected philosophy text.
func buildPrompt(req PlanRequest, philosophyText string) string {
	var b strings.Builder

	b.WriteString("You are an expert running coach generating a personalized, day-by-day training plan for a runner for 2 weeks. Adhere strictly to all principles and rules provided. Use the detailed JSON structures provided.\n\n")

	fmt.Fprintf(&b, `**1. User Data:**
- Age: %s, Sex: %s
- Level: %s
- Goal: %s
- Motivation: %q
- Target: %s (if applicable)
- Commitment: %d days/week for 2 weeks.

`, req.AgeRange, req.Sex, req.FitnessLevel, req.Goal, req.Motivation, req.TargetOutcome, req.CommitmentDays)

	fmt.Fprintf(&b, `**2. Core Philosophy:**
Your plan MUST be based on the following running philosophy:
'''
%s
'''

`, philosophyText)

	b.WriteString(`**3. Training Principles to Adhere To:**
- **Progressive Overload:** Gradually increase the demands on the body over time.
- **Specificity:** The training should be specific to the user's goal.
- **Recovery:** Adequate rest is crucial for adaptation and injury prevention.
- **Pace Zones:** Use the provided pace zones to guide the intensity of the runs.

**4. Pace Zone Definitions:**
Use the following pace zones to define the intensity of each run. You can use the user's target outcome to estimate their 5k pace.
`)
	b.WriteString("```json\n")
	b.WriteString(paceZones)
	b.WriteString("\n```\n\n")

	b.WriteString(`**5. Output Format & Structure:**
Provide the output as a day-by-day schedule in a single JSON object keyed week_1, week_2, with each week keyed day_1 ... day_7. For each day, provide a JSON object with the specified structure.

- **Running Day Structure:**
` + "```json" + `
{
  "workout_type": "Easy Run | Tempo Run | VO2 Max Intervals | Hill Repeats",
  "purpose": "<string>",
  "intensity": "<string>",
  "rpe_target": "<string>",
  "pace_guidance": "<string>",
  "warm_up": {"duration_mins": <number>, "description": "<string>"},
  "main_workout": {"structure": "<string>", "key_points": ["<string>"]},
  "cool_down": {"duration_mins": <number>, "description": "<string>"}
}
` + "```" + `

- **Strength Day Structure:**
` + "```json" + `
{
  "workout_type": "Strength",
  "purpose": "<string>",
  "routine_name": "<string>",
  "total_duration": "<string>",
  "warm_up": {"duration": "<string>", "exercises": [{"name": "<string>", "duration": "<string>"}]},
  "main_circuit": {"rounds": <number>, "exercises": [{"name": "<string>", "sets": "<string>", "reps": "<string>"}]}
}
` + "```" + `

- **Rest Day Structure:**
` + "```json" + `
{
  "workout_type": "Rest",
  "purpose": "<string>",
  "optional_activity": "<string>"
}
` + "```" + `

Respond ONLY with the JSON object, no markdown fences, no preamble.`)

	return b.String()
}

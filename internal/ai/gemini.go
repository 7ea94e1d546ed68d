package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

// geminiClient is the concrete Planner backed by the Gemini generateContent
// API.
type geminiClient struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGeminiClient returns a Planner that calls the Gemini API.
//   - apiKey: your GEMINI_API_KEY
//   - model:  e.g. "gemini-1.5-pro-latest"
func NewGeminiClient(apiKey, model string) Planner {
	return &geminiClient{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

// ─── RUNNING PHILOSOPHIES ─────────────────────────────────────────────────────

// Philosophies maps each named running philosophy to its full coaching text.
// The selected text is inlined into the plan prompt verbatim.
var Philosophies = map[string]string{
	"The Gentle Start":            "This philosophy is for those new to running. It focuses on building a consistent habit and enjoying the process. The plan will gradually increase in duration and intensity, with a mix of running and walking to ease you into it. The key is to listen to your body and not push too hard too soon.",
	"The Balanced & Motivational": "This philosophy is for runners who want to improve but also maintain a healthy balance with other aspects of life. The plan will include a variety of runs to keep things interesting, with a focus on positive reinforcement and celebrating small wins. It's about making running a sustainable and enjoyable part of your lifestyle.",
	"Train Smarter Not Harder":    "This philosophy is for the data-driven runner who wants to maximize their performance efficiently. The plan will focus on quality over quantity, with specific workouts designed to improve your pace and endurance. It will incorporate principles of polarized training, with a mix of high-intensity and low-intensity sessions.",
	"The Performance Push":        "This philosophy is for the experienced runner who is ready to push their limits and achieve a new personal best. The plan will be challenging and demanding, with a high volume of running and intense workouts. It's designed to get you to the starting line feeling strong, confident, and ready to race.",
}

// ─── GEMINI API SHAPES ────────────────────────────────────────────────────────

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// ─── PLAN JSON ────────────────────────────────────────────────────────────────
// The model is prompted to respond with a week_N → day_N object tree using
// these day shapes.

type dayJSON struct {
	WorkoutType string `json:"workout_type"`
	Purpose     string `json:"purpose"`

	// Running days.
	Intensity    string `json:"intensity"`
	RPETarget    string `json:"rpe_target"`
	PaceGuidance string `json:"pace_guidance"`
	WarmUp       *struct {
		DurationMins json.Number `json:"duration_mins"`
		Description  string      `json:"description"`
	} `json:"warm_up"`
	MainWorkout *struct {
		Structure string   `json:"structure"`
		KeyPoints []string `json:"key_points"`
	} `json:"main_workout"`
	CoolDown *struct {
		DurationMins json.Number `json:"duration_mins"`
		Description  string      `json:"description"`
	} `json:"cool_down"`

	// Strength days.
	RoutineName   string `json:"routine_name"`
	TotalDuration string `json:"total_duration"`
	MainCircuit   *struct {
		Rounds    json.Number `json:"rounds"`
		Exercises []struct {
			Name string `json:"name"`
			Sets string `json:"sets"`
			Reps string `json:"reps"`
		} `json:"exercises"`
	} `json:"main_circuit"`

	// Rest days.
	OptionalActivity string `json:"optional_activity"`
}

// ─── IMPLEMENTATION ───────────────────────────────────────────────────────────

// GeneratePlan calls the Gemini API and parses the day-by-day plan JSON.
func (c *geminiClient) GeneratePlan(ctx context.Context, req PlanRequest) (GeneratedPlan, error) {
	philosophy, ok := Philosophies[req.Philosophy]
	if !ok {
		return GeneratedPlan{}, fmt.Errorf("ai: unknown philosophy %q", req.Philosophy)
	}

	raw, err := c.call(ctx, buildPrompt(req, philosophy))
	if err != nil {
		return GeneratedPlan{}, err
	}

	return ParsePlanResponse(raw)
}

func (c *geminiClient) call(ctx context.Context, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("ai: marshal request: %w", err)
	}

	url := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s",
		c.model, c.apiKey,
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("ai: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("ai: http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("ai: read response: %w", err)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return "", fmt.Errorf("ai: unmarshal response (status %d): %w", resp.StatusCode, err)
	}

	if parsed.Error != nil {
		return "", fmt.Errorf("ai: Gemini error %s: %s", parsed.Error.Status, parsed.Error.Message)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("ai: empty response (status %d)", resp.StatusCode)
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// ParsePlanResponse strips any markdown fences and parses the model's
// week_N → day_N JSON into a GeneratedPlan ordered by (week, day). Exported
// so it can be tested against canned model output without a network call.
func ParsePlanResponse(raw string) (GeneratedPlan, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var weeks map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &weeks); err != nil {
		return GeneratedPlan{}, fmt.Errorf("ai: parse plan JSON: %w", err)
	}

	var plan GeneratedPlan
	for weekKey, weekRaw := range weeks {
		week, ok := trailingIndex(weekKey, "week")
		if !ok {
			continue // top-level keys that are not week_N are ignored
		}
		if week > plan.Weeks {
			plan.Weeks = week
		}

		var days map[string]json.RawMessage
		if err := json.Unmarshal(weekRaw, &days); err != nil {
			return GeneratedPlan{}, fmt.Errorf("ai: parse %s: %w", weekKey, err)
		}

		for dayKey, dayRaw := range days {
			day, ok := trailingIndex(dayKey, "day")
			if !ok {
				continue // e.g. weekly_gear_tip
			}

			var d dayJSON
			if err := json.Unmarshal(dayRaw, &d); err != nil {
				return GeneratedPlan{}, fmt.Errorf("ai: parse %s/%s: %w", weekKey, dayKey, err)
			}
			plan.Workouts = append(plan.Workouts, normaliseDay(week, day, d))
		}
	}

	if len(plan.Workouts) == 0 {
		return GeneratedPlan{}, fmt.Errorf("ai: plan contains no workouts")
	}

	sort.Slice(plan.Workouts, func(i, j int) bool {
		a, b := plan.Workouts[i], plan.Workouts[j]
		if a.Week != b.Week {
			return a.Week < b.Week
		}
		return a.Day < b.Day
	})
	return plan, nil
}

// trailingIndex extracts N from keys like "week_1" or "day_3".
func trailingIndex(key, prefix string) (int, bool) {
	rest, found := strings.CutPrefix(strings.ToLower(key), prefix+"_")
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// normaliseDay flattens one model day object into a PlannedWorkout.
func normaliseDay(week, day int, d dayJSON) PlannedWorkout {
	w := PlannedWorkout{
		Week:        week,
		Day:         day,
		Type:        d.WorkoutType,
		Title:       d.WorkoutType,
		Description: d.Purpose,
	}
	if d.RoutineName != "" {
		w.Title = d.RoutineName
	}

	var duration int64
	if d.WarmUp != nil {
		if mins, err := d.WarmUp.DurationMins.Int64(); err == nil {
			duration += mins
			w.Warmup = fmt.Sprintf("%d min — %s", mins, d.WarmUp.Description)
		} else {
			w.Warmup = d.WarmUp.Description
		}
	}
	if d.CoolDown != nil {
		if mins, err := d.CoolDown.DurationMins.Int64(); err == nil {
			duration += mins
			w.Cooldown = fmt.Sprintf("%d min — %s", mins, d.CoolDown.Description)
		} else {
			w.Cooldown = d.CoolDown.Description
		}
	}

	switch {
	case d.MainWorkout != nil:
		var b strings.Builder
		b.WriteString(d.MainWorkout.Structure)
		for _, point := range d.MainWorkout.KeyPoints {
			b.WriteString("\n- ")
			b.WriteString(point)
		}
		w.MainSet = b.String()
	case d.MainCircuit != nil:
		var b strings.Builder
		if rounds, err := d.MainCircuit.Rounds.Int64(); err == nil {
			fmt.Fprintf(&b, "%d rounds", rounds)
		}
		for _, ex := range d.MainCircuit.Exercises {
			fmt.Fprintf(&b, "\n- %s: %s sets of %s", ex.Name, ex.Sets, ex.Reps)
		}
		w.MainSet = strings.TrimSpace(b.String())
	case d.OptionalActivity != "":
		w.Description = joinNonEmpty(d.Purpose, "Optional: "+d.OptionalActivity)
	}

	// Pace guidance belongs with the instructional content, not lost.
	if d.PaceGuidance != "" && w.MainSet != "" {
		w.MainSet += "\nPace: " + d.PaceGuidance
	}

	w.DurationMinutes = duration
	return w
}

func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

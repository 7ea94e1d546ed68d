package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"
)

// resendClient is the concrete Sender backed by the Resend API.
type resendClient struct {
	apiKey     string
	fromAddr   string // e.g. "coach@runna.fit"
	fromName   string // e.g. "Runna"
	baseURL    string // app URL used in CTA links, e.g. "https://app.runna.fit"
	httpClient *http.Client
}

// NewResendClient returns a Sender that delivers email via Resend. The caller
// (main.go) must only construct this when an API key is configured; use
// NewDisabledSender otherwise.
func NewResendClient(apiKey, fromAddr, fromName, baseURL string) Sender {
	return &resendClient{
		apiKey:   apiKey,
		fromAddr: fromAddr,
		fromName: fromName,
		baseURL:  baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ─── RESEND API SHAPES ────────────────────────────────────────────────────────

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendResponse struct {
	ID    string `json:"id"`
	Error *struct {
		Name       string `json:"name"`
		Message    string `json:"message"`
		StatusCode int    `json:"statusCode"`
	} `json:"error"`
}

// ─── SENDER IMPLEMENTATION ────────────────────────────────────────────────────

// SendWorkoutReminder sends one workout reminder email.
func (c *resendClient) SendWorkoutReminder(ctx context.Context, p WorkoutReminderParams) error {
	if p.To == "" {
		return ErrNoAddress
	}

	date := longDate(p.Date)
	subject := fmt.Sprintf("Your workout for %s", date)
	if p.Title != "" {
		subject = fmt.Sprintf("%s — %s", subject, p.Title)
	}

	return c.send(ctx, p.To, subject, workoutReminderHTML(p, date, c.baseURL))
}

// SendPlanReady sends the "your plan is ready" email after generation.
func (c *resendClient) SendPlanReady(ctx context.Context, p PlanReadyParams) error {
	if p.To == "" {
		return ErrNoAddress
	}

	return c.send(ctx, p.To, "Your Training Plan is Ready", planReadyHTML(p, c.baseURL))
}

// ─── HTTP SEND ────────────────────────────────────────────────────────────────

func (c *resendClient) send(ctx context.Context, to, subject, htmlBody string) error {
	from := fmt.Sprintf("%s <%s>", c.fromName, c.fromAddr)

	reqBody := resendRequest{
		From:    from,
		To:      []string{to},
		Subject: subject,
		HTML:    htmlBody,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("email: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://api.resend.com/emails",
		bytes.NewReader(bodyBytes),
	)
	if err != nil {
		return fmt.Errorf("email: build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("email: http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return fmt.Errorf("email: read response: %w", err)
	}

	var parsed resendResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return fmt.Errorf("email: unmarshal response (status %d): %w", resp.StatusCode, err)
	}

	if parsed.Error != nil {
		return fmt.Errorf("email: Resend error %s: %s", parsed.Error.Name, parsed.Error.Message)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("email: unexpected status %d: %.200s", resp.StatusCode, string(respBytes))
	}

	return nil
}

// ─── HTML TEMPLATES ───────────────────────────────────────────────────────────

// longDate formats a YYYY-MM-DD date as "Monday, January 2". A date that does
// not parse is rendered as-is rather than dropped.
func longDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("Monday, January 2")
}

// workoutReminderHTML renders the reminder body. The main set falls back to
// the free-text description when empty; sections with no content are omitted
// entirely so the email never shows an empty heading.
func workoutReminderHTML(p WorkoutReminderParams, date, baseURL string) string {
	greeting := "Hello runner"
	if p.DisplayName != "" {
		greeting = fmt.Sprintf("Hello %s", html.EscapeString(p.DisplayName))
	}

	mainContent := p.MainSet
	if mainContent == "" {
		mainContent = p.Description
	}

	var rows strings.Builder
	addRow := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&rows, `  <p style="margin: 4px 0;"><strong>%s:</strong> %s</p>
`, label, html.EscapeString(value))
	}

	addRow("Workout", p.Title)
	addRow("Type", p.Type)
	if p.DurationMinutes > 0 {
		addRow("Duration", fmt.Sprintf("%d min", p.DurationMinutes))
	}
	if p.DistanceKm > 0 {
		addRow("Distance", fmt.Sprintf("%.1f km", p.DistanceKm))
	}
	addRow("Warm-up", p.Warmup)
	addRow("Main set", mainContent)
	addRow("Cool-down", p.Cooldown)

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: sans-serif; color: #1a1a1a; max-width: 560px; margin: 0 auto; padding: 24px;">
  <h2 style="margin-bottom: 8px;">Tomorrow&rsquo;s Run — %s</h2>
  <p>%s,</p>
  <p>Here is what your training plan has lined up for %s:</p>
%s  <p style="margin: 32px 0;">
    <a href="%s/today"
       style="background: #0f172a; color: #ffffff; padding: 12px 24px;
              border-radius: 6px; text-decoration: none; font-weight: 600;">
      Open Your Plan
    </a>
  </p>
  <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 32px 0;">
  <p style="color: #9ca3af; font-size: 12px;">
    Runna · Your personalised running plan
  </p>
</body>
</html>`, date, greeting, date, rows.String(), baseURL)
}

func planReadyHTML(p PlanReadyParams, baseURL string) string {
	greeting := "Hello runner"
	if p.DisplayName != "" {
		greeting = fmt.Sprintf("Hello %s", html.EscapeString(p.DisplayName))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: sans-serif; color: #1a1a1a; max-width: 560px; margin: 0 auto; padding: 24px;">
  <h2 style="margin-bottom: 8px;">Your Training Plan is Ready</h2>
  <p>%s,</p>
  <p>Your %d-week personalised running plan has been generated and starts on
  <strong>%s</strong>. Each evening you&rsquo;ll get a reminder with the next
  day&rsquo;s session.</p>
  <p style="margin: 32px 0;">
    <a href="%s/plan"
       style="background: #0f172a; color: #ffffff; padding: 12px 24px;
              border-radius: 6px; text-decoration: none; font-weight: 600;">
      View Your Plan
    </a>
  </p>
  <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 32px 0;">
  <p style="color: #9ca3af; font-size: 12px;">
    Runna · Your personalised running plan
  </p>
</body>
</html>`, greeting, p.Weeks, longDate(p.StartDate), baseURL)
}

package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"weeklymemories/internal/clock"
	"weeklymemories/internal/tokens"
	"weeklymemories/internal/window"
)

// EmailSender is the outbound email capability used by the dispatcher
type EmailSender interface {
	Send(ctx context.Context, toEmail, subject, body string) error
	IsEnabled() bool
}

// ReminderResult records the outcome for one author of a dispatch run
type ReminderResult struct {
	Author  string `json:"author"`
	Sent    bool   `json:"sent"`
	Skipped string `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ReminderService sends the weekly write reminders and the admin-triggered
// test emails. One author's failure never blocks the others.
type ReminderService struct {
	authors    []string
	recipients map[string]string
	tokenStore *TokenService
	memories   *MemoryService
	codec      *tokens.Codec
	email      EmailSender
	policy     *window.Policy
	clock      *clock.Clock
	baseURL    string
}

func NewReminderService(
	authors []string,
	recipients map[string]string,
	tokenStore *TokenService,
	memories *MemoryService,
	codec *tokens.Codec,
	email EmailSender,
	policy *window.Policy,
	clk *clock.Clock,
	baseURL string,
) *ReminderService {
	return &ReminderService{
		authors:    authors,
		recipients: recipients,
		tokenStore: tokenStore,
		memories:   memories,
		codec:      codec,
		email:      email,
		policy:     policy,
		clock:      clk,
		baseURL:    baseURL,
	}
}

// SendWeeklyReminders mails each author who has not yet written this week's
// entry a single-use deep link. The scheduler fires on Sundays; the weekday
// guard here protects against a misconfigured trigger.
func (s *ReminderService) SendWeeklyReminders(ctx context.Context) []ReminderResult {
	now := s.clock.Now()
	if !s.policy.IsSunday(now) {
		log.Printf("Reminder dispatch skipped: %s is not a Sunday", now.Format("2006-01-02"))
		return nil
	}

	monday := s.policy.WeekStart(now)
	results := make([]ReminderResult, 0, len(s.authors))

	for _, author := range s.authors {
		result := ReminderResult{Author: author}

		to, ok := s.recipients[author]
		if !ok || to == "" {
			result.Skipped = "no recipient configured"
			results = append(results, result)
			continue
		}

		written, err := s.memories.HasEntryForWeek(ctx, author, now)
		if err != nil {
			result.Error = err.Error()
			log.Printf("Reminder for %s failed: %v", author, err)
			results = append(results, result)
			continue
		}
		if written {
			result.Skipped = "entry already written"
			results = append(results, result)
			continue
		}

		tokenValue, err := s.tokenStore.Issue(ctx, author, DefaultTokenTTL)
		if err != nil {
			result.Error = err.Error()
			log.Printf("Reminder for %s failed: %v", author, err)
			results = append(results, result)
			continue
		}

		link := s.tokenLink(tokenValue)
		weekDate := monday.Format("2006-01-02")
		subject := fmt.Sprintf("Reminder: write your weekly memory (%s)", weekDate)
		body := fmt.Sprintf(
			"Hi %s,\n\nIt's time to write your weekly memory for the week starting %s.\nUse the following link to sign in and write: %s\n\nTake care.",
			author, weekDate, link,
		)

		if err := s.email.Send(ctx, to, subject, body); err != nil {
			result.Error = err.Error()
			log.Printf("Reminder for %s failed: %v", author, err)
			results = append(results, result)
			continue
		}

		result.Sent = true
		results = append(results, result)
	}

	return results
}

// SendTestEmails mails each configured author a fresh durable signed token.
// Used by the admin to distribute provisioned credentials out-of-band.
func (s *ReminderService) SendTestEmails(ctx context.Context) []ReminderResult {
	results := make([]ReminderResult, 0, len(s.authors))

	for _, author := range s.authors {
		result := ReminderResult{Author: author}

		to, ok := s.recipients[author]
		if !ok || to == "" {
			result.Skipped = "no recipient configured"
			results = append(results, result)
			continue
		}

		token, err := s.codec.Issue(author)
		if err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		link := s.writeLink(token)
		subject := "Your weekly memories access link"
		body := fmt.Sprintf(
			"Hi %s,\n\nHere is your personal access link for the weekly memories journal: %s\n\nKeep it private; it does not expire.",
			author, link,
		)

		if err := s.email.Send(ctx, to, subject, body); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		result.Sent = true
		results = append(results, result)
	}

	return results
}

// tokenLink builds the deep link for a single-use token. Without a configured
// base URL the raw token is included so the recipient can build the link.
func (s *ReminderService) tokenLink(token string) string {
	if s.baseURL == "" {
		return "TOKEN:" + token
	}
	return strings.TrimRight(s.baseURL, "/") + "/token/" + token
}

// writeLink builds the frontend write-page link for a durable signed token
func (s *ReminderService) writeLink(token string) string {
	if s.baseURL == "" {
		return "TOKEN:" + token
	}
	return strings.TrimRight(s.baseURL, "/") + "/write?token=" + token
}

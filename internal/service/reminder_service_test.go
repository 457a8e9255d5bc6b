package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"weeklymemories/internal/clock"
	"weeklymemories/internal/repository"
	"weeklymemories/internal/tokens"
)

type fakeSender struct {
	sent    []fakeEmail
	failFor map[string]bool
}

type fakeEmail struct {
	to      string
	subject string
	body    string
}

func (f *fakeSender) Send(_ context.Context, to, subject, body string) error {
	if f.failFor[to] {
		return errors.New("smtp boom")
	}
	f.sent = append(f.sent, fakeEmail{to: to, subject: subject, body: body})
	return nil
}

func (f *fakeSender) IsEnabled() bool { return true }

func newReminderFixture(t *testing.T, clk *clock.Clock, recipients map[string]string, sender *fakeSender) (*ReminderService, *MemoryService, *TokenService) {
	t.Helper()

	db := testDB(t)
	store := NewTokenService(repository.NewTokenRepository(db), clk)
	memories := NewMemoryService(repository.NewMemoryRepository(db), testPolicy(t))
	codec := tokens.NewCodec(serviceTestSecret(), serviceTestAuthors)

	svc := NewReminderService(
		serviceTestAuthors, recipients, store, memories, codec,
		sender, testPolicy(t), clk, "https://memories.example.com",
	)
	return svc, memories, store
}

func TestSendWeeklyRemindersMailsMissingAuthors(t *testing.T) {
	clk := frozenClock(t) // Sunday 2026-01-11 noon
	sender := &fakeSender{}
	recipients := map[string]string{
		"Jaime": "jaime@example.com",
		"Gabi":  "gabi@example.com",
	}
	svc, memories, store := newReminderFixture(t, clk, recipients, sender)
	ctx := context.Background()

	// Gabi already wrote this week
	if _, err := memories.WriteWeekly(ctx, "Gabi", "done", clk.Now()); err != nil {
		t.Fatalf("WriteWeekly() error = %v", err)
	}

	results := svc.SendWeeklyReminders(ctx)
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}

	byAuthor := make(map[string]ReminderResult)
	for _, r := range results {
		byAuthor[r.Author] = r
	}

	if !byAuthor["Jaime"].Sent {
		t.Errorf("Jaime result = %+v, want sent", byAuthor["Jaime"])
	}
	if byAuthor["Gabi"].Sent || byAuthor["Gabi"].Skipped == "" {
		t.Errorf("Gabi result = %+v, want skipped", byAuthor["Gabi"])
	}

	if len(sender.sent) != 1 {
		t.Fatalf("emails sent = %d, want 1", len(sender.sent))
	}
	mail := sender.sent[0]
	if mail.to != "jaime@example.com" {
		t.Errorf("email to = %s, want jaime@example.com", mail.to)
	}
	if !strings.Contains(mail.subject, "2026-01-05") {
		t.Errorf("subject %q should name the week's Monday", mail.subject)
	}
	if !strings.Contains(mail.body, "https://memories.example.com/token/") {
		t.Errorf("body %q should carry a token deep link", mail.body)
	}

	// The link's token must resolve to the reminded author
	idx := strings.Index(mail.body, "/token/")
	rest := mail.body[idx+len("/token/"):]
	tokenValue := strings.Fields(rest)[0]
	author, err := store.Peek(ctx, tokenValue)
	if err != nil || author != "Jaime" {
		t.Errorf("emailed token resolves to (%q, %v), want Jaime", author, err)
	}
}

func TestSendWeeklyRemindersSkipsNonSunday(t *testing.T) {
	loc := madridLocation(t)
	clk := clock.NewFrozen(loc, time.Date(2026, 1, 12, 9, 0, 0, 0, loc)) // Monday
	sender := &fakeSender{}
	svc, _, _ := newReminderFixture(t, clk, map[string]string{"Jaime": "jaime@example.com"}, sender)

	results := svc.SendWeeklyReminders(context.Background())
	if results != nil {
		t.Errorf("results = %+v, want nil on a non-Sunday", results)
	}
	if len(sender.sent) != 0 {
		t.Errorf("emails sent = %d, want 0", len(sender.sent))
	}
}

func TestSendWeeklyRemindersIsolatesFailures(t *testing.T) {
	clk := frozenClock(t)
	sender := &fakeSender{failFor: map[string]bool{"jaime@example.com": true}}
	recipients := map[string]string{
		"Jaime": "jaime@example.com",
		"Gabi":  "gabi@example.com",
	}
	svc, _, _ := newReminderFixture(t, clk, recipients, sender)

	results := svc.SendWeeklyReminders(context.Background())

	byAuthor := make(map[string]ReminderResult)
	for _, r := range results {
		byAuthor[r.Author] = r
	}

	if byAuthor["Jaime"].Error == "" {
		t.Errorf("Jaime result = %+v, want recorded error", byAuthor["Jaime"])
	}
	// One author's failure must not block the other
	if !byAuthor["Gabi"].Sent {
		t.Errorf("Gabi result = %+v, want sent", byAuthor["Gabi"])
	}
}

func TestSendWeeklyRemindersSkipsMissingRecipient(t *testing.T) {
	clk := frozenClock(t)
	sender := &fakeSender{}
	svc, _, _ := newReminderFixture(t, clk, map[string]string{"Jaime": "jaime@example.com"}, sender)

	results := svc.SendWeeklyReminders(context.Background())

	for _, r := range results {
		if r.Author == "Gabi" && r.Skipped != "no recipient configured" {
			t.Errorf("Gabi result = %+v, want skipped for missing recipient", r)
		}
	}
}

func TestSendTestEmailsDeliversSignedTokens(t *testing.T) {
	clk := frozenClock(t)
	sender := &fakeSender{}
	recipients := map[string]string{
		"Jaime": "jaime@example.com",
		"Gabi":  "gabi@example.com",
	}
	svc, _, _ := newReminderFixture(t, clk, recipients, sender)

	results := svc.SendTestEmails(context.Background())
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	for _, r := range results {
		if !r.Sent {
			t.Errorf("result %+v, want sent", r)
		}
	}

	codec := tokens.NewCodec(serviceTestSecret(), serviceTestAuthors)
	for _, mail := range sender.sent {
		if !strings.Contains(mail.body, "/write?token=") {
			t.Fatalf("body %q should carry a write link", mail.body)
		}
		idx := strings.Index(mail.body, "token=")
		rest := mail.body[idx+len("token="):]
		tokenValue := strings.Fields(rest)[0]
		if _, err := codec.Verify(tokenValue); err != nil {
			t.Errorf("emailed signed token failed verification: %v", err)
		}
	}
}

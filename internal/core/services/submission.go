package services

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
)

// Submission tag values fixed by the publishing platform.
const (
	submissionZapLimit = "10"
	submissionPrice    = "1000"
)

// newSubmissionValidator returns a validator reporting json field names.
func newSubmissionValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// cleanSubmission trims every field and normalises topics to a
// lower-case, de-duplicated list.
func cleanSubmission(sub domain.PaperSubmission) domain.PaperSubmission {
	sub.Title = strings.TrimSpace(sub.Title)
	sub.Abstract = strings.TrimSpace(sub.Abstract)
	sub.Content = strings.TrimSpace(sub.Content)
	sub.Authors = strings.TrimSpace(sub.Authors)
	sub.Keywords = strings.TrimSpace(sub.Keywords)
	sub.DOI = strings.TrimSpace(sub.DOI)
	sub.Funding = strings.TrimSpace(sub.Funding)
	sub.Institution = strings.TrimSpace(sub.Institution)

	seen := make(map[string]bool, len(sub.Topics))
	topics := make([]string, 0, len(sub.Topics))
	for _, t := range sub.Topics {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		topics = append(topics, t)
	}
	sub.Topics = topics
	return sub
}

// validateSubmission checks sub and returns domain.ValidationErrors with one
// entry per failing field.
func validateSubmission(v *validator.Validate, sub domain.PaperSubmission) error {
	err := v.Struct(sub)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate submission: %w", err)
	}

	out := make(domain.ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, domain.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("select at least %s", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// newSlug returns a per-author paper identifier: paper-<unix ms>-<9 chars>.
func newSlug(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("paper-%d-%s", now.UnixMilli(), random)
}

// buildPaperEvent builds the unsigned long-form event for sub.
func buildPaperEvent(sub domain.PaperSubmission, slug string, now time.Time) *domain.Event {
	ev := &domain.Event{
		Kind:      domain.KindLongForm,
		CreatedAt: now.Unix(),
		Content:   sub.Content,
	}
	ev.AddTag("d", slug)
	ev.AddTag("title", sub.Title)
	ev.AddTag("summary", sub.Abstract)
	ev.AddTag("published_at", strconv.FormatInt(now.Unix(), 10))
	for _, marker := range domain.ResearchMarkers {
		ev.AddTag("t", marker)
	}
	for _, topic := range sub.Topics {
		if domain.IsResearchMarker(topic) {
			continue
		}
		ev.AddTag("t", topic)
	}
	ev.AddTag("authors", sub.Authors)
	ev.AddTag("keywords", sub.Keywords)
	ev.AddTag("zap_limit", submissionZapLimit)
	ev.AddTag("price", submissionPrice)
	if sub.DOI != "" {
		ev.AddTag("doi", sub.DOI)
	}
	if sub.Funding != "" {
		ev.AddTag("funding", sub.Funding)
	}
	if sub.Institution != "" {
		ev.AddTag("institution", sub.Institution)
	}
	return ev
}

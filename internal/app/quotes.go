package app

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"horizon_web/internal/domain"
)

const (
	MaxUploadBytes    = 10 * 1024 * 1024
	minNameLen        = 2
	minDescriptionLen = 20
	maxDescriptionLen = 2000
	minPhoneDigits    = 10
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^[\d\s+\-()]+$`)

	AllowedFileTypes = []string{"pdf", "doc", "docx", "jpg", "jpeg", "png", "zip"}
)

// QuoteInput is the contact form as submitted. File content is not uploaded
// here; only its name and size are checked and recorded.
type QuoteInput struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Service            string `json:"service"`
	BudgetRange        string `json:"budgetRange"`
	ProjectDescription string `json:"projectDescription"`
	FileName           string `json:"fileName,omitempty"`
	FileSize           int64  `json:"fileSize,omitempty"`
}

// ValidateQuote returns nil or a *domain.ValidationError with one message per
// failing field.
func ValidateQuote(in QuoteInput) error {
	errs := map[string]string{}

	switch name := strings.TrimSpace(in.Name); {
	case name == "":
		errs["name"] = "Name is required"
	case utf8.RuneCountInString(name) < minNameLen:
		errs["name"] = "Name must be at least 2 characters"
	}

	switch {
	case strings.TrimSpace(in.Email) == "":
		errs["email"] = "Email is required"
	case !emailRe.MatchString(in.Email):
		errs["email"] = "Please enter a valid email address (e.g., name@example.com)"
	}

	switch {
	case strings.TrimSpace(in.Phone) == "":
		errs["phone"] = "Phone number is required"
	case !phoneRe.MatchString(in.Phone):
		errs["phone"] = "Please enter a valid phone number"
	case countDigits(in.Phone) < minPhoneDigits:
		errs["phone"] = "Phone number must contain at least 10 digits"
	}

	switch {
	case in.Service == "":
		errs["service"] = "Please select a service"
	case !slices.Contains(domain.Services, in.Service):
		errs["service"] = "Please select a valid service"
	}

	switch {
	case in.BudgetRange == "":
		errs["budgetRange"] = "Please select a budget range"
	case !slices.Contains(domain.BudgetRanges, in.BudgetRange):
		errs["budgetRange"] = "Please select a valid budget range"
	}

	desc := utf8.RuneCountInString(strings.TrimSpace(in.ProjectDescription))
	switch {
	case desc == 0:
		errs["projectDescription"] = "Project description is required"
	case desc < minDescriptionLen:
		errs["projectDescription"] = "Please provide more details (at least 20 characters)"
	case desc > maxDescriptionLen:
		errs["projectDescription"] = "Description must be less than 2000 characters"
	}

	if msg := validateFile(in.FileName, in.FileSize); msg != "" {
		errs["file"] = msg
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Fields: errs}
	}
	return nil
}

func validateFile(name string, size int64) string {
	if name == "" && size == 0 {
		return ""
	}
	if size > MaxUploadBytes {
		return "File size must be less than 10MB"
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" || !slices.Contains(AllowedFileTypes, ext) {
		return "File type not allowed. Allowed types: " + strings.Join(AllowedFileTypes, ", ")
	}
	return ""
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

type QuoteService struct {
	repo     domain.QuoteRepository
	notifier domain.QuoteNotifier
	now      func() time.Time
	log      zerolog.Logger
}

func NewQuoteService(r domain.QuoteRepository, n domain.QuoteNotifier, now func() time.Time, log zerolog.Logger) *QuoteService {
	if now == nil {
		now = time.Now
	}
	return &QuoteService{repo: r, notifier: n, now: now, log: log.With().Str("component", "quotes").Logger()}
}

// Submit validates and stores a quote request, then sends the notification.
// A failed notification is logged and never fails the submission.
func (s *QuoteService) Submit(ctx context.Context, in QuoteInput) (domain.QuoteRequest, error) {
	if err := ValidateQuote(in); err != nil {
		return domain.QuoteRequest{}, err
	}

	q := domain.QuoteRequest{
		ID:                 uuid.NewString(),
		Name:               strings.TrimSpace(in.Name),
		Email:              strings.TrimSpace(in.Email),
		Phone:              strings.TrimSpace(in.Phone),
		Service:            in.Service,
		BudgetRange:        in.BudgetRange,
		ProjectDescription: strings.TrimSpace(in.ProjectDescription),
		FileName:           in.FileName,
		FileSize:           in.FileSize,
		Status:             domain.QuotePending,
		CreatedAt:          s.now().UTC(),
	}
	if err := s.repo.CreateQuote(ctx, q); err != nil {
		return domain.QuoteRequest{}, fmt.Errorf("create quote request: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyQuote(ctx, q); err != nil {
			s.log.Error().Err(err).Str("quote_id", q.ID).Msg("quote notification failed")
		}
	}
	s.log.Info().Str("quote_id", q.ID).Str("service", q.Service).Msg("quote request created")
	return q, nil
}

func (s *QuoteService) Get(ctx context.Context, id string) (domain.QuoteRequest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.QuoteRequest{}, domain.ErrNotFound
	}
	return s.repo.GetQuote(ctx, id)
}

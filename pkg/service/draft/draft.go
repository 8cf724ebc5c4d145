// Package draft turns bank notification texts into Draft expenses in the
// user's drafts account, where they wait to be categorised and moved.
package draft

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/saveblue/saveblue/pkg/domain"
	"github.com/saveblue/saveblue/pkg/domain/category"
	"github.com/saveblue/saveblue/pkg/domain/entry"
	"github.com/saveblue/saveblue/pkg/repository"
	entrysvc "github.com/saveblue/saveblue/pkg/service/entry"
)

const cardPaymentPrefix = "POS NAKUP"

var (
	// ErrUnsupportedSMS is returned for texts that are not card payment notices.
	ErrUnsupportedSMS = fmt.Errorf("%w: SMS not valid", domain.ErrValidation)
)

// Parsed holds the fields read from one SMS. Amount is in the smallest unit.
type Parsed struct {
	Description string
	Date        time.Time
	Amount      int64
}

// ParseSMS reads a card payment notice of the form
//
//	POS NAKUP 12.03.2024 14:22, kartica ***1234, znesek 23,45 EUR, SPAR LJUBLJANA. Info: ...
func ParseSMS(sms string) (Parsed, error) {
	sms = strings.TrimSpace(sms)
	if !strings.HasPrefix(sms, cardPaymentPrefix) {
		return Parsed{}, ErrUnsupportedSMS
	}

	_, rest, ok := strings.Cut(sms, "EUR, ")
	if !ok {
		return Parsed{}, ErrUnsupportedSMS
	}
	description, _, _ := strings.Cut(rest, ". Info")
	description = truncate(description, entry.MaxDescriptionLength)

	_, rest, ok = strings.Cut(sms, cardPaymentPrefix+" ")
	if !ok {
		return Parsed{}, ErrUnsupportedSMS
	}
	rawDate, _, _ := strings.Cut(rest, " ")
	date, err := time.Parse("2.1.2006", strings.TrimSuffix(rawDate, ","))
	if err != nil {
		return Parsed{}, fmt.Errorf("%w: %v", ErrUnsupportedSMS, err)
	}

	_, rest, ok = strings.Cut(sms, "znesek ")
	if !ok {
		return Parsed{}, ErrUnsupportedSMS
	}
	rawAmount, _, _ := strings.Cut(rest, " EUR")
	rawAmount = strings.NewReplacer(",", "", ".", "").Replace(rawAmount)
	amount, err := leadingInt(rawAmount)
	if err != nil {
		return Parsed{}, ErrUnsupportedSMS
	}
	return Parsed{Description: description, Date: date, Amount: amount}, nil
}

// leadingInt parses the run of digits at the start of s.
func leadingInt(s string) (int64, error) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return strconv.ParseInt(s[:end], 10, 64)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// Service stores parsed SMS texts as Draft expenses.
type Service struct {
	uow     repository.UnitOfWork
	entries *entrysvc.Service
	logger  *slog.Logger
}

// New creates a draft Service.
func New(uow repository.UnitOfWork, entries *entrysvc.Service, logger *slog.Logger) *Service {
	return &Service{uow: uow, entries: entries, logger: logger}
}

// IngestSMS parses sms and records it as a Draft/Draft expense in the drafts
// account of userID.
func (s *Service) IngestSMS(ctx context.Context, userID uuid.UUID, sms string) (*entry.Entry, error) {
	log := s.logger.With("context", "IngestSMS", "userID", userID)
	parsed, err := ParseSMS(sms)
	if err != nil {
		log.Info("SMS rejected", "error", err)
		return nil, err
	}
	users, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}
	u, err := users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	e, err := s.entries.Create(ctx, entry.Expense, entrysvc.CreateInput{
		UserID:      userID,
		AccountID:   u.DraftsAccountID,
		Category1:   category.Draft,
		Category2:   category.Draft,
		Description: parsed.Description,
		Date:        parsed.Date,
		Amount:      parsed.Amount,
	})
	if err != nil {
		log.Error("IngestSMS failed", "error", err)
		return nil, err
	}
	log.Info("IngestSMS successful", "entryID", e.ID)
	return e, nil
}

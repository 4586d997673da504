package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/client"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/eligibility"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/lifecycle"
	idgen "github.com/kiacoder/AirocupWebsite-sub000/internal/platform/id"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/platform/logging"
)

var phonePattern = regexp.MustCompile(`^09\d{9}$`)

// RegisterClientInput is the incoming payload for account creation.
type RegisterClientInput struct {
	FullName string
	Phone    string
	Email    string
}

// ClientService owns account creation and phone verification. A fresh
// account starts active with an unverified phone; most operations are
// gated on verification at the HTTP layer.
type ClientService struct {
	clientRepo client.Repository
	idGen      idgen.Generator
	notifier   Notifier
	logger     *logging.Logger
	now        func() time.Time

	otpLength   int
	otpTTL      time.Duration
	otpCooldown time.Duration
}

func NewClientService(
	clientRepo client.Repository,
	idGen idgen.Generator,
	notifier Notifier,
	logger *logging.Logger,
	otpLength int,
	otpTTL time.Duration,
	otpCooldown time.Duration,
) *ClientService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ClientService{
		clientRepo:  clientRepo,
		idGen:       idGen,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
		otpLength:   otpLength,
		otpTTL:      otpTTL,
		otpCooldown: otpCooldown,
	}
}

func (s *ClientService) RegisterClient(ctx context.Context, input RegisterClientInput) (client.Client, error) {
	ctx, span := startUsecaseSpan(ctx, "ClientService.RegisterClient")
	defer span.End()

	input.FullName = strings.TrimSpace(input.FullName)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if err := eligibility.ValidateFullName(input.FullName); err != nil {
		return client.Client{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !phonePattern.MatchString(input.Phone) {
		return client.Client{}, fmt.Errorf("%w: phone must look like 09xxxxxxxxx", ErrInvalidInput)
	}
	if input.Email != "" && !strings.Contains(input.Email, "@") {
		return client.Client{}, fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return client.Client{}, fmt.Errorf("generate client id: %w", err)
	}

	now := s.now().UTC()
	c := client.Client{
		ID:        id,
		FullName:  input.FullName,
		Phone:     input.Phone,
		Email:     input.Email,
		Status:    lifecycle.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.clientRepo.Create(ctx, c); err != nil {
		if errors.Is(err, client.ErrDuplicateContact) {
			return client.Client{}, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return client.Client{}, fmt.Errorf("create client: %w", err)
	}

	s.logger.InfoContext(ctx, "client registered", "client_id", c.ID)

	if err := s.RequestPhoneCode(ctx, c.ID); err != nil {
		// Account creation stands; the client can re-request the code.
		s.logger.WarnContext(ctx, "initial verification code not sent",
			"client_id", c.ID, "error", err)
	}

	return c, nil
}

func (s *ClientService) GetClient(ctx context.Context, clientID string) (client.Client, error) {
	c, found, err := s.clientRepo.GetByID(ctx, strings.TrimSpace(clientID))
	if err != nil {
		return client.Client{}, fmt.Errorf("get client: %w", err)
	}
	if !found {
		return client.Client{}, fmt.Errorf("%w: client %s", ErrNotFound, clientID)
	}

	return c, nil
}

// RequestPhoneCode issues a fresh one-time code, honoring the resend
// cooldown, and hands it to the SMS dispatcher.
func (s *ClientService) RequestPhoneCode(ctx context.Context, clientID string) error {
	ctx, span := startUsecaseSpan(ctx, "ClientService.RequestPhoneCode")
	defer span.End()

	c, err := s.GetClient(ctx, clientID)
	if err != nil {
		return err
	}
	if c.PhoneVerified {
		return fmt.Errorf("%w: phone already verified", ErrInvalidState)
	}

	now := s.now().UTC()
	if !c.VerifySentAt.IsZero() && now.Sub(c.VerifySentAt) < s.otpCooldown {
		return fmt.Errorf("%w: wait before requesting another code", ErrConflict)
	}

	code, err := idgen.NumericCode(s.otpLength)
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	if err := s.clientRepo.SetVerification(ctx, c.ID, code, now); err != nil {
		return fmt.Errorf("store verification code: %w", err)
	}

	message := fmt.Sprintf("Your AiroCup verification code is %s", code)
	if err := s.notifier.SendSMS(ctx, c.Phone, message); err != nil {
		return fmt.Errorf("%w: send verification sms: %v", ErrDependencyUnavailable, err)
	}

	return nil
}

func (s *ClientService) ConfirmPhoneCode(ctx context.Context, clientID, code string) error {
	ctx, span := startUsecaseSpan(ctx, "ClientService.ConfirmPhoneCode")
	defer span.End()

	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("%w: code is required", ErrInvalidInput)
	}

	c, err := s.GetClient(ctx, clientID)
	if err != nil {
		return err
	}
	if c.PhoneVerified {
		return nil
	}
	if c.VerifyCode == "" {
		return fmt.Errorf("%w: no verification in progress", ErrInvalidState)
	}
	if s.now().UTC().Sub(c.VerifySentAt) > s.otpTTL {
		return fmt.Errorf("%w: code expired, request a new one", ErrInvalidState)
	}
	if subtle.ConstantTimeCompare([]byte(c.VerifyCode), []byte(code)) != 1 {
		return fmt.Errorf("%w: wrong code", ErrInvalidInput)
	}

	if err := s.clientRepo.ConfirmVerification(ctx, c.ID); err != nil {
		return fmt.Errorf("confirm verification: %w", err)
	}

	s.logger.InfoContext(ctx, "phone verified", "client_id", c.ID)

	return nil
}

package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/LeeCh0129/greenie-backend/internal/cache"
	"github.com/LeeCh0129/greenie-backend/internal/domain"
	"github.com/LeeCh0129/greenie-backend/internal/logger"
	"github.com/LeeCh0129/greenie-backend/internal/repository"
	"github.com/LeeCh0129/greenie-backend/internal/utils"
	"github.com/LeeCh0129/greenie-backend/internal/worker"
)

// EmailQueue accepts outgoing mail without waiting for delivery
type EmailQueue interface {
	Enqueue(task worker.EmailTask)
}

// OTPServiceConfig holds configuration for the OTP service
type OTPServiceConfig struct {
	Now func() time.Time
}

// OTPService issues and verifies purpose-tagged one-time codes
type OTPService struct {
	accountRepo repository.IAccountRepository
	throttle    cache.OTPThrottle
	emails      EmailQueue
	validator   *utils.Validator
	config      OTPServiceConfig
}

// NewOTPService creates a new OTP service
func NewOTPService(
	accountRepo repository.IAccountRepository,
	throttle cache.OTPThrottle,
	emails EmailQueue,
	validator *utils.Validator,
	config OTPServiceConfig,
) *OTPService {
	if config.Now == nil {
		config.Now = time.Now
	}
	if throttle == nil {
		throttle = cache.NoopOTPThrottle{}
	}
	return &OTPService{
		accountRepo: accountRepo,
		throttle:    throttle,
		emails:      emails,
		validator:   validator,
		config:      config,
	}
}

// Issue generates a code for the account, replacing any pending one, and mails it
func (s *OTPService) Issue(ctx context.Context, email string, purpose domain.OTPPurpose) error {
	if purpose.Prefix() == "" {
		return &domain.ValidationError{Message: "unknown otp purpose", Field: "mode"}
	}

	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	if err := s.throttle.Allow(ctx, account.Email, purpose); err != nil {
		return err
	}

	code, err := s.storeOTP(ctx, account.ID, purpose)
	if err != nil {
		if rerr := s.throttle.Release(context.WithoutCancel(ctx), account.Email, purpose); rerr != nil {
			logger.FromContext(ctx).Warn("failed to release otp throttle", zap.Error(rerr))
		}
		return err
	}

	subject, body := otpMail(code, purpose)
	s.emails.Enqueue(worker.EmailTask{
		Recipient: account.Email,
		Subject:   subject,
		Body:      body,
	})

	logger.FromContext(ctx).Info("otp issued",
		zap.Int64("account_id", account.ID),
		zap.String("purpose", string(purpose)),
	)
	return nil
}

func (s *OTPService) storeOTP(ctx context.Context, accountID int64, purpose domain.OTPPurpose) (string, error) {
	code, err := utils.GenerateOTP(purpose.Prefix())
	if err != nil {
		return "", &domain.InternalError{Message: "failed to generate otp", Err: err}
	}
	if err := s.accountRepo.SetOTP(ctx, accountID, code, s.config.Now()); err != nil {
		return "", err
	}
	return code, nil
}

// Verify checks a code against the pending one and consumes it.
// The email purpose also marks the account verified. Returns the account email.
func (s *OTPService) Verify(ctx context.Context, email, code string, purpose domain.OTPPurpose) (string, error) {
	if purpose.Prefix() == "" {
		return "", &domain.ValidationError{Message: "unknown otp purpose", Field: "mode"}
	}

	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if err := s.validator.ValidateOTPCode(code, purpose); err != nil {
		return "", &domain.InvalidOTPError{Message: "otp is not valid"}
	}

	if account.OTP == nil || subtle.ConstantTimeCompare([]byte(*account.OTP), []byte(code)) != 1 {
		return "", &domain.InvalidOTPError{Message: "otp is not valid"}
	}

	if account.OTPCreatedAt == nil || s.config.Now().Sub(*account.OTPCreatedAt) > purpose.Window() {
		return "", &domain.InvalidOTPError{Message: "otp has expired"}
	}

	consumed, err := s.accountRepo.ConsumeOTP(ctx, account.ID, code, purpose == domain.OTPPurposeEmail)
	if err != nil {
		return "", err
	}
	if !consumed {
		return "", &domain.InvalidOTPError{Message: "otp is not valid"}
	}

	return account.Email, nil
}

func otpMail(code string, purpose domain.OTPPurpose) (string, string) {
	minutes := int(purpose.Window() / time.Minute)
	if purpose == domain.OTPPurposeChangePassword {
		return "[Greenie] Password change code",
			fmt.Sprintf("<h4>Use the code below to change your Greenie password.</h4><p><b>%s</b></p><p>The code expires in %d minutes.</p>", code, minutes)
	}
	return "[Greenie] Email verification code",
		fmt.Sprintf("<h4>Use the code below to verify your Greenie email address.</h4><p><b>%s</b></p><p>The code expires in %d minutes.</p>", code, minutes)
}

package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	mathrand "math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/SUJAY300/medi-vault-web-app/domain"
)

// Result messages returned to callers
const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgNoPhoneAccount     = "No account found with this phone number. Please sign up first."
	MsgResendCooldown     = "Please wait 60 seconds before requesting a new OTP"
	MsgSMSFailed          = "Failed to send SMS. Please try again later."
	MsgOTPSent            = "OTP sent successfully"
	MsgOTPNotFound        = "OTP not found or expired"
	MsgOTPExpired         = "OTP has expired"
	MsgOTPInvalid         = "Invalid OTP"
	MsgOTPInvalidated     = "OTP invalidated"
	MsgAccountNotFound    = "Account not found. Please sign up first."
	MsgPhoneExists        = "An account with this phone number already exists"
	MsgEmailExists        = "An account with this email already exists"
	MsgInvalidRole        = "Invalid role"
	MsgPatientFields      = "Full name and phone number are required"
	MsgProfessionalFields = "Full name, email and password are required"
	MsgLicenseRequired    = "License number is required"
	MsgPasswordMismatch   = "Passwords do not match"
	MsgSignupFailed       = "Signup failed"
	MsgServiceUnavailable = "Service temporarily unavailable. Please try again later."
)

const (
	// DefaultStoreTimeout bounds each durable store call
	DefaultStoreTimeout = 5 * time.Second
	// MaxStoreTimeout caps a configured store timeout
	MaxStoreTimeout = 10 * time.Second

	codeSpace = 1_000_000
)

// Backends are the record stores an AuthServiceImpl works against.
// Durable may be nil, in which case every call goes straight to Fallback.
type Backends struct {
	Durable  domain.RecordStore
	Fallback domain.RecordStore
}

// AuthConfig tunes AuthServiceImpl
type AuthConfig struct {
	// StoreTimeout bounds each durable store call; zero means DefaultStoreTimeout
	StoreTimeout time.Duration
	// DevMode echoes issued codes in results while no SMS provider is configured
	DevMode bool
}

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	backends        Backends
	passwordSvc     domain.PasswordService
	notificationSvc domain.NotificationService
	auditLogger     domain.AuditLogger
	logger          *zap.Logger
	clock           domain.Clock
	config          AuthConfig
}

// NewAuthService creates a new auth service. Backends.Fallback must be set.
func NewAuthService(
	backends Backends,
	passwordSvc domain.PasswordService,
	notificationSvc domain.NotificationService,
	auditLogger domain.AuditLogger,
	logger *zap.Logger,
	clock domain.Clock,
	config AuthConfig,
) *AuthServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = domain.SystemClock{}
	}
	switch {
	case config.StoreTimeout <= 0:
		config.StoreTimeout = DefaultStoreTimeout
	case config.StoreTimeout > MaxStoreTimeout:
		config.StoreTimeout = MaxStoreTimeout
	}
	return &AuthServiceImpl{
		backends:        backends,
		passwordSvc:     passwordSvc,
		notificationSvc: notificationSvc,
		auditLogger:     auditLogger,
		logger:          logger,
		clock:           clock,
		config:          config,
	}
}

// withStore runs fn against the durable store and repeats it once on the fallback
// when the durable attempt fails operationally. Not-found and duplicate outcomes are returned as-is.
func withStore[T any](ctx context.Context, s *AuthServiceImpl, op string, fn func(context.Context, domain.RecordStore) (T, error)) (T, error) {
	if durable := s.backends.Durable; durable != nil {
		callCtx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
		v, err := fn(callCtx, durable)
		cancel()
		if !domain.IsStoreFailure(err) {
			return v, err
		}
		s.logger.Warn("durable store failed, retrying on fallback",
			zap.String("op", op),
			zap.String("backend", durable.Name()),
			zap.Error(err),
		)
	}

	v, err := fn(ctx, s.backends.Fallback)
	if domain.IsStoreFailure(err) {
		s.logger.Error("fallback store failed",
			zap.String("op", op),
			zap.String("backend", s.backends.Fallback.Name()),
			zap.Error(err),
		)
		var zero T
		return zero, fmt.Errorf("%w: %s: %v", domain.ErrStoreUnavailable, op, err)
	}
	return v, err
}

func (s *AuthServiceImpl) findByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	return withStore(ctx, s, "FindByEmail", func(ctx context.Context, store domain.RecordStore) (*domain.Identity, error) {
		return store.FindByEmail(ctx, email)
	})
}

func (s *AuthServiceImpl) findByPhone(ctx context.Context, phone string) (*domain.Identity, error) {
	return withStore(ctx, s, "FindByPhone", func(ctx context.Context, store domain.RecordStore) (*domain.Identity, error) {
		return store.FindByPhone(ctx, phone)
	})
}

// latest also returns the store that answered, so the challenge is consumed where it was read
func (s *AuthServiceImpl) latest(ctx context.Context, phone string) (*domain.Challenge, domain.RecordStore, error) {
	var answered domain.RecordStore
	challenge, err := withStore(ctx, s, "Latest", func(ctx context.Context, store domain.RecordStore) (*domain.Challenge, error) {
		answered = store
		return store.Latest(ctx, phone)
	})
	return challenge, answered, err
}

// deleteFrom removes every challenge for phone from store without retrying elsewhere
func (s *AuthServiceImpl) deleteFrom(ctx context.Context, store domain.RecordStore, phone string) error {
	callCtx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()

	if err := store.DeleteAll(callCtx, phone); err != nil {
		s.logger.Error("failed to delete otp challenges",
			zap.String("backend", store.Name()),
			zap.Error(err),
		)
		return fmt.Errorf("%w: DeleteAll: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// consume deletes the phone's challenges from the store that served them.
// Stale fallback copies are cleared on a best-effort basis.
func (s *AuthServiceImpl) consume(ctx context.Context, store domain.RecordStore, phone string) error {
	if err := s.deleteFrom(ctx, store, phone); err != nil {
		return err
	}
	if store != s.backends.Fallback {
		_ = s.deleteFrom(ctx, s.backends.Fallback, phone)
	}
	return nil
}

func (s *AuthServiceImpl) audit(ctx context.Context, event *domain.AuditEvent) {
	if s.auditLogger != nil {
		s.auditLogger.LogEvent(ctx, event)
	}
}

// VerificationMessage is the SMS body carrying an OTP
func VerificationMessage(code string) string {
	return fmt.Sprintf("Your MediVault verification code is: %s. Valid for 5 minutes.", code)
}

// GenerateCode implements domain.AuthService
func (s *AuthServiceImpl) GenerateCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpace))
	if err != nil {
		s.logger.Warn("crypto/rand unavailable, generating otp with math/rand", zap.Error(err))
		return fmt.Sprintf("%0*d", domain.CodeLength, mathrand.Int63n(codeSpace))
	}
	return fmt.Sprintf("%0*d", domain.CodeLength, n.Int64())
}

// Login implements domain.AuthService. Unknown email and wrong password produce the same result.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) domain.SessionResult {
	event := domain.NewAuditEvent(domain.LoginEvent, s.clock.Now()).WithEmail(email)

	identity, err := s.findByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrIdentityNotFound):
		return s.loginFailed(ctx, event, domain.Failed(domain.StatusUnauthorized, MsgInvalidCredentials))
	case err != nil:
		return s.loginFailed(ctx, event, domain.Failed(domain.StatusUnavailable, MsgServiceUnavailable))
	}

	if !s.passwordSvc.Verify(identity.PasswordHash, password) {
		return s.loginFailed(ctx, event, domain.Failed(domain.StatusUnauthorized, MsgInvalidCredentials))
	}

	res := domain.Succeeded(identity.Principal())
	s.audit(ctx, event.WithResult(res))
	s.logger.Info("login succeeded", zap.String("identity_id", identity.ID), zap.String("role", string(identity.Role)))
	return res
}

func (s *AuthServiceImpl) loginFailed(ctx context.Context, event *domain.AuditEvent, res domain.SessionResult) domain.SessionResult {
	event.EventType = domain.LoginFailureEvent
	s.audit(ctx, event.WithResult(res))
	return res
}

// CanResend implements domain.AuthService
func (s *AuthServiceImpl) CanResend(ctx context.Context, phone string) (bool, error) {
	challenge, _, err := s.latest(ctx, phone)
	if errors.Is(err, domain.ErrChallengeNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return s.clock.Now().Sub(challenge.CreatedAt) > domain.ResendCooldown, nil
}

// RequestOTP implements domain.AuthService. A code stored before a failed SMS delivery stays valid.
func (s *AuthServiceImpl) RequestOTP(ctx context.Context, phone string) domain.SessionResult {
	key := domain.NormalizePhone(phone)
	event := domain.NewAuditEvent(domain.OTPRequestEvent, s.clock.Now()).WithPhone(key)

	identity, err := s.findByPhone(ctx, phone)
	switch {
	case errors.Is(err, domain.ErrIdentityNotFound):
		return s.requestFailed(ctx, event, domain.Failed(domain.StatusNotFound, MsgNoPhoneAccount))
	case err != nil:
		return s.requestFailed(ctx, event, domain.Failed(domain.StatusUnavailable, MsgServiceUnavailable))
	}

	canResend, err := s.CanResend(ctx, phone)
	if err != nil {
		return s.requestFailed(ctx, event, domain.Failed(domain.StatusUnavailable, MsgServiceUnavailable))
	}
	if !canResend {
		return s.requestFailed(ctx, event, domain.Failed(domain.StatusRateLimited, MsgResendCooldown))
	}

	code := s.GenerateCode()
	_, err = withStore(ctx, s, "Store", func(ctx context.Context, store domain.RecordStore) (string, error) {
		return store.Store(ctx, phone, code)
	})
	if err != nil {
		return s.requestFailed(ctx, event, domain.Failed(domain.StatusUnavailable, MsgServiceUnavailable))
	}

	res := domain.SessionResult{Success: true, Message: MsgOTPSent}
	if s.notificationSvc != nil && s.notificationSvc.IsConfigured() {
		if err := s.notificationSvc.SendSMS(phone, VerificationMessage(code)); err != nil {
			s.logger.Error("otp delivery failed", zap.String("identity_id", identity.ID), zap.Error(err))
			event.WithMetadata("delivery_error", err.Error())
			return s.requestFailed(ctx, event, domain.Failed(domain.StatusInternal, MsgSMSFailed))
		}
	} else {
		s.logger.Info("sms provider not configured, otp not delivered", zap.String("identity_id", identity.ID))
		if s.config.DevMode {
			res.DevCode = code
		}
	}

	event.IdentityID = identity.ID
	event.Role = identity.Role
	s.audit(ctx, event.WithResult(res))
	return res
}

func (s *AuthServiceImpl) requestFailed(ctx context.Context, event *domain.AuditEvent, res domain.SessionResult) domain.SessionResult {
	event.EventType = domain.OTPRequestFailureEvent
	s.audit(ctx, event.WithResult(res))
	return res
}

// VerifyOTP implements domain.AuthService. Only the newest challenge for the phone is consulted;
// a match or an expiry removes every challenge for the phone.
func (s *AuthServiceImpl) VerifyOTP(ctx context.Context, phone, code string) domain.SessionResult {
	key := domain.NormalizePhone(phone)
	event := domain.NewAuditEvent(domain.OTPVerifyEvent, s.clock.Now()).WithPhone(key)

	challenge, source, err := s.latest(ctx, phone)
	switch {
	case errors.Is(err, domain.ErrChallengeNotFound):
		return s.verifyFailed(ctx, event, domain.Failed(domain.StatusNotFound, MsgOTPNotFound))
	case err != nil:
		return s.verifyFailed(ctx, event, domain.Failed(domain.StatusUnavailable, MsgServiceUnavailable))
	}

	if challenge.Expired(s.clock.Now()) {
		// an undeleted expired challenge still fails as expired on the next attempt
		_ = s.consume(ctx, source, phone)
		return s.verifyFailed(ctx, event, domain.Failed(domain.StatusBadRequest, MsgOTPExpired))
	}

	if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(code)), []byte(challenge.Code)) != 1 {
		return s.verifyFailed(ctx, event, domain.Failed(domain.StatusBadRequest, MsgOTPInvalid))
	}

	if err := s.consume(ctx, source, phone); err != nil {
		return s.verifyFailed(ctx, event, domain.Failed(domain.StatusUnavailable, MsgServiceUnavailable))
	}

	identity, err := s.findByPhone(ctx, phone)
	switch {
	case errors.Is(err, domain.ErrIdentityNotFound):
		return s.verifyFailed(ctx, event, domain.Failed(domain.StatusNotFound, MsgAccountNotFound))
	case err != nil:
		return s.verifyFailed(ctx, event, domain.Failed(domain.StatusUnavailable, MsgServiceUnavailable))
	}

	res := domain.Succeeded(identity.Principal())
	s.audit(ctx, event.WithResult(res))
	s.logger.Info("otp verified", zap.String("identity_id", identity.ID))
	return res
}

func (s *AuthServiceImpl) verifyFailed(ctx context.Context, event *domain.AuditEvent, res domain.SessionResult) domain.SessionResult {
	event.EventType = domain.OTPVerifyFailureEvent
	s.audit(ctx, event.WithResult(res))
	return res
}

// InvalidateOTP implements domain.AuthService
func (s *AuthServiceImpl) InvalidateOTP(ctx context.Context, phone string) domain.SessionResult {
	event := domain.NewAuditEvent(domain.OTPInvalidatedEvent, s.clock.Now()).WithPhone(domain.NormalizePhone(phone))

	res := domain.SessionResult{Success: true, Message: MsgOTPInvalidated}
	fallbackErr := s.deleteFrom(ctx, s.backends.Fallback, phone)
	var durableErr error
	if s.backends.Durable != nil {
		durableErr = s.deleteFrom(ctx, s.backends.Durable, phone)
	}
	if durableErr != nil || fallbackErr != nil {
		res = domain.Failed(domain.StatusUnavailable, MsgServiceUnavailable)
	}
	s.audit(ctx, event.WithResult(res))
	return res
}

// Signup implements domain.AuthService. Patients register by phone; every other role by email and password.
func (s *AuthServiceImpl) Signup(ctx context.Context, role domain.Role, form domain.SignupForm) domain.SessionResult {
	event := domain.NewAuditEvent(domain.SignupEvent, s.clock.Now()).WithMetadata("role", string(role))

	if _, ok := domain.ParseRole(string(role)); !ok {
		return s.signupFailed(ctx, event, domain.Failed(domain.StatusBadRequest, MsgInvalidRole))
	}
	if role == domain.RolePatient {
		return s.signupPatient(ctx, event, form)
	}
	return s.signupProfessional(ctx, event, role, form)
}

func (s *AuthServiceImpl) signupPatient(ctx context.Context, event *domain.AuditEvent, form domain.SignupForm) domain.SessionResult {
	fullName := strings.TrimSpace(form.FullName)
	if fullName == "" || domain.NormalizePhone(form.Phone) == "" {
		return s.signupFailed(ctx, event, domain.Failed(domain.StatusBadRequest, MsgPatientFields))
	}
	event.WithPhone(domain.NormalizePhone(form.Phone))

	_, err := s.findByPhone(ctx, form.Phone)
	switch {
	case err == nil:
		return s.signupFailed(ctx, event, domain.Failed(domain.StatusConflict, MsgPhoneExists))
	case !errors.Is(err, domain.ErrIdentityNotFound):
		return s.signupFailed(ctx, event, domain.Failed(domain.StatusUnavailable, MsgServiceUnavailable))
	}

	identity, err := s.create(ctx, domain.NewIdentity{
		Phone:    form.Phone,
		Role:     domain.RolePatient,
		FullName: fullName,
	})
	switch {
	case errors.Is(err, domain.ErrDuplicateIdentity):
		return s.signupFailed(ctx, event, domain.Failed(domain.StatusConflict, MsgPhoneExists))
	case err != nil:
		return s.signupFailed(ctx, event, domain.Failed(domain.StatusUnavailable, MsgServiceUnavailable))
	}

	return s.signupSucceeded(ctx, event, identity)
}

func (s *AuthServiceImpl) signupProfessional(ctx context.Context, event *domain.AuditEvent, role domain.Role, form domain.SignupForm) domain.SessionResult {
	fullName := strings.TrimSpace(form.FullName)
	email := strings.TrimSpace(form.Email)
	license := strings.TrimSpace(form.License)
	switch {
	case fullName == "" || email == "" || form.Password == "":
		return s.signupFailed(ctx, event, domain.Failed(domain.StatusBadRequest, MsgProfessionalFields))
	case form.ConfirmPassword != "" && form.ConfirmPassword != form.Password:
		return s.signupFailed(ctx, event, domain.Failed(domain.StatusBadRequest, MsgPasswordMismatch))
	case role.RequiresLicense() && license == "":
		return s.signupFailed(ctx, event, domain.Failed(domain.StatusBadRequest, MsgLicenseRequired))
	}
	if !role.RequiresLicense() {
		license = ""
	}
	event.WithEmail(email)

	_, err := s.findByEmail(ctx, email)
	switch {
	case err == nil:
		return s.signupFailed(ctx, event, domain.Failed(domain.StatusConflict, MsgEmailExists))
	case !errors.Is(err, domain.ErrIdentityNotFound):
		return s.signupFailed(ctx, event, domain.Failed(domain.StatusUnavailable, MsgServiceUnavailable))
	}

	hash, err := s.passwordSvc.Hash(form.Password)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return s.signupFailed(ctx, event, domain.Failed(domain.StatusInternal, MsgSignupFailed))
	}

	identity, err := s.create(ctx, domain.NewIdentity{
		Email:        email,
		Phone:        form.Phone,
		PasswordHash: hash,
		Role:         role,
		FullName:     fullName,
		License:      license,
	})
	switch {
	case errors.Is(err, domain.ErrDuplicateIdentity):
		return s.signupFailed(ctx, event, domain.Failed(domain.StatusConflict, s.professionalConflict(ctx, email)))
	case err != nil:
		return s.signupFailed(ctx, event, domain.Failed(domain.StatusUnavailable, MsgServiceUnavailable))
	}

	return s.signupSucceeded(ctx, event, identity)
}

// professionalConflict names the key that collided; a professional may also carry a phone
func (s *AuthServiceImpl) professionalConflict(ctx context.Context, email string) string {
	if _, err := s.findByEmail(ctx, email); errors.Is(err, domain.ErrIdentityNotFound) {
		return MsgPhoneExists
	}
	return MsgEmailExists
}

func (s *AuthServiceImpl) create(ctx context.Context, fields domain.NewIdentity) (*domain.Identity, error) {
	return withStore(ctx, s, "Create", func(ctx context.Context, store domain.RecordStore) (*domain.Identity, error) {
		return store.Create(ctx, fields)
	})
}

func (s *AuthServiceImpl) signupSucceeded(ctx context.Context, event *domain.AuditEvent, identity *domain.Identity) domain.SessionResult {
	res := domain.Succeeded(identity.Principal())
	s.audit(ctx, event.WithResult(res))
	s.logger.Info("identity created", zap.String("identity_id", identity.ID), zap.String("role", string(identity.Role)))
	return res
}

func (s *AuthServiceImpl) signupFailed(ctx context.Context, event *domain.AuditEvent, res domain.SessionResult) domain.SessionResult {
	event.EventType = domain.SignupFailureEvent
	s.audit(ctx, event.WithResult(res))
	return res
}

var _ domain.AuthService = (*AuthServiceImpl)(nil)

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/vivekjindal24/university-erp/internal/dto"
	"github.com/vivekjindal24/university-erp/internal/models"
	"github.com/vivekjindal24/university-erp/internal/observability"
	"github.com/vivekjindal24/university-erp/internal/repository"
)

var (
	// ErrApplicationNotFound indicates an unknown application id.
	ErrApplicationNotFound = errors.New("application not found")
	// ErrApplicantNotFound indicates an unknown application number.
	ErrApplicantNotFound = errors.New("applicant not found")
	// ErrInvalidAmount indicates a missing, malformed or negative monetary input.
	ErrInvalidAmount = errors.New("amount must be a non-negative decimal value")
	// ErrDecisionAlreadyMade indicates the application already left the pending state.
	ErrDecisionAlreadyMade = errors.New("admission decision already made")
	// ErrNotAdmitted indicates an operation that requires an admitted application.
	ErrNotAdmitted = errors.New("application is not admitted")
	// ErrFeeAlreadyPaid indicates the first semester fee was already recorded.
	ErrFeeAlreadyPaid = errors.New("first semester fee already recorded")
	// ErrDuplicateTransaction indicates a replay of an already recorded transaction id.
	ErrDuplicateTransaction = errors.New("transaction id already recorded")
	// ErrFeeNotPaid indicates a receipt was requested before any payment.
	ErrFeeNotPaid = errors.New("no fee payment recorded for this application")
	// ErrPartialPersistence indicates the ledger append failed inside the
	// payment transaction; the transaction rolled back and nothing was recorded.
	ErrPartialPersistence = errors.New("fee payment recording aborted: ledger append failed")
	// ErrLetterRender indicates the document renderer failed; no state was changed.
	ErrLetterRender = errors.New("document rendering failed")
)

const (
	paymentDedupeTTL  = 24 * time.Hour
	portalCachePrefix = "admissions:portal:"
	paymentTxnPrefix  = "admissions:payment:txn:"
)

// Document is a rendered PDF ready to be streamed to the caller.
type Document struct {
	Filename string
	Content  []byte
}

// AdmissionService is the decision engine of the admission workflow. It is
// the sole writer of the decision, fee and letter fields of an application
// and mediates every side effect.
type AdmissionService interface {
	Admit(ctx context.Context, applicationID uint, actor string, req dto.AdmitRequest) (dto.DecisionResponse, error)
	Reject(ctx context.Context, applicationID uint, actor string) (dto.DecisionResponse, error)
	RecordFeePayment(ctx context.Context, applicationID uint, req dto.FeePaymentRequest) (dto.FeePaymentResponse, error)
	GenerateLetter(ctx context.Context, applicationID uint) (Document, error)
	RenderReceipt(ctx context.Context, applicationID uint) (Document, error)
	CheckStatus(ctx context.Context, applicationID uint) (dto.ApplicationStatusResponse, error)
	PortalStatus(ctx context.Context, applicationNumber string) (dto.PortalStatusResponse, error)
	ListApplications(ctx context.Context) ([]dto.ApplicationSummaryResponse, error)
	ListCycles(ctx context.Context) ([]dto.AdmissionCycleResponse, error)
}

// AdmissionServiceDeps groups the collaborators injected into the engine.
type AdmissionServiceDeps struct {
	Applications  repository.ApplicationRepository
	Applicants    repository.ApplicantRepository
	Fees          repository.AdmissionFeeRepository
	Cycles        repository.AdmissionCycleRepository
	Cache         *redis.Client
	CacheTTL      time.Duration
	Validator     *validator.Validate
	Notifier      Notifier
	Renderer      LetterRenderer
	Events        EventPublisher
	NotifyTimeout time.Duration
}

type admissionService struct {
	applications  repository.ApplicationRepository
	applicants    repository.ApplicantRepository
	fees          repository.AdmissionFeeRepository
	cycles        repository.AdmissionCycleRepository
	cache         *redis.Client
	cacheTTL      time.Duration
	validator     *validator.Validate
	notifier      Notifier
	renderer      LetterRenderer
	events        EventPublisher
	notifyTimeout time.Duration
	logger        zerolog.Logger
	tracer        trace.Tracer
	now           func() time.Time
}

// NewAdmissionService constructs the admission decision engine.
func NewAdmissionService(deps AdmissionServiceDeps, logger zerolog.Logger) AdmissionService {
	notifyTimeout := deps.NotifyTimeout
	if notifyTimeout <= 0 {
		notifyTimeout = 10 * time.Second
	}
	cacheTTL := deps.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	return &admissionService{
		applications:  deps.Applications,
		applicants:    deps.Applicants,
		fees:          deps.Fees,
		cycles:        deps.Cycles,
		cache:         deps.Cache,
		cacheTTL:      cacheTTL,
		validator:     deps.Validator,
		notifier:      deps.Notifier,
		renderer:      deps.Renderer,
		events:        deps.Events,
		notifyTimeout: notifyTimeout,
		logger:        logger.With().Str("component", "admission_service").Logger(),
		tracer:        otel.Tracer("github.com/vivekjindal24/university-erp/internal/service/admission"),
		now:           time.Now,
	}
}

func (s *admissionService) Admit(ctx context.Context, applicationID uint, actor string, req dto.AdmitRequest) (dto.DecisionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "admissions.admit", trace.WithAttributes(
		attribute.Int("application.id", int(applicationID)),
	))
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		span.RecordError(err)
		return dto.DecisionResponse{}, err
	}

	feeAmount, err := parseAmount(req.FirstSemesterFeeAmount)
	if err != nil {
		span.RecordError(err)
		return dto.DecisionResponse{}, err
	}

	application, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		span.RecordError(err)
		return dto.DecisionResponse{}, err
	}
	if application.AdmissionDecision.Terminal() {
		return dto.DecisionResponse{}, ErrDecisionAlreadyMade
	}

	decidedAt := s.now()
	amount := decimal.NewNullDecimal(feeAmount)
	update := repository.DecisionUpdate{
		Decision:  models.DecisionAdmitted,
		Status:    models.StatusAdmitted,
		DecidedBy: actor,
		DecidedAt: decidedAt,
		FeeAmount: amount,
	}
	if err := s.applications.UpdateDecision(ctx, applicationID, update); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decision persistence failed")
		return dto.DecisionResponse{}, s.mapDecisionError(err)
	}

	observability.Decisions().WithLabelValues(string(models.DecisionAdmitted)).Inc()

	application.AdmissionDecision = models.DecisionAdmitted
	application.Status = models.StatusAdmitted
	application.DecisionDate = &decidedAt
	application.DecisionBy = actor
	application.FirstSemesterFeeAmount = amount

	// The decision is committed: everything below is best effort.
	emailSent := s.notify(ctx, "admission_confirmation", func(ctx context.Context) error {
		return s.notifier.SendAdmissionConfirmation(ctx, application)
	})
	s.publishEvent(ctx, EventApplicationAdmitted, application)
	s.invalidatePortalCache(ctx, application.Applicant.ApplicationNumber)

	s.logger.Info().
		Uint("application_id", applicationID).
		Str("application_number", application.Applicant.ApplicationNumber).
		Str("decided_by", actor).
		Bool("email_sent", emailSent).
		Msg("applicant admitted")

	return dto.DecisionResponse{
		ApplicationID:          applicationID,
		AdmissionDecision:      string(models.DecisionAdmitted),
		FirstSemesterFeeAmount: amount,
		EmailSent:              emailSent,
	}, nil
}

func (s *admissionService) Reject(ctx context.Context, applicationID uint, actor string) (dto.DecisionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "admissions.reject", trace.WithAttributes(
		attribute.Int("application.id", int(applicationID)),
	))
	defer span.End()

	application, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		span.RecordError(err)
		return dto.DecisionResponse{}, err
	}
	if application.AdmissionDecision.Terminal() {
		return dto.DecisionResponse{}, ErrDecisionAlreadyMade
	}

	decidedAt := s.now()
	update := repository.DecisionUpdate{
		Decision:  models.DecisionNotAdmitted,
		Status:    models.StatusRejected,
		DecidedBy: actor,
		DecidedAt: decidedAt,
	}
	if err := s.applications.UpdateDecision(ctx, applicationID, update); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decision persistence failed")
		return dto.DecisionResponse{}, s.mapDecisionError(err)
	}

	observability.Decisions().WithLabelValues(string(models.DecisionNotAdmitted)).Inc()

	application.AdmissionDecision = models.DecisionNotAdmitted
	application.Status = models.StatusRejected
	application.DecisionDate = &decidedAt
	application.DecisionBy = actor

	emailSent := s.notify(ctx, "rejection", func(ctx context.Context) error {
		return s.notifier.SendRejection(ctx, application)
	})
	s.publishEvent(ctx, EventApplicationRejected, application)
	s.invalidatePortalCache(ctx, application.Applicant.ApplicationNumber)

	s.logger.Info().
		Uint("application_id", applicationID).
		Str("application_number", application.Applicant.ApplicationNumber).
		Str("decided_by", actor).
		Bool("email_sent", emailSent).
		Msg("applicant rejected")

	return dto.DecisionResponse{
		ApplicationID:     applicationID,
		AdmissionDecision: string(models.DecisionNotAdmitted),
		EmailSent:         emailSent,
	}, nil
}

func (s *admissionService) RecordFeePayment(ctx context.Context, applicationID uint, req dto.FeePaymentRequest) (dto.FeePaymentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "admissions.record_fee_payment", trace.WithAttributes(
		attribute.Int("application.id", int(applicationID)),
	))
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		span.RecordError(err)
		return dto.FeePaymentResponse{}, err
	}

	amount, err := parseAmount(req.PaymentAmount)
	if err != nil {
		span.RecordError(err)
		return dto.FeePaymentResponse{}, err
	}

	application, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		span.RecordError(err)
		return dto.FeePaymentResponse{}, err
	}
	if application.AdmissionDecision != models.DecisionAdmitted {
		observability.FeePayments().WithLabelValues("rejected").Inc()
		return dto.FeePaymentResponse{}, ErrNotAdmitted
	}
	if application.FirstSemesterFeePaid {
		observability.FeePayments().WithLabelValues("duplicate").Inc()
		return dto.FeePaymentResponse{}, ErrFeeAlreadyPaid
	}

	transactionID := strings.TrimSpace(req.TransactionID)
	if transactionID == "" {
		transactionID = uuid.NewString()
	}
	span.SetAttributes(attribute.String("payment.transaction_id", transactionID))

	dedupeKey := paymentTxnPrefix + transactionID
	if s.cache != nil {
		ok, err := s.cache.SetNX(ctx, dedupeKey, applicationID, paymentDedupeTTL).Result()
		if err != nil {
			span.RecordError(err)
			return dto.FeePaymentResponse{}, err
		}
		if !ok {
			observability.FeePayments().WithLabelValues("duplicate").Inc()
			return dto.FeePaymentResponse{}, ErrDuplicateTransaction
		}
	}

	paidAt := s.now()
	record := repository.PaymentRecord{
		Amount:        amount,
		TransactionID: transactionID,
		PaymentMethod: paymentMethodOrDefault(req.PaymentMethod),
		ReceiptNumber: newReceiptNumber(applicationID),
		PaidAt:        paidAt,
	}

	fee, err := s.applications.RecordPayment(ctx, applicationID, record)
	if err != nil {
		// Release the dedupe guard so the caller may retry the same
		// transaction id after a failed write.
		if s.cache != nil {
			if delErr := s.cache.Del(ctx, dedupeKey).Err(); delErr != nil {
				s.logger.Warn().Err(delErr).Str("transaction_id", transactionID).Msg("failed to release payment dedupe key")
			}
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "payment persistence failed")
		observability.FeePayments().WithLabelValues("error").Inc()
		return dto.FeePaymentResponse{}, s.mapPaymentError(err)
	}

	observability.FeePayments().WithLabelValues("recorded").Inc()

	application.FirstSemesterFeePaid = true
	application.FeePaymentDate = &paidAt
	application.FeeTransactionID = transactionID

	emailSent := s.notify(ctx, "fee_payment_confirmation", func(ctx context.Context) error {
		return s.notifier.SendFeePaymentConfirmation(ctx, application, fee)
	})
	s.publishEvent(ctx, EventFeePaid, application)
	s.invalidatePortalCache(ctx, application.Applicant.ApplicationNumber)

	s.logger.Info().
		Uint("application_id", applicationID).
		Str("transaction_id", transactionID).
		Str("receipt_number", fee.ReceiptNumber).
		Bool("email_sent", emailSent).
		Msg("fee payment recorded")

	return dto.FeePaymentResponse{
		ApplicationID: applicationID,
		FeePaid:       true,
		PaymentDate:   &paidAt,
		TransactionID: transactionID,
		ReceiptNumber: fee.ReceiptNumber,
		EmailSent:     emailSent,
	}, nil
}

func (s *admissionService) GenerateLetter(ctx context.Context, applicationID uint) (Document, error) {
	ctx, span := s.tracer.Start(ctx, "admissions.generate_letter", trace.WithAttributes(
		attribute.Int("application.id", int(applicationID)),
	))
	defer span.End()

	application, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		span.RecordError(err)
		return Document{}, err
	}
	if !application.CanGenerateLetter() {
		return Document{}, ErrNotAdmitted
	}

	// Render before touching any state: a failed render must leave the
	// letter_generated flag untouched.
	content, err := s.renderer.RenderAdmissionLetter(application)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "letter rendering failed")
		s.logger.Error().Err(err).Uint("application_id", applicationID).Msg("admission letter rendering failed")
		return Document{}, fmt.Errorf("%w: %v", ErrLetterRender, err)
	}

	if !application.LetterGenerated {
		if err := s.applications.MarkLetterGenerated(ctx, applicationID, s.now()); err != nil {
			span.RecordError(err)
			return Document{}, s.mapNotFound(err, ErrApplicationNotFound)
		}
		observability.LettersGenerated().Inc()
		s.publishEvent(ctx, EventLetterGenerated, application)
		s.invalidatePortalCache(ctx, application.Applicant.ApplicationNumber)
	}

	s.logger.Info().
		Uint("application_id", applicationID).
		Str("application_number", application.Applicant.ApplicationNumber).
		Msg("admission letter generated")

	return Document{
		Filename: fmt.Sprintf("admission_letter_%s.pdf", application.Applicant.ApplicationNumber),
		Content:  content,
	}, nil
}

func (s *admissionService) RenderReceipt(ctx context.Context, applicationID uint) (Document, error) {
	application, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		return Document{}, err
	}
	if !application.FirstSemesterFeePaid {
		return Document{}, ErrFeeNotPaid
	}

	fee, err := s.fees.LatestPaid(ctx, applicationID)
	if err != nil {
		return Document{}, s.mapNotFound(err, ErrFeeNotPaid)
	}

	content, err := s.renderer.RenderFeeReceipt(application, fee)
	if err != nil {
		s.logger.Error().Err(err).Uint("application_id", applicationID).Msg("fee receipt rendering failed")
		return Document{}, fmt.Errorf("%w: %v", ErrLetterRender, err)
	}

	return Document{
		Filename: fmt.Sprintf("fee_receipt_%s.pdf", application.Applicant.ApplicationNumber),
		Content:  content,
	}, nil
}

func (s *admissionService) CheckStatus(ctx context.Context, applicationID uint) (dto.ApplicationStatusResponse, error) {
	application, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		return dto.ApplicationStatusResponse{}, err
	}

	return dto.NewApplicationStatusResponse(application), nil
}

func (s *admissionService) PortalStatus(ctx context.Context, applicationNumber string) (dto.PortalStatusResponse, error) {
	cacheKey := portalCachePrefix + applicationNumber

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.PortalStatusResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Str("application_number", applicationNumber).Msg("portal status cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read portal status cache")
		}
	}

	applicant, err := s.applicants.GetByApplicationNumber(ctx, applicationNumber)
	if err != nil {
		return dto.PortalStatusResponse{}, s.mapNotFound(err, ErrApplicantNotFound)
	}

	response := dto.NewPortalStatusResponse(applicant)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store portal status cache")
			}
		}
	}

	return response, nil
}

func (s *admissionService) ListApplications(ctx context.Context) ([]dto.ApplicationSummaryResponse, error) {
	applications, err := s.applications.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewApplicationSummaryResponseSlice(applications), nil
}

func (s *admissionService) ListCycles(ctx context.Context) ([]dto.AdmissionCycleResponse, error) {
	cycles, err := s.cycles.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewAdmissionCycleResponseSlice(cycles), nil
}

func (s *admissionService) loadApplication(ctx context.Context, id uint) (models.Application, error) {
	application, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return models.Application{}, s.mapNotFound(err, ErrApplicationNotFound)
	}

	return application, nil
}

// notify runs a best-effort notification with a bounded timeout. Failures
// are logged and counted but never propagated.
func (s *admissionService) notify(ctx context.Context, kind string, send func(context.Context) error) bool {
	ctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()

	if err := send(ctx); err != nil {
		s.logger.Warn().Err(err).Str("kind", kind).Msg("notification delivery failed")
		observability.Emails().WithLabelValues(kind, "failed").Inc()
		return false
	}

	observability.Emails().WithLabelValues(kind, "sent").Inc()
	return true
}

func (s *admissionService) publishEvent(ctx context.Context, eventType string, application models.Application) {
	if s.events == nil {
		return
	}

	event := AdmissionEvent{
		Type:              eventType,
		ApplicationID:     application.ID,
		ApplicationNumber: application.Applicant.ApplicationNumber,
		Program:           application.Program.Name,
		OccurredAt:        s.now(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("type", eventType).Msg("admission event publish failed")
	}
}

func (s *admissionService) invalidatePortalCache(ctx context.Context, applicationNumber string) {
	if s.cache == nil || applicationNumber == "" {
		return
	}
	if err := s.cache.Del(ctx, portalCachePrefix+applicationNumber).Err(); err != nil {
		s.logger.Warn().Err(err).Str("application_number", applicationNumber).Msg("failed to invalidate portal cache")
	}
}

func (s *admissionService) mapDecisionError(err error) error {
	if errors.Is(err, repository.ErrStaleState) {
		return ErrDecisionAlreadyMade
	}
	return s.mapNotFound(err, ErrApplicationNotFound)
}

func (s *admissionService) mapPaymentError(err error) error {
	switch {
	case errors.Is(err, repository.ErrStaleState):
		return ErrFeeAlreadyPaid
	case errors.Is(err, repository.ErrLedgerAppend):
		return fmt.Errorf("%w: %v", ErrPartialPersistence, err)
	default:
		return s.mapNotFound(err, ErrApplicationNotFound)
	}
}

func (s *admissionService) mapNotFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// parseAmount converts external monetary input into a two-decimal-place
// value, rejecting anything non-numeric or negative before state is touched.
func parseAmount(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Decimal{}, ErrInvalidAmount
	}

	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if amount.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	return amount.Round(2), nil
}

func paymentMethodOrDefault(method string) string {
	method = strings.TrimSpace(method)
	if method == "" {
		return "Online"
	}
	return method
}

func newReceiptNumber(applicationID uint) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("RCPT-%d-%s", applicationID, suffix)
}

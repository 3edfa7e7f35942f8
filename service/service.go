package service

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/emzola/libraria/config"
	"github.com/emzola/libraria/data"
	"github.com/emzola/libraria/internal/jsonlog"
	"github.com/emzola/libraria/repository"
)

type Service interface {
	books
	members
	lendings
	reports
	staff
	sessions
	auditLog
}

// mailSender delivers templated e-mail. *mailer.Mailer satisfies it.
type mailSender interface {
	Send(recipient, templateFile string, data any) error
}

// objectUploader stores report files. *manager.Uploader satisfies it.
type objectUploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// Services defines a service layer.
type service struct {
	config     config.Config
	wg         *sync.WaitGroup
	logger     *jsonlog.Logger
	repo       repository.Repository
	policy     data.Policy
	mailer     mailSender
	uploader   objectUploader
	httpClient *http.Client
	now        func() time.Time
}

// Option configures optional collaborators of the service.
type Option func(*service)

// WithMailer enables e-mail notifications.
func WithMailer(m mailSender) Option {
	return func(s *service) { s.mailer = m }
}

// WithS3 enables report exports to the configured bucket.
func WithS3(client *s3.Client) Option {
	return func(s *service) { s.uploader = manager.NewUploader(client) }
}

// WithHTTPClient enables catalog lookups by ISBN.
func WithHTTPClient(client *http.Client) Option {
	return func(s *service) { s.httpClient = client }
}

// New creates a new instance of Service. Background goroutines are tracked by wg.
func New(cfg config.Config, wg *sync.WaitGroup, logger *jsonlog.Logger, repo repository.Repository, opts ...Option) (*service, error) {
	policy, err := data.NewPolicy(cfg.Policy.LoanDays, cfg.Policy.FinePerDay, cfg.Policy.Rounding, cfg.Policy.MaxOpenLendings)
	if err != nil {
		return nil, err
	}
	s := &service{
		config: cfg,
		wg:     wg,
		logger: logger,
		repo:   repo,
		policy: policy,
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

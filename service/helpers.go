package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/emzola/libraria/data"
	"github.com/emzola/libraria/repository"
	"github.com/gabriel-vasile/mimetype"
)

// detectMimeType reads the whole multipart file and sniffs its content type.
// The buffer is returned so the file doesn't have to be read twice.
func (s *service) detectMimeType(file multipart.File) ([]byte, *mimetype.MIME, error) {
	buffer, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, err
	}
	return buffer, mimetype.Detect(buffer), nil
}

// background launches a background goroutine and recovers from panics inside
// the goroutine. It accepts an arbitrary function as a parameter and executes
// the function parameter inside the goroutine.
func (s *service) background(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if err := recover(); err != nil {
				s.logger.PrintError(fmt.Errorf("%s", err), nil)
			}
		}()
		fn()
	}()
}

// sendMail delivers an e-mail in the background when a mailer is configured
// and the recipient has an address.
func (s *service) sendMail(recipient, templateFile string, data map[string]any) {
	if s.mailer == nil || recipient == "" {
		return
	}
	s.background(func() {
		err := s.mailer.Send(recipient, templateFile, data)
		if err != nil {
			s.logger.PrintError(err, map[string]string{"template": templateFile})
		}
	})
}

// recordAudit writes an audit entry for a change that already happened. A
// failure is logged rather than returned so the caller's result stands.
func (s *service) recordAudit(entry *data.AuditEntry) {
	if err := s.repo.CreateAudit(entry); err != nil {
		s.logger.PrintError(err, map[string]string{
			"action": entry.Action,
			"entity": entry.Entity,
		})
	}
}

// fetchRemoteResource fetches data from a remote resource using a HTTP client.
func (s *service) fetchRemoteResource(client *http.Client, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	r, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer r.Body.Close()
	if r.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, r.StatusCode)
	}
	return io.ReadAll(io.LimitReader(r.Body, 1<<20))
}

// translate maps repository errors to their service counterparts.
func translate(err error) error {
	switch {
	case errors.Is(err, repository.ErrRecordNotFound):
		return ErrRecordNotFound
	case errors.Is(err, repository.ErrEditConflict):
		return ErrEditConflict
	case errors.Is(err, repository.ErrDuplicateRecord):
		return ErrDuplicateRecord
	case errors.Is(err, repository.ErrUnavailable):
		return ErrUnavailable
	case errors.Is(err, repository.ErrAlreadyReturned):
		return ErrAlreadyReturned
	default:
		return err
	}
}

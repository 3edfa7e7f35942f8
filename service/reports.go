package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/emzola/libraria/data"
	"github.com/google/uuid"
)

type reports interface {
	ExportReturnedOverdue(actor *data.Staff) (string, error)
}

var fineReportHeader = []string{
	"lending_id", "member_id", "member_name", "isbn", "title",
	"lend_date", "due_date", "return_date", "days_late", "fine_amount",
}

// writeFineReport renders returned-overdue records as CSV.
func (s *service) writeFineReport(lendings []*data.Lending) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	if err := w.Write(fineReportHeader); err != nil {
		return nil, err
	}
	for _, l := range lendings {
		var returned string
		var daysLate int
		if l.ReturnDate != nil {
			returned = l.ReturnDate.Format(time.RFC3339)
			daysLate = s.policy.DaysLate(l.DueDate, *l.ReturnDate)
		}
		record := []string{
			strconv.FormatInt(l.ID, 10),
			l.Member.MemberID,
			l.Member.Name,
			l.Book.Isbn,
			l.Book.Title,
			l.LendDate.Format(time.RFC3339),
			l.DueDate.Format(time.RFC3339),
			returned,
			strconv.Itoa(daysLate),
			l.FineAmount.Decimal.StringFixed(2),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportReturnedOverdue service uploads every fined return as a CSV report to
// the configured bucket and returns the object key.
func (s *service) ExportReturnedOverdue(actor *data.Staff) (string, error) {
	if s.uploader == nil || s.config.S3.Bucket == "" {
		return "", fmt.Errorf("%w: report storage", ErrNotConfigured)
	}
	lendings, err := s.repo.GetReturnedOverdue("")
	if err != nil {
		return "", err
	}
	body, err := s.writeFineReport(lendings)
	if err != nil {
		return "", err
	}
	now := s.now()
	key := fmt.Sprintf("reports/fines/%s-%s.csv", now.Format(time.DateOnly), uuid.NewString())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(s.config.S3.Bucket),
		Key:                aws.String(key),
		Body:               bytes.NewReader(body),
		ContentType:        aws.String("text/csv"),
		ContentDisposition: aws.String("attachment"),
	})
	if err != nil {
		return "", err
	}
	entry := data.NewAuditEntry(actor, data.ActionExport, data.EntityReport, 0)
	entry.Details["key"] = key
	entry.Details["records"] = len(lendings)
	s.recordAudit(entry)
	return key, nil
}

package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderFineNotice(t *testing.T) {
	subject, plain, html, err := Render("fine_notice.tmpl", map[string]string{
		"memberName": "Ada",
		"title":      "Dune",
		"dueDate":    "10 Jan 2024",
		"returnDate": "13 Jan 2024",
		"daysLate":   "3",
		"fineAmount": "150",
	})
	require.NoError(t, err)
	assert.Equal(t, `Late return fine for "Dune"`, subject)
	assert.Contains(t, plain, "3 day(s) late")
	assert.Contains(t, plain, "A fine of 150")
	assert.Contains(t, html, "<strong>150</strong>")
}

func TestRenderLendingReceipt(t *testing.T) {
	subject, plain, _, err := Render("lending_receipt.tmpl", map[string]string{
		"memberName": "Ada",
		"title":      "Dune",
		"author":     "Frank Herbert",
		"lendDate":   "01 Jan 2024",
		"dueDate":    "15 Jan 2024",
		"finePerDay": "50",
	})
	require.NoError(t, err)
	assert.Equal(t, `You borrowed "Dune"`, subject)
	assert.Contains(t, plain, "Please return it by 15 Jan 2024")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("missing.tmpl", nil)
	assert.Error(t, err)
}

package service

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/emzola/libraria/config"
	"github.com/emzola/libraria/data"
	"github.com/emzola/libraria/internal/jsonlog"
	"github.com/emzola/libraria/repository"
	"github.com/stretchr/testify/require"
)

// fakeRepo is an in-memory repository. Methods not overridden panic through
// the nil embedded interface.
type fakeRepo struct {
	repository.Repository

	mu       sync.Mutex
	books    map[int64]*data.Book
	members  map[int64]*data.Member
	lendings map[int64]*data.Lending
	staff    map[int64]*data.Staff
	tokens   map[string]*data.Token
	audit    []*data.AuditEntry
	nextID   int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		books:    map[int64]*data.Book{},
		members:  map[int64]*data.Member{},
		lendings: map[int64]*data.Lending{},
		staff:    map[int64]*data.Staff{},
		tokens:   map[string]*data.Token{},
	}
}

func (f *fakeRepo) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeRepo) addBook(isbn string, copies int) *data.Book {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := &data.Book{ID: f.id(), Isbn: isbn, Title: "Title " + isbn, Author: "Author", CopiesAvailable: copies, Version: 1}
	f.books[b.ID] = b
	return b
}

func (f *fakeRepo) addMember(memberID, nic, email string) *data.Member {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := &data.Member{ID: f.id(), MemberID: memberID, NIC: nic, Name: "Member " + memberID, Email: email, Version: 1}
	f.members[m.ID] = m
	return m
}

func (f *fakeRepo) bookCopies(id int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.books[id].CopiesAvailable
}

func (f *fakeRepo) lendingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.lendings)
}

func (f *fakeRepo) CreateBook(book *data.Book) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.books {
		if b.Isbn == book.Isbn {
			return repository.ErrDuplicateRecord
		}
	}
	book.ID = f.id()
	book.Version = 1
	copied := *book
	f.books[book.ID] = &copied
	return nil
}

func (f *fakeRepo) GetBook(bookID int64) (*data.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.books[bookID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeRepo) GetBookByIsbn(isbn string) (*data.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.books {
		if b.Isbn == isbn {
			copied := *b
			return &copied, nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (f *fakeRepo) DeleteBook(bookID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.books[bookID]; !ok {
		return repository.ErrRecordNotFound
	}
	delete(f.books, bookID)
	return nil
}

func (f *fakeRepo) GetMemberByIdentifier(identifier data.BorrowerIdentifier) (*data.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		switch identifier.(type) {
		case data.MemberCode:
			if m.MemberID == identifier.Value() {
				copied := *m
				return &copied, nil
			}
		case data.NIC:
			if strings.EqualFold(m.NIC, identifier.Value()) {
				copied := *m
				return &copied, nil
			}
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (f *fakeRepo) memberConflict(member *data.Member) bool {
	for _, m := range f.members {
		if m.ID != member.ID && (m.MemberID == member.MemberID || strings.EqualFold(m.NIC, member.NIC)) {
			return true
		}
	}
	return false
}

func (f *fakeRepo) CreateMember(member *data.Member) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.memberConflict(member) {
		return repository.ErrDuplicateRecord
	}
	member.ID = f.id()
	member.Version = 1
	copied := *member
	f.members[member.ID] = &copied
	return nil
}

func (f *fakeRepo) GetMember(memberID int64) (*data.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[memberID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	copied := *m
	return &copied, nil
}

func (f *fakeRepo) UpdateMember(member *data.Member) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.members[member.ID]
	if !ok {
		return repository.ErrRecordNotFound
	}
	if stored.Version != member.Version {
		return repository.ErrEditConflict
	}
	if f.memberConflict(member) {
		return repository.ErrDuplicateRecord
	}
	member.Version++
	copied := *member
	f.members[member.ID] = &copied
	return nil
}

func (f *fakeRepo) DeleteMember(memberID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.members[memberID]; !ok {
		return repository.ErrRecordNotFound
	}
	delete(f.members, memberID)
	return nil
}

func (f *fakeRepo) CountOpenLendingsForMember(memberID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, l := range f.lendings {
		if l.Member.ID == memberID && !l.IsReturned {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) CountOpenLendingsForBook(bookID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, l := range f.lendings {
		if l.Book.ID == bookID && !l.IsReturned {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) CreateLending(lending *data.Lending, audit *data.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.books[lending.Book.ID]
	if !ok || b.CopiesAvailable < 1 {
		return repository.ErrUnavailable
	}
	b.CopiesAvailable--
	lending.Book.CopiesAvailable = b.CopiesAvailable
	lending.ID = f.id()
	lending.Version = 1
	copied := *lending
	f.lendings[lending.ID] = &copied
	if audit != nil {
		audit.EntityID = lending.ID
		f.audit = append(f.audit, audit)
	}
	return nil
}

func (f *fakeRepo) ReturnLending(lendingID int64, settle func(*data.Lending) error, audit *data.AuditEntry) (*data.Lending, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.lendings[lendingID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	if stored.IsReturned {
		return nil, repository.ErrAlreadyReturned
	}
	lending := *stored
	if err := settle(&lending); err != nil {
		return nil, err
	}
	lending.Version++
	f.books[lending.Book.ID].CopiesAvailable++
	lending.Book.CopiesAvailable = f.books[lending.Book.ID].CopiesAvailable
	f.lendings[lendingID] = &lending
	if audit != nil {
		f.audit = append(f.audit, audit)
	}
	copied := lending
	return &copied, nil
}

func (f *fakeRepo) GetLending(lendingID int64) (*data.Lending, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lendings[lendingID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	copied := *l
	return &copied, nil
}

func (f *fakeRepo) GetAllLendings(search string) ([]*data.Lending, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*data.Lending{}
	for _, l := range f.lendings {
		if search == "" || matchesSearch(search, l.Member.Name, l.Member.MemberID, l.Member.NIC, l.Book.Title, l.Book.Isbn) {
			copied := *l
			out = append(out, &copied)
		}
	}
	return out, nil
}

func matchesSearch(search string, fields ...string) bool {
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), strings.ToLower(search)) {
			return true
		}
	}
	return false
}

func (f *fakeRepo) GetReturnedOverdue(search string) ([]*data.Lending, error) {
	all, _ := f.GetAllLendings(search)
	out := []*data.Lending{}
	for _, l := range all {
		if l.IsReturned && l.FineAmount.Valid && l.FineAmount.Decimal.IsPositive() {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateAudit(entry *data.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.audit = append(f.audit, entry)
	return nil
}

func (f *fakeRepo) GetAllAudit(action, entity string, filters data.Filters) ([]*data.AuditEntry, data.Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := []*data.AuditEntry{}
	for _, e := range f.audit {
		if (action == "" || e.Action == action) && (entity == "" || e.Entity == entity) {
			entries = append(entries, e)
		}
	}
	return entries, data.Metadata{CurrentPage: filters.Page, PageSize: filters.PageSize, TotalRecords: len(entries)}, nil
}

func (f *fakeRepo) auditActions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	actions := make([]string, len(f.audit))
	for i, e := range f.audit {
		actions[i] = e.Action
	}
	return actions
}

func (f *fakeRepo) CreateStaff(s *data.Staff) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.staff {
		if existing.Email == s.Email {
			return repository.ErrDuplicateRecord
		}
	}
	s.ID = f.id()
	s.Version = 1
	f.staff[s.ID] = s
	return nil
}

func (f *fakeRepo) CountStaff() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.staff), nil
}

func (f *fakeRepo) GetStaffByID(staffID int64) (*data.Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.staff[staffID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeRepo) GetStaffByEmail(email string) (*data.Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.staff {
		if s.Email == email {
			copied := *s
			return &copied, nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (f *fakeRepo) CreateNewToken(staffID int64, ttl time.Duration, scope string) (*data.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token := &data.Token{Plaintext: fmt.Sprintf("%026d", f.id()), StaffID: staffID, Expiry: time.Now().Add(ttl), Scope: scope}
	hash := sha256.Sum256([]byte(token.Plaintext))
	token.Hash = hash[:]
	f.tokens[string(token.Hash)] = token
	return token, nil
}

func (f *fakeRepo) ConsumeToken(scope, plaintext string) (*data.Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	hash := sha256.Sum256([]byte(plaintext))
	token, ok := f.tokens[string(hash[:])]
	if !ok || token.Scope != scope || time.Now().After(token.Expiry) {
		return nil, repository.ErrRecordNotFound
	}
	delete(f.tokens, string(hash[:]))
	s, ok := f.staff[token.StaffID]
	if !ok || !s.Active {
		return nil, repository.ErrRecordNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeRepo) DeleteAllTokensForStaff(scope string, staffID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, t := range f.tokens {
		if t.Scope == scope && t.StaffID == staffID {
			delete(f.tokens, k)
		}
	}
	return nil
}

type sentMail struct {
	recipient string
	template  string
	data      map[string]any
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *fakeMailer) Send(recipient, templateFile string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{recipient, templateFile, payload.(map[string]any)})
	return nil
}

type fakeUploader struct {
	key  string
	body []byte
}

func (u *fakeUploader) Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	u.key = *input.Key
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	u.body = body
	return &manager.UploadOutput{Key: input.Key}, nil
}

func testConfig() config.Config {
	var cfg config.Config
	cfg.Auth.Secret = strings.Repeat("s", 32)
	cfg.Auth.Issuer = "libraria"
	cfg.Auth.AccessTTL = 15 * time.Minute
	cfg.Auth.RefreshTTL = time.Hour
	cfg.Policy.LoanDays = 14
	cfg.Policy.FinePerDay = "50"
	cfg.Policy.Rounding = "ceil"
	return cfg
}

// newTestService returns a service over repo whose clock is fixed at *now.
func newTestService(t *testing.T, cfg config.Config, repo *fakeRepo, now *time.Time, opts ...Option) (*service, *sync.WaitGroup) {
	t.Helper()
	wg := &sync.WaitGroup{}
	s, err := New(cfg, wg, jsonlog.New(io.Discard, jsonlog.LevelOff), repo, opts...)
	require.NoError(t, err)
	s.now = func() time.Time { return *now }
	return s, wg
}

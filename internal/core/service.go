package core

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/mseboard/internal/logging"
	"github.com/JonMunkholm/mseboard/internal/record"
	"github.com/JonMunkholm/mseboard/internal/report"
	"github.com/JonMunkholm/mseboard/internal/unit"
	"github.com/google/uuid"
)

// ExportTimeout bounds fetching and rendering one workbook.
var ExportTimeout = 2 * time.Minute

// ErrUnknownUnit is returned for well-formed unit identifiers that are not
// part of the configured directory.
var ErrUnknownUnit = errors.New("unit not configured")

// Observer receives service events. A nil Observer is allowed.
type Observer interface {
	RecordSaved(kind unit.Kind, created bool)
	RecordDeleted(kind unit.Kind)
	ExportFinished(scope string, records, size int, elapsed time.Duration, err error)
}

// Options configures a Service. Zero fields get defaults.
type Options struct {
	Limiter  *ExportLimiter
	Observer Observer

	// DefaultPassword seeds bureaus and expert panels; OversightPassword
	// seeds the oversight unit.
	DefaultPassword   string
	OversightPassword string

	// Now is the clock used for export file names.
	Now func() time.Time
}

// Service provides the registry operations.
type Service struct {
	records RecordStore
	creds   CredentialStore
	dir     *unit.Directory

	limiter  *ExportLimiter
	observer Observer
	now      func() time.Time

	defaultPassword   string
	oversightPassword string
}

// NewService creates a Service over the given stores and unit directory.
func NewService(records RecordStore, creds CredentialStore, dir *unit.Directory, opts Options) (*Service, error) {
	if records == nil {
		return nil, errors.New("record store is required")
	}
	if creds == nil {
		return nil, errors.New("credential store is required")
	}
	if dir == nil {
		return nil, errors.New("unit directory is required")
	}

	s := &Service{
		records:           records,
		creds:             creds,
		dir:               dir,
		limiter:           opts.Limiter,
		observer:          opts.Observer,
		now:               opts.Now,
		defaultPassword:   opts.DefaultPassword,
		oversightPassword: opts.OversightPassword,
	}
	if s.limiter == nil {
		s.limiter = NewExportLimiter(DefaultMaxConcurrentExports, DefaultExportWait)
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Directory returns the configured units.
func (s *Service) Directory() *unit.Directory { return s.dir }

// Limiter returns the export limiter, for status reporting and shutdown.
func (s *Service) Limiter() *ExportLimiter { return s.limiter }

// ParseUnit parses id and checks it against the directory.
func (s *Service) ParseUnit(id string) (unit.Unit, error) {
	u, err := unit.Parse(id)
	if err != nil {
		return unit.Unit{}, err
	}
	if !s.dir.Contains(u) {
		return unit.Unit{}, fmt.Errorf("%w: %s", ErrUnknownUnit, u)
	}
	return u, nil
}

// SaveRecord normalizes p and stores it for owner. rawID selects the record
// to update; nil or "" inserts a new one. Updating a record of another unit
// fails with record.ErrNotFound unless owner is the oversight unit.
func (s *Service) SaveRecord(ctx context.Context, owner unit.Unit, p record.Payload, rawID any) (record.Record, error) {
	if !s.dir.Contains(owner) {
		return record.Record{}, &record.ValidationError{Field: "bureauNumber", Value: owner.String(), Message: "unknown unit"}
	}

	id, err := record.ParseID(rawID)
	if err != nil {
		return record.Record{}, err
	}

	n, err := record.Normalize(p, id)
	if err != nil {
		return record.Record{}, err
	}
	if len(n.Ignored) > 0 {
		logging.FromContext(ctx).Debug("ignored unknown record keys", "unit", owner.String(), "keys", n.Ignored)
	}

	if id != nil {
		if _, err := s.GetRecord(ctx, owner, *id); err != nil {
			return record.Record{}, err
		}
	}

	saved, err := s.records.Upsert(ctx, owner, n)
	if err != nil {
		return record.Record{}, fmt.Errorf("save record: %w", err)
	}

	if s.observer != nil {
		s.observer.RecordSaved(saved.Unit.Kind, id == nil)
	}
	return saved, nil
}

// GetRecord returns record id as seen by requester.
func (s *Service) GetRecord(ctx context.Context, requester unit.Unit, id int64) (record.Record, error) {
	r, err := s.records.Get(ctx, id)
	if err != nil {
		return record.Record{}, err
	}
	if !requester.IsOversight() && r.Unit != requester {
		return record.Record{}, fmt.Errorf("%w: id %d", record.ErrNotFound, id)
	}
	return r, nil
}

// ListRecords returns the records matching f.
func (s *Service) ListRecords(ctx context.Context, f Filter) ([]record.Record, error) {
	records, err := s.records.Fetch(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

// CountRecords counts the records matching f, ignoring Limit and Offset.
func (s *Service) CountRecords(ctx context.Context, f Filter) (int64, error) {
	f.Limit, f.Offset = 0, 0
	n, err := s.records.Count(ctx, f)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// DeleteRecord removes record id on behalf of requester.
func (s *Service) DeleteRecord(ctx context.Context, requester unit.Unit, id int64) error {
	r, err := s.GetRecord(ctx, requester, id)
	if err != nil {
		return err
	}

	ok, err := s.records.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete record %d: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("%w: id %d", record.ErrNotFound, id)
	}

	if s.observer != nil {
		s.observer.RecordDeleted(r.Unit.Kind)
	}
	return nil
}

// Export is a rendered workbook ready for download.
type Export struct {
	ID       string
	FileName string
	Selector report.Selector
	Records  int
	Data     []byte
}

// Export renders the records chosen by sel (and search) into a workbook.
// It waits for an export slot first.
func (s *Service) Export(ctx context.Context, sel report.Selector, search string) (*Export, error) {
	if u, ok := sel.Unit(); ok && !s.dir.Contains(u) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUnit, u)
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, ExportTimeout)
	defer cancel()

	start := time.Now()
	exp, err := s.export(ctx, sel, search)
	if s.observer != nil {
		var records, size int
		if exp != nil {
			records, size = exp.Records, len(exp.Data)
		}
		s.observer.ExportFinished(exportScope(sel), records, size, time.Since(start), err)
	}
	return exp, err
}

func (s *Service) export(ctx context.Context, sel report.Selector, search string) (*Export, error) {
	f := Filter{Search: search}
	if u, ok := sel.Unit(); ok {
		f.Unit = &u
	}

	records, err := s.records.Fetch(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("fetch records for export: %w", err)
	}

	data, err := report.Assemble(records, sel, s.dir)
	if err != nil {
		return nil, fmt.Errorf("assemble %s workbook: %w", sel, err)
	}

	exp := &Export{
		ID:       uuid.New().String(),
		FileName: report.FileName(sel, s.now()),
		Selector: sel,
		Records:  len(records),
		Data:     data,
	}
	attrs := append([]any{
		"export_id", exp.ID,
		"selector", sel.String(),
		"records", exp.Records,
		"bytes", len(data),
	}, clientAttrs(ctx)...)
	logging.FromContext(ctx).Info("export built", attrs...)
	return exp, nil
}

// exportScope is the low-cardinality metric label for sel.
func exportScope(sel report.Selector) string {
	u, ok := sel.Unit()
	if !ok {
		return "all"
	}
	return u.Kind.String()
}

// VerifyPassword reports whether password is the secret of u.
func (s *Service) VerifyPassword(ctx context.Context, u unit.Unit, password string) (bool, error) {
	if !s.dir.Contains(u) {
		return false, fmt.Errorf("%w: %s", ErrUnknownUnit, u)
	}
	secret, ok, err := s.creds.Secret(ctx, u.String())
	if err != nil {
		return false, fmt.Errorf("load secret: %w", err)
	}
	if !ok || password == "" {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(password)) == 1, nil
}

// UpdatePassword replaces the secret of u.
func (s *Service) UpdatePassword(ctx context.Context, u unit.Unit, password string) error {
	if password == "" {
		return &record.ValidationError{Field: "password", Message: "required field is empty"}
	}
	if !s.dir.Contains(u) {
		return fmt.Errorf("%w: %s", ErrUnknownUnit, u)
	}

	ok, err := s.creds.SetSecret(ctx, u.String(), password)
	if err != nil {
		return fmt.Errorf("update secret: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s has no credentials", ErrUnknownUnit, u)
	}
	logging.FromContext(ctx).Info("password updated", append([]any{"unit", u.String()}, clientAttrs(ctx)...)...)
	return nil
}

// SeedCredentials gives every configured unit without a secret its default
// one. It returns how many secrets were created.
func (s *Service) SeedCredentials(ctx context.Context) (int, error) {
	secrets := make(map[string]string)
	for _, u := range s.dir.All() {
		if u.IsOversight() {
			if s.oversightPassword != "" {
				secrets[u.String()] = s.oversightPassword
			}
			continue
		}
		if s.defaultPassword != "" {
			secrets[u.String()] = s.defaultPassword
		}
	}

	n, err := s.creds.Seed(ctx, secrets)
	if err != nil {
		return 0, fmt.Errorf("seed credentials: %w", err)
	}
	if n > 0 {
		logging.FromContext(ctx).Info("seeded unit credentials", "count", n)
	}
	return n, nil
}

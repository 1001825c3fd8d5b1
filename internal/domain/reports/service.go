package reports

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"medication-manager/internal/ports/blob"
	"medication-manager/internal/ports/storage"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("report not found")
	ErrNoFile       = errors.New("report has no file")
	ErrTooLarge     = errors.New("file too large")
)

// MaxUploadBytes limita el tamaño de un archivo subido.
const MaxUploadBytes = 10 << 20

type Service struct {
	repo  Repository
	files blob.Store // nil: contenido inline como data URI
	now   func() time.Time
}

func NewService(repo Repository, files blob.Store) *Service {
	return &Service{repo: repo, files: files, now: time.Now}
}

type UploadInput struct {
	Name        string
	Category    Category // vacío = other
	ContentType string
	Body        io.Reader
}

func (s *Service) Upload(ctx context.Context, in UploadInput) (Report, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Body == nil {
		return Report{}, ErrInvalidInput
	}
	cat := in.Category
	if cat == "" {
		cat = CategoryOther
	}
	if !cat.Valid() {
		return Report{}, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, cat)
	}

	data, err := io.ReadAll(io.LimitReader(in.Body, MaxUploadBytes+1))
	if err != nil {
		return Report{}, err
	}
	if len(data) > MaxUploadBytes {
		return Report{}, ErrTooLarge
	}

	ct := strings.TrimSpace(in.ContentType)
	if ct == "" {
		ct = "application/octet-stream"
	}

	now := s.now()
	rep := Report{
		ID:          uuid.NewString(),
		Name:        name,
		Type:        typeFor(ct),
		UploadDate:  now.Format("2006-01-02"),
		Size:        humanize.Bytes(uint64(len(data))),
		SizeBytes:   int64(len(data)),
		Category:    cat,
		ContentType: ct,
		CreatedAt:   now,
	}

	if s.files != nil {
		key := path.Join("reports", rep.ID, safeName(name))
		if _, err := s.files.Put(ctx, key, bytes.NewReader(data), blob.PutOptions{
			ContentType: ct,
			Metadata:    map[string]string{"category": string(cat)},
		}); err != nil {
			return Report{}, fmt.Errorf("store report file: %w", err)
		}
		rep.FileKey = key
	} else {
		rep.FileData = "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(data)
	}

	if _, err := s.repo.Insert(ctx, rep); err != nil {
		if rep.FileKey != "" {
			_, _ = s.files.Delete(ctx, rep.FileKey)
		}
		return Report{}, err
	}
	return rep, nil
}

// List devuelve los más nuevos primero.
func (s *Service) List(ctx context.Context) ([]Report, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return newestFirst(items), nil
}

func (s *Service) ListByCategory(ctx context.Context, cat Category) ([]Report, error) {
	if !cat.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, cat)
	}
	items, err := s.repo.Find(ctx, func(r Report) bool { return r.Category == cat })
	if err != nil {
		return nil, err
	}
	return newestFirst(items), nil
}

func (s *Service) Get(ctx context.Context, id string) (Report, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Report{}, fmt.Errorf("%w: id=%s", ErrNotFound, id)
		}
		return Report{}, err
	}
	return r, nil
}

// Open devuelve el contenido del archivo. El caller cierra el reader.
func (s *Service) Open(ctx context.Context, id string) (Report, io.ReadCloser, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return Report{}, nil, err
	}

	switch {
	case r.FileKey != "":
		if s.files == nil {
			return Report{}, nil, fmt.Errorf("%w: blob store not configured", ErrNoFile)
		}
		_, rc, err := s.files.Get(ctx, r.FileKey)
		if err != nil {
			if errors.Is(err, blob.ErrNotFound) {
				return Report{}, nil, fmt.Errorf("%w: %s", ErrNoFile, r.FileKey)
			}
			return Report{}, nil, err
		}
		return r, rc, nil
	case r.FileData != "":
		_, data, err := decodeDataURI(r.FileData)
		if err != nil {
			return Report{}, nil, err
		}
		return r, io.NopCloser(bytes.NewReader(data)), nil
	default:
		return Report{}, nil, ErrNoFile
	}
}

// DataURI arma el data URI aunque el archivo viva en el blob store.
func (s *Service) DataURI(ctx context.Context, id string) (string, error) {
	r, rc, err := s.Open(ctx, id)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	if r.FileData != "" {
		return r.FileData, nil
	}
	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return "data:" + r.ContentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Delete es idempotente y también borra el blob si lo hay.
func (s *Service) Delete(ctx context.Context, id string) error {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if r.FileKey != "" && s.files != nil {
		if _, err := s.files.Delete(ctx, r.FileKey); err != nil {
			return fmt.Errorf("delete report file: %w", err)
		}
	}
	return nil
}

// CountByCategory incluye todas las categorías, aunque tengan cero.
func (s *Service) CountByCategory(ctx context.Context) (map[Category]int, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[Category]int, len(Categories))
	for _, c := range Categories {
		out[c] = 0
	}
	for _, r := range items {
		out[r.Category]++
	}
	return out, nil
}

// FileName es el nombre sugerido para descargar: "<name>.<type>".
func FileName(r Report) string {
	return r.Name + "." + strings.ToLower(string(r.Type))
}

func typeFor(contentType string) Type {
	switch {
	case strings.Contains(contentType, "pdf"):
		return TypePDF
	case strings.Contains(contentType, "image"):
		return TypeImage
	default:
		return TypeFile
	}
}

func newestFirst(items []Report) []Report {
	out := make([]Report, len(items))
	for i, r := range items {
		out[len(items)-1-i] = r
	}
	return out
}

func safeName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\':
			return '_'
		}
		return r
	}, name)
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" {
		return "file"
	}
	return name
}

func decodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: malformed data uri", ErrNoFile)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: malformed data uri", ErrNoFile)
	}
	ct := strings.TrimSuffix(meta, ";base64")
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrNoFile, err)
	}
	return ct, data, nil
}

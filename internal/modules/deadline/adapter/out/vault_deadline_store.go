package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"pacekeeper/internal/modules/deadline/domain"
	deadlineout "pacekeeper/internal/modules/deadline/port/out"
	apperrors "pacekeeper/internal/platform/errors"
	"pacekeeper/internal/platform/markdown"
)

const defaultBody = "## Notes\n\n## Quotes\n"

type VaultDeadlineStore struct {
	vaultPath string
}

func NewVaultDeadlineStore(vaultPath string) deadlineout.DeadlineStore {
	return &VaultDeadlineStore{vaultPath: vaultPath}
}

type frontmatter struct {
	SchemaVersion int           `yaml:"schema_version"`
	ID            string        `yaml:"id"`
	Title         string        `yaml:"title"`
	Author        string        `yaml:"author,omitempty"`
	Format        string        `yaml:"format"`
	TotalQuantity int           `yaml:"total_quantity"`
	DeadlineDate  string        `yaml:"deadline_date"`
	Source        string        `yaml:"source,omitempty"`
	CreatedAt     string        `yaml:"created_at"`
	Review        *reviewMatter `yaml:"review,omitempty"`
}

type reviewMatter struct {
	DueDate   string           `yaml:"due_date,omitempty"`
	NotesDone bool             `yaml:"notes_done"`
	Platforms []platformMatter `yaml:"platforms,omitempty"`
	CreatedAt string           `yaml:"created_at"`
}

type platformMatter struct {
	Name   string `yaml:"name"`
	Posted bool   `yaml:"posted"`
}

func (s *VaultDeadlineStore) dir() string {
	return filepath.Join(s.vaultPath, "deadlines")
}

func (s *VaultDeadlineStore) Save(_ context.Context, document domain.DeadlineDocument) (string, error) {
	deadline := document.Deadline
	if strings.TrimSpace(deadline.Slug) == "" {
		return "", fmt.Errorf("%w: deadline slug is required", apperrors.ErrInvalidInput)
	}
	notePath := filepath.Join(s.dir(), deadline.Slug+".md")
	if err := os.MkdirAll(filepath.Dir(notePath), 0o755); err != nil {
		return "", fmt.Errorf("create deadline directory: %w", err)
	}

	body := document.Body
	if strings.TrimSpace(body) == "" {
		if existing, err := os.ReadFile(notePath); err == nil {
			var ignored frontmatter
			if existingBody, decodeErr := markdown.Decode(string(existing), &ignored); decodeErr == nil {
				body = existingBody
			}
		}
	}
	if strings.TrimSpace(body) == "" {
		body = defaultBody
	}

	rendered, err := markdown.Encode(toFrontmatter(deadline), body)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(notePath, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write deadline markdown: %w", err)
	}
	return notePath, nil
}

func (s *VaultDeadlineStore) FindByID(ctx context.Context, id string) (domain.DeadlineDocument, error) {
	docs, err := s.List(ctx)
	if err != nil {
		return domain.DeadlineDocument{}, err
	}
	for _, doc := range docs {
		if doc.Deadline.ID == id {
			return doc, nil
		}
	}
	return domain.DeadlineDocument{}, fmt.Errorf("deadline %s: %w", id, apperrors.ErrNotFound)
}

func (s *VaultDeadlineStore) List(_ context.Context) ([]domain.DeadlineDocument, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir(), "*.md"))
	if err != nil {
		return nil, fmt.Errorf("glob deadline notes: %w", err)
	}
	sort.Strings(matches)

	out := make([]domain.DeadlineDocument, 0, len(matches))
	for _, path := range matches {
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("read %s: %w", path, readErr)
		}
		var meta frontmatter
		body, decodeErr := markdown.Decode(string(content), &meta)
		if decodeErr != nil {
			return nil, fmt.Errorf("parse %s: %w", path, decodeErr)
		}
		deadline, convErr := fromFrontmatter(meta, path)
		if convErr != nil {
			return nil, fmt.Errorf("decode deadline %s: %w", path, convErr)
		}
		out = append(out, domain.DeadlineDocument{Deadline: deadline, Body: body})
	}
	return out, nil
}

func toFrontmatter(d domain.Deadline) frontmatter {
	meta := frontmatter{
		SchemaVersion: domain.SchemaVersion,
		ID:            d.ID,
		Title:         d.Title,
		Author:        d.Author,
		Format:        string(d.Format),
		TotalQuantity: d.TotalQuantity,
		DeadlineDate:  d.DeadlineDate,
		Source:        d.Source,
		CreatedAt:     d.CreatedAt.Format(time.RFC3339Nano),
	}
	if d.Review != nil {
		review := &reviewMatter{
			DueDate:   d.Review.ReviewDueDate,
			NotesDone: d.Review.NotesDone,
			CreatedAt: d.Review.CreatedAt.Format(time.RFC3339Nano),
		}
		for _, p := range d.Review.Platforms {
			review.Platforms = append(review.Platforms, platformMatter{Name: p.Name, Posted: p.Posted})
		}
		meta.Review = review
	}
	return meta
}

func fromFrontmatter(meta frontmatter, notePath string) (domain.Deadline, error) {
	if meta.SchemaVersion > domain.SchemaVersion {
		return domain.Deadline{}, fmt.Errorf("unsupported schema version %d", meta.SchemaVersion)
	}
	createdAt, _ := time.Parse(time.RFC3339Nano, meta.CreatedAt)
	deadline := domain.Deadline{
		ID:            meta.ID,
		Title:         meta.Title,
		Author:        meta.Author,
		Format:        domain.Format(meta.Format),
		TotalQuantity: meta.TotalQuantity,
		DeadlineDate:  meta.DeadlineDate,
		CreatedAt:     createdAt,
		Source:        meta.Source,
		NotePath:      notePath,
		Slug:          strings.TrimSuffix(filepath.Base(notePath), filepath.Ext(notePath)),
	}
	if meta.Review != nil {
		reviewCreated, _ := time.Parse(time.RFC3339Nano, meta.Review.CreatedAt)
		review := &domain.ReviewTracking{
			ReviewDueDate: meta.Review.DueDate,
			NotesDone:     meta.Review.NotesDone,
			CreatedAt:     reviewCreated,
		}
		for _, p := range meta.Review.Platforms {
			review.Platforms = append(review.Platforms, domain.ReviewPlatform{Name: p.Name, Posted: p.Posted})
		}
		deadline.Review = review
	}
	if err := deadline.ValidateIdentity(); err != nil {
		return domain.Deadline{}, err
	}
	return deadline, nil
}

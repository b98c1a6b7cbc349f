package out

import (
	"context"
	"fmt"

	deadlineout "pacekeeper/internal/modules/deadline/port/out"
	apperrors "pacekeeper/internal/platform/errors"
	"rsc.io/pdf"
)

type LocalPDFPageCounter struct{}

func NewLocalPDFPageCounter() deadlineout.PageCounter {
	return &LocalPDFPageCounter{}
}

func (c *LocalPDFPageCounter) CountPages(_ context.Context, path string) (int, error) {
	doc, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	total := doc.NumPage()
	if total <= 0 {
		return 0, fmt.Errorf("%w: pdf %s has no pages", apperrors.ErrInvalidInput, path)
	}
	return total, nil
}

package out

import (
	"context"

	deadlinedomain "pacekeeper/internal/modules/deadline/domain"
	deadlinedto "pacekeeper/internal/modules/deadline/dto"
	deadlinein "pacekeeper/internal/modules/deadline/port/in"
	"pacekeeper/internal/modules/pace/domain"
	paceout "pacekeeper/internal/modules/pace/port/out"
)

// DeadlineLedgerAdapter reads ledgers through the deadline module's inbound
// port; the pace module never touches deadline storage directly.
type DeadlineLedgerAdapter struct {
	deadlines deadlinein.Usecase
}

func NewDeadlineLedgerAdapter(deadlines deadlinein.Usecase) paceout.LedgerSource {
	return &DeadlineLedgerAdapter{deadlines: deadlines}
}

func (a *DeadlineLedgerAdapter) Ledgers(ctx context.Context) ([]domain.Ledger, error) {
	ledgers, err := a.deadlines.ListLedgers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Ledger, 0, len(ledgers))
	for _, l := range ledgers {
		out = append(out, toLedger(l))
	}
	return out, nil
}

func toLedger(l deadlinedto.LedgerOutput) domain.Ledger {
	d := l.Deadline
	ledger := domain.Ledger{
		Deadline: deadlinedomain.Deadline{
			ID:            d.ID,
			Title:         d.Title,
			Author:        d.Author,
			Format:        deadlinedomain.Format(d.Format),
			TotalQuantity: d.TotalQuantity,
			DeadlineDate:  d.DeadlineDate,
			CreatedAt:     d.CreatedAt,
			NotePath:      d.NotePath,
		},
		Progress: make([]deadlinedomain.ProgressEntry, 0, len(l.Progress)),
		Statuses: make([]deadlinedomain.StatusEntry, 0, len(l.Statuses)),
	}
	for _, e := range l.Progress {
		ledger.Progress = append(ledger.Progress, deadlinedomain.ProgressEntry{
			ID:              e.ID,
			DeadlineID:      e.DeadlineID,
			CurrentProgress: e.CurrentProgress,
			CreatedAt:       e.CreatedAt,
			IgnoreInCalcs:   e.IgnoreInCalcs,
		})
	}
	for _, e := range l.Statuses {
		ledger.Statuses = append(ledger.Statuses, deadlinedomain.StatusEntry{
			ID:         e.ID,
			DeadlineID: e.DeadlineID,
			Status:     deadlinedomain.Status(e.Status),
			CreatedAt:  e.CreatedAt,
		})
	}
	return ledger
}

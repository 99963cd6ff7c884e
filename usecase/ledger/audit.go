package ledger

import (
	"context"
	"errors"

	"github.com/labstack/gommon/log"
	"github.com/radhian/ledger-engine/consts"
	"github.com/radhian/ledger-engine/entity"
)

// AuditDrift walks every account in id order and reports the ones whose
// stored balance differs from the recalculated one by a cent or more.
func (u *ledgerUsecase) AuditDrift(ctx context.Context, opts entity.AuditOptions) (*entity.AuditReport, error) {
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = consts.DefaultBatchSize
	}

	report := &entity.AuditReport{}
	afterID := ""
	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		accounts, err := u.dao.ListAccountsAfter(afterID, batchSize)
		if err != nil {
			return report, err
		}

		for _, account := range accounts {
			report.Scanned++
			if u.locker.IsProcessing(account.ID) {
				log.Infof("[Audit] account %s is being reconciled, skipped", account.ID)
				report.Skipped++
				continue
			}

			res, err := u.recalculate(ctx, account.OwnerID, account.ID, true)
			if errors.Is(err, ErrReconciliationInProgress) {
				report.Skipped++
				continue
			}
			if err != nil {
				log.Errorf("[Audit] account %s: %v", account.ID, err)
				report.Failed++
				continue
			}
			if res.Deviation.Abs().LessThan(driftTolerance) {
				continue
			}

			log.Warnf("[Audit] account %s drifted: stored %s, calculated %s", account.ID, res.CurrentBalance, res.CalculatedBalance)
			if opts.AutoCorrect {
				applied, err := u.recalculate(ctx, account.OwnerID, account.ID, false)
				if err != nil {
					log.Errorf("[Audit] failed to correct account %s: %v", account.ID, err)
					report.Failed++
				} else {
					report.Corrected++
					res = applied
				}
			}
			report.Drifted = append(report.Drifted, *res)
		}

		if len(accounts) < batchSize {
			break
		}
		afterID = accounts[len(accounts)-1].ID
	}

	log.Infof("[Audit] scanned %d, drifted %d, corrected %d, skipped %d, failed %d",
		report.Scanned, len(report.Drifted), report.Corrected, report.Skipped, report.Failed)
	return report, nil
}

package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/labstack/gommon/log"
	"github.com/radhian/ledger-engine/entity"
)

var errNoAccountAudited = errors.New("no account audited")

// AuditExecution runs one drift audit sweep for the cron workers.
func (h *LedgerHandler) AuditExecution(ctx context.Context, opts entity.AuditOptions) (report *entity.AuditReport, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("[AuditJob] Panic recovered: %v", r)
			err = fmt.Errorf("audit aborted: %v", r)
		}
	}()

	report, err = h.Usecase.AuditDrift(ctx, opts)
	if err != nil {
		return report, err
	}

	if report.Scanned == 0 {
		return report, errNoAccountAudited
	}
	if report.Failed > 0 {
		return report, fmt.Errorf("%d of %d accounts failed the audit", report.Failed, report.Scanned)
	}
	return report, nil
}

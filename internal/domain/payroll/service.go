package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5"

	"staffpay/internal/domain/company"
	"staffpay/internal/domain/deduction"
	"staffpay/internal/domain/engine"
	"staffpay/internal/domain/paytype"
	"staffpay/internal/domain/staff"
	"staffpay/internal/domain/taxconfig"
	"staffpay/internal/platform/email"
	"staffpay/internal/platform/metrics"
)

type Service struct {
	store      *Store
	taxes      *taxconfig.Store
	companies  *company.Store
	payTypes   *paytype.Store
	staff      *staff.Store
	deductions *deduction.Store
	mailer     email.Mailer
	metrics    *metrics.Collector

	workers    int
	payslipDir string
	emailFrom  string
}

func NewService(
	store *Store,
	taxes *taxconfig.Store,
	companies *company.Store,
	payTypes *paytype.Store,
	staffStore *staff.Store,
	deductions *deduction.Store,
	mailer email.Mailer,
	collector *metrics.Collector,
	workers int,
	payslipDir, emailFrom string,
) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{
		store:      store,
		taxes:      taxes,
		companies:  companies,
		payTypes:   payTypes,
		staff:      staffStore,
		deductions: deductions,
		mailer:     mailer,
		metrics:    collector,
		workers:    workers,
		payslipDir: payslipDir,
		emailFrom:  emailFrom,
	}
}

// CreateRun calculates payroll for every active staff member and stores the
// results as a new draft run.
func (s *Service) CreateRun(ctx context.Context, companyID, period, createdBy string) (Run, error) {
	run, err := s.store.CreateRun(ctx, companyID, period, createdBy)
	if err != nil {
		return Run{}, err
	}
	if err := s.calculate(ctx, run); err != nil {
		return Run{}, err
	}
	return run, nil
}

// Recalculate reruns a draft after configuration changed. Submitted and
// decided runs are frozen.
func (s *Service) Recalculate(ctx context.Context, companyID, runID string) (Run, error) {
	run, err := s.store.GetRun(ctx, companyID, runID)
	if err != nil {
		return Run{}, err
	}
	if run.Status != StatusDraft {
		return Run{}, ErrRunNotDraft
	}
	if err := s.calculate(ctx, run); err != nil {
		return Run{}, err
	}
	return run, nil
}

func (s *Service) calculate(ctx context.Context, run Run) error {
	settings, err := s.taxes.GetEffective(ctx, run.CompanyID)
	if err != nil {
		return err
	}
	comp, err := s.companies.Get(ctx, run.CompanyID)
	if err != nil {
		return err
	}
	types, err := s.payTypes.List(ctx, run.CompanyID)
	if err != nil {
		return err
	}
	members, err := s.staff.List(ctx, run.CompanyID, staff.StatusActive, 10000, 0)
	if err != nil {
		return err
	}
	if len(members) == 0 {
		return ErrNoActiveStaff
	}

	engineSettings := settings.ToEngine()
	exemptions := comp.Exemptions()
	engineTypes := make([]engine.PaymentType, 0, len(types))
	for _, t := range types {
		engineTypes = append(engineTypes, engine.PaymentType{ID: t.ID, Name: t.Name, Kind: t.Kind, Order: t.Position})
	}

	// Each staff member's calculation is independent, so they run on a
	// bounded pool. Results land at the member's index to keep the stored
	// order deterministic.
	results := make([]ResultRecord, len(members))
	errs := make([]error, len(members))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i], errs[i] = s.calculateOne(ctx, members[i], engineSettings, exemptions, engineTypes)
			}
		}()
	}
	for i := range members {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return fmt.Errorf("calculate staff %s: %w", members[i].ID, err)
		}
	}
	for i := range results {
		results[i].RunID = run.ID
	}

	if err := s.store.ReplaceResults(ctx, run.ID, results); err != nil {
		return err
	}
	s.metrics.RecordRun(len(results))
	slog.Info("payroll run calculated", "runId", run.ID, "companyId", run.CompanyID, "period", run.Period, "staff", len(results))
	return nil
}

func (s *Service) calculateOne(ctx context.Context, member staff.Member, settings *engine.TaxSettings, exemptions engine.Exemptions, types []engine.PaymentType) (ResultRecord, error) {
	amounts, err := s.staff.ListPaymentAmounts(ctx, member.CompanyID, member.ID)
	if err != nil {
		return ResultRecord{}, err
	}
	balances, err := s.deductions.ListForStaff(ctx, member.CompanyID, member.ID)
	if err != nil {
		return ResultRecord{}, err
	}

	input := engine.Input{
		Settings:     settings,
		Exemptions:   exemptions,
		PaymentTypes: types,
	}
	for _, a := range amounts {
		input.Amounts = append(input.Amounts, engine.PaymentAmount{PaymentTypeID: a.PaymentTypeID, Amount: a.Amount})
	}
	for _, b := range balances {
		input.Deductions = append(input.Deductions, b.ToEngine())
	}

	result, err := engine.Calculate(input)
	if err != nil {
		return ResultRecord{}, err
	}
	return ResultRecord{
		StaffID:    member.ID,
		StaffName:  member.FirstName + " " + member.LastName,
		StaffEmail: member.Email,
		Result:     result,
	}, nil
}

// Submit freezes a draft for approval.
func (s *Service) Submit(ctx context.Context, companyID, runID string) (Run, error) {
	return s.transition(ctx, companyID, runID, StatusSubmitted, nil)
}

// Approve finalizes a submitted run. The status change and the deduction
// balance advances commit in one transaction; payslip files and
// notifications happen after commit, so a rolled-back approval never leaves
// generated files behind. A payslip or email failure after commit is
// logged and the payslip can be re-fetched once regenerated.
func (s *Service) Approve(ctx context.Context, companyID, runID string) (Run, error) {
	var approved []ResultRecord
	run, err := s.transition(ctx, companyID, runID, StatusApproved, func(ctx context.Context, tx pgx.Tx, run Run) error {
		results, err := s.store.ListResults(ctx, companyID, run.ID)
		if err != nil {
			return err
		}
		for _, record := range results {
			if err := s.deductions.ApplyBreakdown(ctx, tx, record.Result.DeductionBreakdown); err != nil {
				return err
			}
		}
		approved = results
		return nil
	})
	if err != nil {
		return Run{}, err
	}

	comp, err := s.companies.Get(ctx, run.CompanyID)
	if err != nil {
		slog.Warn("payslip generation skipped, company lookup failed", "runId", run.ID, "error", err)
		return run, nil
	}
	for _, record := range approved {
		path, err := GeneratePayslipPDF(s.payslipDir, comp.Name, run.Period, record)
		if err != nil {
			slog.Warn("payslip generation failed", "runId", run.ID, "staffId", record.StaffID, "error", err)
			continue
		}
		if _, err := s.store.SavePayslip(ctx, run.ID, record.StaffID, path); err != nil {
			slog.Warn("payslip save failed", "runId", run.ID, "staffId", record.StaffID, "error", err)
			continue
		}
		body := fmt.Sprintf("Your payslip for %s is ready. Net pay: %s.", run.Period, record.Result.FinalNetPay.StringFixed(2))
		if err := s.mailer.Send(ctx, s.emailFrom, record.StaffEmail, "Payslip ready for "+run.Period, body); err != nil {
			slog.Warn("payslip notification failed", "runId", run.ID, "staffId", record.StaffID, "error", err)
		}
	}
	return run, nil
}

// Reject returns a submitted run to its author as a terminal decision.
func (s *Service) Reject(ctx context.Context, companyID, runID string) (Run, error) {
	return s.transition(ctx, companyID, runID, StatusRejected, nil)
}

func (s *Service) transition(ctx context.Context, companyID, runID, to string, apply func(context.Context, pgx.Tx, Run) error) (Run, error) {
	tx, err := s.store.DB.Begin(ctx)
	if err != nil {
		return Run{}, err
	}
	defer tx.Rollback(ctx)

	run, err := s.store.GetRunTx(ctx, tx, companyID, runID)
	if err != nil {
		return Run{}, err
	}
	if !ValidTransition(run.Status, to) {
		return Run{}, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, run.Status, to)
	}
	if err := s.store.SetStatusTx(ctx, tx, runID, to); err != nil {
		return Run{}, err
	}
	if apply != nil {
		if err := apply(ctx, tx, run); err != nil {
			return Run{}, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Run{}, err
	}
	run.Status = to
	return run, nil
}

func (s *Service) GetRun(ctx context.Context, companyID, runID string) (Run, error) {
	return s.store.GetRun(ctx, companyID, runID)
}

func (s *Service) ListRuns(ctx context.Context, companyID string, limit, offset int) ([]Run, error) {
	return s.store.ListRuns(ctx, companyID, limit, offset)
}

func (s *Service) Results(ctx context.Context, companyID, runID string) ([]ResultRecord, Totals, error) {
	results, err := s.store.ListResults(ctx, companyID, runID)
	if err != nil {
		return nil, Totals{}, err
	}
	return results, SumTotals(results), nil
}

// Register renders the run as CSV for bank upload.
func (s *Service) Register(ctx context.Context, companyID, runID string) ([]byte, error) {
	if _, err := s.store.GetRun(ctx, companyID, runID); err != nil {
		return nil, err
	}
	results, err := s.store.ListResults(ctx, companyID, runID)
	if err != nil {
		return nil, err
	}
	return BuildRegisterCSV(results)
}

func (s *Service) PayslipPath(ctx context.Context, companyID, runID, staffID string) (string, error) {
	return s.store.GetPayslipPath(ctx, companyID, runID, staffID)
}

package companycurrency

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/company-currency-api/internal/application/dto"
	"github.com/jhoicas/company-currency-api/internal/domain"
	"github.com/jhoicas/company-currency-api/internal/domain/entity"
	"github.com/jhoicas/company-currency-api/internal/domain/repository"
)

// Config opciones del caso de uso.
type Config struct {
	// SnapshotOnValidate guarda los montos de facturas de proveedor al validarlas,
	// sin esperar a la contabilización.
	SnapshotOnValidate bool
}

// LifecycleUseCase mantiene los snapshots en moneda de la empresa a lo largo del ciclo
// de vida de la factura (validar, contabilizar, borrador, duplicar) y expone la lectura.
type LifecycleUseCase struct {
	txRunner    TxRunner
	invoiceRepo repository.InvoiceRepository
	ledgerRepo  repository.LedgerRepository
	converter   Converter
	moves       MoveBuilder
	cfg         Config
	log         zerolog.Logger
	now         func() time.Time
	newID       func() string
}

// NewLifecycleUseCase construye el caso de uso. invoiceRepo y ledgerRepo se usan
// para las lecturas fuera de transacción.
func NewLifecycleUseCase(
	txRunner TxRunner,
	invoiceRepo repository.InvoiceRepository,
	ledgerRepo repository.LedgerRepository,
	converter Converter,
	moves MoveBuilder,
	cfg Config,
	log zerolog.Logger,
) *LifecycleUseCase {
	return &LifecycleUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		ledgerRepo:  ledgerRepo,
		converter:   converter,
		moves:       moves,
		cfg:         cfg,
		log:         log,
		now:         time.Now,
		newID:       func() string { return uuid.New().String() },
	}
}

// Validate pasa la factura a validada. Las facturas de proveedor guardan el snapshot
// en este momento si SnapshotOnValidate está activo.
func (uc *LifecycleUseCase) Validate(ctx context.Context, companyID, invoiceID string) (*dto.InvoiceStateResponse, error) {
	var out *dto.InvoiceStateResponse
	err := uc.txRunner.RunCompanyCurrency(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		_ repository.MoveRepository,
		ledgerRepo repository.LedgerRepository,
	) error {
		inv, err := loadOwned(ctx, invoiceRepo, companyID, invoiceID)
		if err != nil {
			return err
		}
		if inv.State != entity.InvoiceStateDraft && inv.State != entity.InvoiceStateValidated {
			return domain.ErrConflict
		}
		if inv.State != entity.InvoiceStateValidated {
			if err := invoiceRepo.SetState(ctx, inv.ID, entity.InvoiceStateValidated); err != nil {
				return err
			}
			inv.State = entity.InvoiceStateValidated
		}
		if inv.Type == entity.InvoiceTypeIn && uc.cfg.SnapshotOnValidate {
			if err := storeCache(ctx, invoiceRepo, uc.resolver(ledgerRepo), inv); err != nil {
				return err
			}
		}
		out = stateResponse(inv)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", companyID).Str("invoice_id", invoiceID).Msg("factura validada")
	return out, nil
}

// Post contabiliza la factura (genera el asiento si falta) y guarda los snapshots.
// Contabilizar de nuevo sin pasar por borrador deja los mismos valores.
func (uc *LifecycleUseCase) Post(ctx context.Context, companyID, invoiceID string) (*dto.InvoiceStateResponse, error) {
	var out *dto.InvoiceStateResponse
	err := uc.txRunner.RunCompanyCurrency(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		moveRepo repository.MoveRepository,
		ledgerRepo repository.LedgerRepository,
	) error {
		inv, err := loadOwned(ctx, invoiceRepo, companyID, invoiceID)
		if err != nil {
			return err
		}
		if inv.State == entity.InvoiceStateCancelled {
			return domain.ErrConflict
		}
		if !inv.HasMove() {
			move, err := uc.moves.BuildMove(ctx, inv)
			if err != nil {
				return err
			}
			if err := moveRepo.Create(ctx, move); err != nil {
				return err
			}
			if err := invoiceRepo.SetMove(ctx, inv.ID, &move.ID); err != nil {
				return err
			}
			inv.MoveID = &move.ID
		}
		if inv.State != entity.InvoiceStatePosted && inv.State != entity.InvoiceStatePaid {
			if err := invoiceRepo.SetState(ctx, inv.ID, entity.InvoiceStatePosted); err != nil {
				return err
			}
			inv.State = entity.InvoiceStatePosted
		}
		if err := storeCache(ctx, invoiceRepo, uc.resolver(ledgerRepo), inv); err != nil {
			return err
		}
		out = stateResponse(inv)
		return nil
	})
	if err != nil {
		uc.log.Error().Err(err).Str("company_id", companyID).Str("invoice_id", invoiceID).Msg("contabilizar factura")
		return nil, err
	}
	uc.log.Info().Str("company_id", companyID).Str("invoice_id", invoiceID).Str("move_id", out.MoveID).Msg("factura contabilizada")
	return out, nil
}

// Draft devuelve la factura a borrador: borra el asiento y todos los snapshots de
// la factura, sus líneas e impuestos.
func (uc *LifecycleUseCase) Draft(ctx context.Context, companyID, invoiceID string) (*dto.InvoiceStateResponse, error) {
	var out *dto.InvoiceStateResponse
	err := uc.txRunner.RunCompanyCurrency(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		moveRepo repository.MoveRepository,
		_ repository.LedgerRepository,
	) error {
		inv, err := loadOwned(ctx, invoiceRepo, companyID, invoiceID)
		if err != nil {
			return err
		}
		if inv.State == entity.InvoiceStatePaid {
			return domain.ErrConflict
		}
		if err := invoiceRepo.WriteCompanyCache(ctx, []repository.InvoiceCacheWrite{{InvoiceIDs: []string{inv.ID}}}); err != nil {
			return err
		}
		if inv.HasMove() {
			if err := invoiceRepo.SetMove(ctx, inv.ID, nil); err != nil {
				return err
			}
			if err := moveRepo.Delete(ctx, *inv.MoveID); err != nil {
				return err
			}
			inv.MoveID = nil
		}
		if err := invoiceRepo.SetState(ctx, inv.ID, entity.InvoiceStateDraft); err != nil {
			return err
		}
		inv.State = entity.InvoiceStateDraft
		if ids := lineIDs(inv); len(ids) > 0 {
			if err := invoiceRepo.WriteLineCache(ctx, []repository.LineCacheWrite{{LineIDs: ids}}); err != nil {
				return err
			}
		}
		if ids := taxIDs(inv); len(ids) > 0 {
			if err := invoiceRepo.WriteTaxCache(ctx, []repository.TaxCacheWrite{{TaxIDs: ids}}); err != nil {
				return err
			}
		}
		inv.ClearCompanyCache()
		out = stateResponse(inv)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", companyID).Str("invoice_id", invoiceID).Msg("factura en borrador")
	return out, nil
}

// Copy duplica la factura en borrador, sin asiento y sin snapshots.
func (uc *LifecycleUseCase) Copy(ctx context.Context, companyID, invoiceID string) (*dto.CopyInvoiceResponse, error) {
	var newID string
	err := uc.txRunner.RunCompanyCurrency(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		_ repository.MoveRepository,
		_ repository.LedgerRepository,
	) error {
		inv, err := loadOwned(ctx, invoiceRepo, companyID, invoiceID)
		if err != nil {
			return err
		}
		dup := inv.Duplicate(uc.newID, uc.now())
		if err := invoiceRepo.Create(ctx, dup); err != nil {
			return err
		}
		newID = dup.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", companyID).Str("source_id", invoiceID).Str("invoice_id", newID).Msg("factura duplicada")
	return &dto.CopyInvoiceResponse{SourceID: invoiceID, InvoiceID: newID}, nil
}

// GetAmounts devuelve la factura con todos sus montos en moneda de la empresa.
func (uc *LifecycleUseCase) GetAmounts(ctx context.Context, companyID, invoiceID string) (*dto.CompanyAmountsResponse, error) {
	inv, err := loadOwned(ctx, uc.invoiceRepo, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	r := uc.resolver(uc.ledgerRepo)
	amounts, err := r.InvoiceAmounts(ctx, inv)
	if err != nil {
		return nil, err
	}
	out := &dto.CompanyAmountsResponse{
		InvoiceID:            inv.ID,
		Number:               inv.Number,
		Type:                 string(inv.Type),
		State:                string(inv.State),
		Currency:             inv.Currency.Code,
		CompanyCurrency:      inv.CompanyCurrency().Code,
		DifferentCurrencies:  inv.DifferentCurrencies(),
		ShowCompanyAmounts:   inv.DifferentCurrencies(),
		Cached:               inv.CompanyUntaxedAmountCache != nil && inv.CompanyTaxAmountCache != nil && inv.CompanyTotalAmountCache != nil,
		UntaxedAmount:        inv.UntaxedAmount(),
		TaxAmount:            inv.TaxAmount(),
		TotalAmount:          inv.TotalAmount(),
		CompanyUntaxedAmount: amounts.Untaxed,
		CompanyTaxAmount:     amounts.Tax,
		CompanyTotalAmount:   amounts.Total,
		Lines:                make([]dto.LineCompanyAmountResponse, 0, len(inv.Lines)),
		Taxes:                make([]dto.TaxCompanyAmountResponse, 0, len(inv.Taxes)),
	}
	for _, l := range inv.Lines {
		lr, err := lineResponse(ctx, r, l)
		if err != nil {
			return nil, err
		}
		out.Lines = append(out.Lines, *lr)
	}
	for _, t := range inv.Taxes {
		ta, err := r.TaxAmounts(ctx, t)
		if err != nil {
			return nil, err
		}
		out.Taxes = append(out.Taxes, dto.TaxCompanyAmountResponse{
			ID:            t.ID,
			Description:   t.Description,
			Base:          t.Base,
			Amount:        t.Amount,
			CompanyBase:   ta.Base,
			CompanyAmount: ta.Amount,
		})
	}
	return out, nil
}

// GetLineAmount devuelve una línea con su monto en moneda de la empresa. La línea
// puede no pertenecer a ninguna factura.
func (uc *LifecycleUseCase) GetLineAmount(ctx context.Context, companyID, lineID string) (*dto.LineCompanyAmountResponse, error) {
	line, err := uc.invoiceRepo.GetLineByID(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, domain.ErrNotFound
	}
	if company := line.EffectiveCompany(); company == nil || company.ID != companyID {
		return nil, domain.ErrForbidden
	}
	return lineResponse(ctx, uc.resolver(uc.ledgerRepo), line)
}

func (uc *LifecycleUseCase) resolver(ledger repository.LedgerRepository) *Resolver {
	return NewResolver(uc.converter, ledger, uc.now)
}

// storeCache calcula los tres totales y, si difieren del snapshot actual, los guarda
// junto con el monto de cada línea y la base/monto de cada impuesto.
func storeCache(ctx context.Context, invoiceRepo repository.InvoiceRepository, r *Resolver, inv *entity.Invoice) error {
	amounts, err := r.InvoiceAmounts(ctx, inv)
	if err != nil {
		return err
	}
	if sameAsCache(inv, amounts) {
		return nil
	}
	for _, kind := range entity.AmountKinds() {
		inv.SetCompanyCache(kind, entity.AmountPtr(amounts.Get(kind)))
	}

	lineWrites := make([]repository.LineCacheWrite, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		v, err := r.LineAmount(ctx, l)
		if err != nil {
			return err
		}
		lineWrites = append(lineWrites, repository.LineCacheWrite{LineIDs: []string{l.ID}, CompanyAmount: entity.AmountPtr(v)})
	}
	taxWrites := make([]repository.TaxCacheWrite, 0, len(inv.Taxes))
	for _, t := range inv.Taxes {
		ta, err := r.TaxAmounts(ctx, t)
		if err != nil {
			return err
		}
		taxWrites = append(taxWrites, repository.TaxCacheWrite{
			TaxIDs:        []string{t.ID},
			CompanyBase:   entity.AmountPtr(ta.Base),
			CompanyAmount: entity.AmountPtr(ta.Amount),
		})
	}

	if err := invoiceRepo.WriteCompanyCache(ctx, []repository.InvoiceCacheWrite{{
		InvoiceIDs: []string{inv.ID},
		Untaxed:    inv.CompanyUntaxedAmountCache,
		Tax:        inv.CompanyTaxAmountCache,
		Total:      inv.CompanyTotalAmountCache,
	}}); err != nil {
		return err
	}
	if len(lineWrites) > 0 {
		if err := invoiceRepo.WriteLineCache(ctx, lineWrites); err != nil {
			return err
		}
	}
	if len(taxWrites) > 0 {
		if err := invoiceRepo.WriteTaxCache(ctx, taxWrites); err != nil {
			return err
		}
	}
	for i, l := range inv.Lines {
		l.CompanyAmountCache = lineWrites[i].CompanyAmount
	}
	for i, t := range inv.Taxes {
		t.CompanyBaseCache = taxWrites[i].CompanyBase
		t.CompanyAmountCache = taxWrites[i].CompanyAmount
	}
	return nil
}

func sameAsCache(inv *entity.Invoice, amounts InvoiceAmounts) bool {
	for _, kind := range entity.AmountKinds() {
		c := inv.CompanyCache(kind)
		if c == nil || !c.Equal(amounts.Get(kind)) {
			return false
		}
	}
	return true
}

func loadOwned(ctx context.Context, invoiceRepo repository.InvoiceRepository, companyID, invoiceID string) (*entity.Invoice, error) {
	if companyID == "" || invoiceID == "" {
		return nil, domain.ErrInvalidInput
	}
	inv, err := invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return inv, nil
}

func lineResponse(ctx context.Context, r *Resolver, l *entity.InvoiceLine) (*dto.LineCompanyAmountResponse, error) {
	v, err := r.LineAmount(ctx, l)
	if err != nil {
		return nil, err
	}
	out := &dto.LineCompanyAmountResponse{
		ID:            l.ID,
		InvoiceID:     l.InvoiceID,
		Description:   l.Description,
		Quantity:      l.Quantity,
		UnitPrice:     l.UnitPrice,
		Amount:        l.Amount(),
		CompanyAmount: v,
	}
	if c := l.CompanyCurrency(); c != nil {
		out.CompanyCurrency = c.Code
	}
	return out, nil
}

func stateResponse(inv *entity.Invoice) *dto.InvoiceStateResponse {
	out := &dto.InvoiceStateResponse{InvoiceID: inv.ID, State: string(inv.State)}
	if inv.HasMove() {
		out.MoveID = *inv.MoveID
	}
	return out
}

func lineIDs(inv *entity.Invoice) []string {
	ids := make([]string, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		ids = append(ids, l.ID)
	}
	return ids
}

func taxIDs(inv *entity.Invoice) []string {
	ids := make([]string, 0, len(inv.Taxes))
	for _, t := range inv.Taxes {
		ids = append(ids, t.ID)
	}
	return ids
}

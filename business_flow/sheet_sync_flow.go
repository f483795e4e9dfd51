package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode"

	"github.com/mh853/Funnely-sub001/app/dto"
	"github.com/mh853/Funnely-sub001/app/services"
	"github.com/mh853/Funnely-sub001/models"
	"github.com/mh853/Funnely-sub001/repository"
	"github.com/mh853/Funnely-sub001/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SheetSyncFlow imports new leads from the spreadsheets companies connected
type SheetSyncFlow interface {
	Run(ctx context.Context, now time.Time) (*dto.SheetSyncRunResult, error)
}

type SheetSyncFlowImpl struct {
	configRepo repository.SheetSyncConfigRepository
	logRepo    repository.SheetSyncLogRepository
	leadRepo   repository.LeadRepository
	source     services.SheetSource
	db         *gorm.DB
	logger     *log.Logger
}

func NewSheetSyncFlow(
	configRepo repository.SheetSyncConfigRepository,
	logRepo repository.SheetSyncLogRepository,
	leadRepo repository.LeadRepository,
	source services.SheetSource,
	db *gorm.DB,
	logger *log.Logger,
) SheetSyncFlow {
	if logger == nil {
		logger = log.Default()
	}
	return &SheetSyncFlowImpl{
		configRepo: configRepo,
		logRepo:    logRepo,
		leadRepo:   leadRepo,
		source:     source,
		db:         db,
		logger:     logger,
	}
}

func (f *SheetSyncFlowImpl) Run(ctx context.Context, now time.Time) (*dto.SheetSyncRunResult, error) {
	now = now.UTC()
	configs, err := f.configRepo.ListActive(ctx)
	if err != nil {
		return nil, NewBusinessError("SHEET_SYNC_CONFIGS_QUERY_FAILED", "Failed to list sheet sync configs", err)
	}
	if len(configs) > 0 && f.source == nil {
		return nil, NewBusinessError("SHEET_SOURCE_UNAVAILABLE", "No spreadsheet source configured", ErrSheetSourceUnavailable)
	}

	result := &dto.SheetSyncRunResult{Results: make([]dto.SheetSyncConfigResult, 0, len(configs))}
	for _, cfg := range configs {
		res := f.syncConfig(ctx, cfg, now)
		if res.Status != dto.SheetSyncStatusSkipped {
			result.ConfigsProcessed++
		}
		result.Imported += res.Imported
		result.Results = append(result.Results, res)
	}
	return result, nil
}

func (f *SheetSyncFlowImpl) syncConfig(ctx context.Context, cfg *models.SheetSyncConfig, now time.Time) dto.SheetSyncConfigResult {
	res := dto.SheetSyncConfigResult{ConfigID: cfg.ID.String()}
	if !cfg.DueAt(now) {
		res.Status = dto.SheetSyncStatusSkipped
		return res
	}

	imported, duplicates, totalRows, err := f.importSheet(ctx, cfg, now)
	res.TotalRows = totalRows
	switch {
	case err != nil:
		res.Status = dto.SheetSyncStatusError
		res.Error = err.Error()
		f.logger.Printf("sheets sync: config %s: %v", cfg.ID, err)

		msg := err.Error()
		if lerr := f.logRepo.Save(ctx, &models.SheetSyncLog{
			ConfigID:     cfg.ID,
			CompanyID:    cfg.CompanyID,
			TotalRows:    totalRows,
			ErrorMessage: &msg,
			SyncedAt:     now,
		}); lerr != nil {
			f.logger.Printf("sheets sync: config %s: failed to write sync log: %v", cfg.ID, lerr)
		}
	case totalRows == 0:
		res.Status = dto.SheetSyncStatusEmpty
		if lerr := f.logRepo.Save(ctx, &models.SheetSyncLog{
			ConfigID:  cfg.ID,
			CompanyID: cfg.CompanyID,
			SyncedAt:  now,
		}); lerr != nil {
			f.logger.Printf("sheets sync: config %s: failed to write sync log: %v", cfg.ID, lerr)
		}
	default:
		res.Status = dto.SheetSyncStatusSuccess
		res.Imported = imported
		res.Duplicates = duplicates
	}
	return res
}

// importSheet fetches, dedups and stores one sheet. An empty sheet returns zero totalRows and
// leaves last_synced_at alone; otherwise the leads, the last_synced_at advance and the log row commit together.
func (f *SheetSyncFlowImpl) importSheet(ctx context.Context, cfg *models.SheetSyncConfig, now time.Time) (int, int, int, error) {
	mapping, err := decodeColumnMapping(cfg.ColumnMapping)
	if err != nil {
		return 0, 0, 0, err
	}

	rows, err := f.source.FetchSheetData(ctx, cfg.SpreadsheetID, sheetRange(cfg.SheetName))
	if err != nil {
		return 0, 0, 0, err
	}
	if len(rows) < 2 {
		return 0, 0, 0, nil
	}
	totalRows := len(rows) - 1

	parsed := services.ParseSheetToLeads(rows, *mapping)
	hashes := make([]string, 0, len(parsed))
	for _, p := range parsed {
		hashes = append(hashes, utils.HashPhone(p.Phone))
	}
	existing, err := f.leadRepo.ExistingPhoneHashes(ctx, cfg.CompanyID, hashes)
	if err != nil {
		return 0, 0, totalRows, err
	}

	leads := make([]*models.Lead, 0, len(parsed))
	for i, p := range parsed {
		if _, dup := existing[hashes[i]]; dup {
			continue
		}
		// the same phone twice in one sheet imports once
		existing[hashes[i]] = struct{}{}

		lead, err := newSheetLead(cfg, p, hashes[i], now)
		if err != nil {
			return 0, 0, totalRows, err
		}
		leads = append(leads, lead)
	}
	duplicates := len(parsed) - len(leads)

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.leadRepo.SaveBatch(txCtx, leads); err != nil {
			return err
		}
		if err := f.configRepo.UpdateLastSyncedAt(txCtx, cfg.ID, now); err != nil {
			return err
		}
		return f.logRepo.Save(txCtx, &models.SheetSyncLog{
			ConfigID:          cfg.ID,
			CompanyID:         cfg.CompanyID,
			ImportedCount:     len(leads),
			TotalRows:         totalRows,
			DuplicatesSkipped: duplicates,
			SyncedAt:          now,
		})
	})
	if err != nil {
		return 0, 0, totalRows, err
	}

	f.logger.Printf("sheets sync: config %s: imported %d of %d rows, %d duplicates", cfg.ID, len(leads), totalRows, duplicates)
	return len(leads), duplicates, totalRows, nil
}

func newSheetLead(cfg *models.SheetSyncConfig, p services.ParsedLead, phoneHash string, now time.Time) (*models.Lead, error) {
	lead := &models.Lead{
		CompanyID:     cfg.CompanyID,
		LandingPageID: cfg.LandingPageID,
		Name:          p.Name,
		Phone:         p.Phone,
		PhoneHash:     phoneHash,
		Source:        utils.LeadSourceGoogleSheets,
		Status:        models.LeadStatusNew,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if p.Email != "" {
		lead.Email = utils.ToPtr(p.Email)
	}
	if p.CreatedAt != nil {
		lead.CreatedAt = *p.CreatedAt
	}
	if len(p.CustomFields) > 0 {
		raw, err := json.Marshal(p.CustomFields)
		if err != nil {
			return nil, fmt.Errorf("failed to encode custom fields: %w", err)
		}
		lead.CustomFields = datatypes.JSON(raw)
	}
	return lead, nil
}

// sheetRange builds "<sheet>!A:Z", quoting sheet names that are not plain identifiers
func sheetRange(sheetName string) string {
	plain := sheetName != "" && strings.IndexFunc(sheetName, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	}) < 0
	if plain {
		return sheetName + "!" + utils.SheetSyncColumnRange
	}
	return "'" + strings.ReplaceAll(sheetName, "'", "''") + "'!" + utils.SheetSyncColumnRange
}

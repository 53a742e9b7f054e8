package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"github.com/zonetrack/apiserver/internal/storage"
	"github.com/zonetrack/apiserver/internal/store"
	"github.com/zonetrack/apiserver/types"
	"go.uber.org/zap"
)

// XLSXContentType is the media type of exported workbooks.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const assetSheet = "Assets"

var assetReportHeaders = []any{
	"ID", "Name", "Asset Code", "Asset Type", "Serial Number", "Zone", "Zone Type",
	"Restricted", "Purchase Date", "Purchase Value", "Age (years)", "Status", "Updated At",
}

// ReportService renders asset reports and archives them.
type ReportService struct {
	assets  AssetRepository
	storage storage.ObjectStorage
	log     *zap.Logger
	now     func() time.Time
}

// NewReportService accepts a nil storage; Archive then fails with
// ErrStorageDisabled.
func NewReportService(assets AssetRepository, objects storage.ObjectStorage, log *zap.Logger) *ReportService {
	return &ReportService{
		assets:  assets,
		storage: objects,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ExportAssets writes every active asset as an XLSX workbook to w.
func (s *ReportService) ExportAssets(ctx context.Context, w io.Writer) error {
	assets, err := s.assets.List(ctx, store.AssetFilter{})
	if err != nil {
		return err
	}

	f, err := s.assetWorkbook(assets)
	if err != nil {
		return err
	}
	defer f.Close()

	return f.Write(w)
}

// Archive uploads the current asset report and returns its object key.
func (s *ReportService) Archive(ctx context.Context) (string, error) {
	if s.storage == nil {
		return "", ErrStorageDisabled
	}

	var buf bytes.Buffer
	if err := s.ExportAssets(ctx, &buf); err != nil {
		return "", err
	}

	key := fmt.Sprintf("reports/assets-%s-%s.xlsx", s.now().Format("2006-01-02"), uuid.New().String())
	if err := s.storage.Put(ctx, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), XLSXContentType); err != nil {
		return "", fmt.Errorf("upload report: %w", err)
	}
	s.log.Info("asset report archived",
		zap.String("bucket", s.storage.Bucket()),
		zap.String("key", key),
		zap.Int("bytes", buf.Len()),
	)
	return key, nil
}

func (s *ReportService) assetWorkbook(assets []types.Asset) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", assetSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(assetSheet, "A1", &assetReportHeaders); err != nil {
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(assetSheet, "A1", "M1", style); err != nil {
		return nil, err
	}

	now := s.now()
	for i, a := range assets {
		purchaseDate := ""
		if a.PurchaseDate != nil {
			purchaseDate = a.PurchaseDate.Format("2006-01-02")
		}
		purchaseValue := ""
		if a.PurchaseValue.Valid {
			purchaseValue = a.PurchaseValue.Decimal.StringFixed(2)
		}
		restricted := "No"
		if a.IsInRestrictedZone() {
			restricted = "Yes"
		}

		row := []any{
			a.ID, a.Name, a.AssetCode, a.AssetType, a.SerialNumber,
			a.CurrentZoneName(), a.CurrentZoneTypeName(), restricted,
			purchaseDate, purchaseValue, a.AssetAge(now), a.StatusName(),
			a.UpdatedAt.Format(time.RFC3339),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(assetSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	_ = f.SetColWidth(assetSheet, "B", "B", 30)
	_ = f.SetColWidth(assetSheet, "C", "G", 20)
	_ = f.SetColWidth(assetSheet, "M", "M", 25)
	return f, nil
}

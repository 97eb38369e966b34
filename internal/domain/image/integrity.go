package image

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// IntegrityReport lists the inconsistencies found by a scan.
type IntegrityReport struct {
	Orphaned    []PropertyImage `json:"orphaned"`
	MissingFile []PropertyImage `json:"missing_file"`
	MultiMain   []int64         `json:"multi_main_properties"`
	NoMain      []int64         `json:"no_main_properties"`
}

func (r *IntegrityReport) Clean() bool {
	return len(r.Orphaned) == 0 && len(r.MissingFile) == 0 &&
		len(r.MultiMain) == 0 && len(r.NoMain) == 0
}

// RepairResult reports what a repair pass removed.
type RepairResult struct {
	OrphanedRemoved    int64 `json:"orphaned_removed"`
	MissingFileRemoved int64 `json:"missing_file_removed"`
}

// Scan finds metadata rows whose property no longer exists, rows whose file
// is gone from storage, and properties whose main-image invariant is broken.
func (s *Service) Scan(ctx context.Context) (*IntegrityReport, error) {
	report := &IntegrityReport{}

	orphaned, err := s.repo.ListOrphaned(ctx)
	if err != nil {
		return nil, fmt.Errorf("orphan scan failed: %w", err)
	}
	report.Orphaned = orphaned

	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("image listing failed: %w", err)
	}
	for _, img := range all {
		abs := filepath.Join(s.baseDir, filepath.FromSlash(img.ImagePath))
		if _, err := os.Stat(abs); os.IsNotExist(err) {
			report.MissingFile = append(report.MissingFile, img)
		}
	}

	report.MultiMain, err = s.repo.ListMultiMainProperties(ctx)
	if err != nil {
		return nil, fmt.Errorf("multi-main scan failed: %w", err)
	}

	report.NoMain, err = s.repo.ListNoMainProperties(ctx)
	if err != nil {
		return nil, fmt.Errorf("no-main scan failed: %w", err)
	}

	return report, nil
}

// Repair deletes orphaned rows (and their leftover files, best-effort) and
// rows whose file no longer exists. It never re-derives a missing main
// image; that stays a manual decision.
func (s *Service) Repair(ctx context.Context) (*IntegrityReport, *RepairResult, error) {
	report, err := s.Scan(ctx)
	if err != nil {
		return nil, nil, err
	}

	result := &RepairResult{}

	if len(report.Orphaned) > 0 {
		ids := make([]int64, 0, len(report.Orphaned))
		for _, img := range report.Orphaned {
			ids = append(ids, img.ID)
		}
		removed, err := s.repo.DeleteByIDs(ctx, ids)
		if err != nil {
			return report, result, fmt.Errorf("orphan repair failed: %w", err)
		}
		result.OrphanedRemoved = removed
		for i := range report.Orphaned {
			s.removeFiles(&report.Orphaned[i])
		}
	}

	if len(report.MissingFile) > 0 {
		ids := make([]int64, 0, len(report.MissingFile))
		for _, img := range report.MissingFile {
			ids = append(ids, img.ID)
		}
		removed, err := s.repo.DeleteByIDs(ctx, ids)
		if err != nil {
			return report, result, fmt.Errorf("missing-file repair failed: %w", err)
		}
		result.MissingFileRemoved = removed
	}

	return report, result, nil
}

package storage

import "shopee-analyzer/models"

// AnalysisStore persists finished analysis results. Harvested listings are
// never stored; only the assembled snapshot outlives the call.
type AnalysisStore interface {
	SaveAnalysis(result *models.CategoryAnalysisResult) error
	RecentAnalyses(category string, limit int) ([]*AnalysisSnapshot, error)
	Close() error
}

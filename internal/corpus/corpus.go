package corpus

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/complyforge/backend/pkg/logger"
)

// Library holds the regulatory reference texts. Loaded once at startup and
// read-only afterwards, so concurrent assessment runs share it without
// locking.
type Library struct {
	EUClassification string
	EURequirements   string
	NISTGovern       string
	NISTMap          string
	NISTMeasure      string
	NISTManage       string
}

// measureSubsetLimit caps the MEASURE excerpt included for early-lifecycle
// systems.
const measureSubsetLimit = 5000

// Load reads the framework documents from dir. A missing document is
// replaced by a placeholder and logged as a degraded-quality warning; it
// never fails startup.
func Load(dir string) *Library {
	return &Library{
		EUClassification: loadDocument(dir, "eu-ai-act/classification.txt"),
		EURequirements:   loadDocument(dir, "eu-ai-act/requirements.txt"),
		NISTGovern:       loadDocument(dir, "nist-ai-rmf/govern.txt"),
		NISTMap:          loadDocument(dir, "nist-ai-rmf/map.txt"),
		NISTMeasure:      loadDocument(dir, "nist-ai-rmf/measure.txt"),
		NISTManage:       loadDocument(dir, "nist-ai-rmf/manage.txt"),
	}
}

func loadDocument(dir, relativePath string) string {
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(relativePath)))
	if err != nil {
		logger.Warn("Reference document missing, using placeholder",
			zap.String("document", relativePath),
			zap.Error(err),
		)
		return "# Document " + relativePath + " not found"
	}
	return string(data)
}

// SelectNIST returns the NIST reference text for the requirements stage,
// pre-filtered by lifecycle stage and risk so the prompt stays within
// budget. GOVERN is always included. Early-lifecycle systems get MAP plus
// a capped MEASURE excerpt; deployed systems get MEASURE and MANAGE in
// full. High criticality or a HIGH_RISK classification overrides the stage
// rules and includes all four functions in full.
func (l *Library) SelectNIST(stage, criticality, euClassification string) string {
	parts := []string{l.NISTGovern}

	switch stage {
	case "design", "development", "testing":
		parts = append(parts, l.NISTMap)
		parts = append(parts, "# MEASURE (Testing subset)\n"+truncate(l.NISTMeasure, measureSubsetLimit))
	case "deployment", "post-market monitoring":
		parts = append(parts, l.NISTMeasure, l.NISTManage)
	}

	if criticality == "high" || euClassification == "HIGH_RISK" {
		parts = []string{l.NISTGovern, l.NISTMap, l.NISTMeasure, l.NISTManage}
	}

	return strings.Join(parts, "\n\n")
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

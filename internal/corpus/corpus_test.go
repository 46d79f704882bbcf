package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testLibrary() *Library {
	return &Library{
		EUClassification: "EU CLASSIFICATION RULES",
		EURequirements:   "EU REQUIREMENTS",
		NISTGovern:       "GOVERN BODY",
		NISTMap:          "MAP BODY",
		NISTMeasure:      strings.Repeat("M", 8000),
		NISTManage:       "MANAGE BODY",
	}
}

func TestSelectNIST_EarlyLifecycleGetsMapAndCappedMeasure(t *testing.T) {
	lib := testLibrary()

	for _, stage := range []string{"design", "development", "testing"} {
		text := lib.SelectNIST(stage, "low", "MINIMAL_RISK")

		if !strings.Contains(text, "GOVERN BODY") {
			t.Errorf("stage %s: GOVERN missing", stage)
		}
		if !strings.Contains(text, "MAP BODY") {
			t.Errorf("stage %s: MAP missing", stage)
		}
		if !strings.Contains(text, "# MEASURE (Testing subset)") {
			t.Errorf("stage %s: MEASURE subset header missing", stage)
		}
		if strings.Contains(text, "MANAGE BODY") {
			t.Errorf("stage %s: MANAGE must not be included", stage)
		}
		if strings.Count(text, "M") > 5000+len("# MEASURE (Testing subset)\n")+100 {
			t.Errorf("stage %s: MEASURE excerpt not capped", stage)
		}
	}
}

func TestSelectNIST_DeployedGetsMeasureAndManage(t *testing.T) {
	lib := testLibrary()

	for _, stage := range []string{"deployment", "post-market monitoring"} {
		text := lib.SelectNIST(stage, "low", "MINIMAL_RISK")

		if !strings.Contains(text, "MANAGE BODY") {
			t.Errorf("stage %s: MANAGE missing", stage)
		}
		if strings.Contains(text, "MAP BODY") {
			t.Errorf("stage %s: MAP must not be included", stage)
		}
		if strings.Contains(text, "# MEASURE (Testing subset)") {
			t.Errorf("stage %s: MEASURE must be full, not subset", stage)
		}
	}
}

func TestSelectNIST_HighRiskOverrideIncludesAllFunctions(t *testing.T) {
	lib := testLibrary()

	// Stage says early lifecycle, but the override must win.
	cases := []struct {
		name           string
		criticality    string
		classification string
	}{
		{"high criticality", "high", "MINIMAL_RISK"},
		{"high risk classification", "low", "HIGH_RISK"},
	}

	for _, tc := range cases {
		text := lib.SelectNIST("design", tc.criticality, tc.classification)

		for _, marker := range []string{"GOVERN BODY", "MAP BODY", "MANAGE BODY"} {
			if !strings.Contains(text, marker) {
				t.Errorf("%s: %s missing from override selection", tc.name, marker)
			}
		}
		if strings.Contains(text, "# MEASURE (Testing subset)") {
			t.Errorf("%s: override must include MEASURE in full", tc.name)
		}
		if !strings.Contains(text, strings.Repeat("M", 8000)) {
			t.Errorf("%s: full MEASURE text missing", tc.name)
		}
	}
}

func TestSelectNIST_Deterministic(t *testing.T) {
	lib := testLibrary()

	first := lib.SelectNIST("testing", "medium", "LIMITED_RISK")
	second := lib.SelectNIST("testing", "medium", "LIMITED_RISK")
	if first != second {
		t.Error("SelectNIST is not deterministic for identical inputs")
	}
}

func TestLoad_MissingDocumentGetsPlaceholder(t *testing.T) {
	dir := t.TempDir()

	euDir := filepath.Join(dir, "eu-ai-act")
	if err := os.MkdirAll(euDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(euDir, "classification.txt"), []byte("real content"), 0644); err != nil {
		t.Fatal(err)
	}

	lib := Load(dir)

	if lib.EUClassification != "real content" {
		t.Errorf("loaded content mismatch: %q", lib.EUClassification)
	}
	if !strings.Contains(lib.NISTGovern, "not found") {
		t.Errorf("missing document should use placeholder, got %q", lib.NISTGovern)
	}
}

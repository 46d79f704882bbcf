package mapping

import "fmt"

// Static EU AI Act article to NIST AI RMF subcategory table. The reverse
// table below is maintained by hand; symmetry between the two is an
// invariant checked in tests, not assumed by the join.
var euToNIST = map[string][]string{
	"Article_5":  {"GOVERN.1.1"},
	"Article_6":  {"GOVERN.1.1", "MAP.1.1"},
	"Article_8":  {"GOVERN.1.2", "GOVERN.1.3"},
	"Article_9":  {"GOVERN.1.3", "MAP.1.1", "MAP.5.1", "MEASURE.3.1", "MANAGE.1.2"},
	"Article_10": {"MAP.2.3", "MEASURE.2.3", "MEASURE.2.11"},
	"Article_11": {"GOVERN.1.6", "MAP.2.3", "MANAGE.5.1"},
	"Article_12": {"GOVERN.1.6", "MEASURE.2.4", "MANAGE.5.1"},
	"Article_13": {"GOVERN.4.2", "MEASURE.2.8", "MANAGE.5.2"},
	"Article_14": {"GOVERN.3.2", "MAP.3.5", "MANAGE.2.4"},
	"Article_15": {"MEASURE.2.5", "MEASURE.2.6", "MEASURE.2.7", "MEASURE.2.9"},
	"Article_26": {"MANAGE.2.4", "MEASURE.2.4", "GOVERN.2.1"},
	"Article_27": {"MAP.3.5", "GOVERN.3.2", "MAP.3.1"},
	"Article_50": {"GOVERN.4.2", "MEASURE.2.8", "MANAGE.5.2"},
}

var nistToEU = map[string][]string{
	"GOVERN.1.1": {"Article_5", "Article_6"},
	"GOVERN.1.2": {"Article_8"},
	"GOVERN.1.3": {"Article_8", "Article_9"},
	"GOVERN.1.6": {"Article_11", "Article_12"},
	"GOVERN.2.1": {"Article_26"},
	"GOVERN.3.2": {"Article_14", "Article_27"},
	"GOVERN.4.2": {"Article_13", "Article_50"},

	"MAP.1.1": {"Article_6", "Article_9"},
	"MAP.2.3": {"Article_10", "Article_11"},
	"MAP.3.1": {"Article_27"},
	"MAP.3.5": {"Article_14", "Article_27"},
	"MAP.5.1": {"Article_9"},

	"MEASURE.2.3":  {"Article_10"},
	"MEASURE.2.4":  {"Article_12", "Article_26"},
	"MEASURE.2.5":  {"Article_15"},
	"MEASURE.2.6":  {"Article_15"},
	"MEASURE.2.7":  {"Article_15"},
	"MEASURE.2.8":  {"Article_13", "Article_50"},
	"MEASURE.2.9":  {"Article_15"},
	"MEASURE.2.11": {"Article_10"},
	"MEASURE.3.1":  {"Article_9"},

	"MANAGE.1.2": {"Article_9"},
	"MANAGE.2.4": {"Article_14", "Article_26"},
	"MANAGE.5.1": {"Article_11", "Article_12"},
	"MANAGE.5.2": {"Article_13", "Article_50"},
}

// CrossMapping is the two-way restriction of the static tables to the
// applicable sets.
type CrossMapping struct {
	EUToNIST map[string][]string `json:"eu_to_nist"`
	NISTToEU map[string][]string `json:"nist_to_eu"`
}

// ArticleKey renders an article number in table-key form, e.g. "Article_14".
func ArticleKey(article int) string {
	return fmt.Sprintf("Article_%d", article)
}

// Build restricts the static tables to the applicable EU articles and NIST
// subcategories. An entry is present only if both sides are applicable;
// entries whose restricted target list would be empty are omitted. Pure and
// deterministic; empty inputs produce empty maps.
func Build(euArticles []int, nistSubcategories []string) CrossMapping {
	result := CrossMapping{
		EUToNIST: make(map[string][]string),
		NISTToEU: make(map[string][]string),
	}

	applicableEU := make(map[string]bool, len(euArticles))
	for _, article := range euArticles {
		applicableEU[ArticleKey(article)] = true
	}
	applicableNIST := make(map[string]bool, len(nistSubcategories))
	for _, sub := range nistSubcategories {
		applicableNIST[sub] = true
	}

	for article := range applicableEU {
		targets, ok := euToNIST[article]
		if !ok {
			continue
		}
		var related []string
		for _, sub := range targets {
			if applicableNIST[sub] {
				related = append(related, sub)
			}
		}
		if len(related) > 0 {
			result.EUToNIST[article] = related
		}
	}

	for _, sub := range nistSubcategories {
		targets, ok := nistToEU[sub]
		if !ok {
			continue
		}
		var related []string
		for _, article := range targets {
			if applicableEU[article] {
				related = append(related, article)
			}
		}
		if len(related) > 0 {
			result.NISTToEU[sub] = related
		}
	}

	return result
}

// RelatedNIST returns the static targets for one EU article.
func RelatedNIST(article int) []string {
	return euToNIST[ArticleKey(article)]
}

// RelatedEU returns the static targets for one NIST subcategory.
func RelatedEU(subcategory string) []string {
	return nistToEU[subcategory]
}

// AllEUArticles lists every article key present in the static table.
func AllEUArticles() []string {
	keys := make([]string, 0, len(euToNIST))
	for k := range euToNIST {
		keys = append(keys, k)
	}
	return keys
}

// AllNISTSubcategories lists every subcategory present in the static table.
func AllNISTSubcategories() []string {
	keys := make([]string, 0, len(nistToEU))
	for k := range nistToEU {
		keys = append(keys, k)
	}
	return keys
}

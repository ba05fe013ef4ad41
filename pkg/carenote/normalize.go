package carenote

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/tidwall/gjson"
)

// The backend is inconsistent about category names; older responses use
// short aliases. Normalization maps every alias onto its canonical
// long-form key so the rest of the client only ever sees one spelling.
var categoryAliases = map[string]string{
	"vitals":        "vital_signs",
	"consciousness": "consciousness_level",
	"pain":          "pain_assessment",
	"meds":          "medications",
}

// CanonicalCategories is the set of clinical categories the client knows
// how to display and edit. Keys outside this set are preserved opaquely.
var CanonicalCategories = mapset.NewSet(
	"vital_signs",
	"symptoms",
	"medications",
	"pain_assessment",
	"consciousness_level",
	"mobility",
	"interventions",
)

// NormalizeExtraction parses a raw structured-data payload and returns an
// Extraction keyed by canonical category names. Rules:
//
//   - the canonical long-form key wins when present;
//   - a legacy alias is used only when the canonical key is absent;
//   - the output never contains both spellings;
//   - unknown keys pass through untouched.
//
// Payloads may arrive wrapped under "data" or "structured_data".
func NormalizeExtraction(raw []byte) *Extraction {
	root := gjson.ParseBytes(raw)
	for _, wrapper := range []string{"data", "structured_data"} {
		if inner := root.Get(wrapper); inner.IsObject() {
			root = inner
			break
		}
	}

	ext := &Extraction{Fields: map[string]interface{}{}}
	if !root.IsObject() {
		return ext
	}

	if id := root.Get("document_id"); id.Exists() {
		ext.DocumentID = id.String()
	}

	root.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if name == "document_id" {
			return true
		}
		if canonical, isAlias := categoryAliases[name]; isAlias {
			// Canonical key wins; handled on its own iteration.
			if root.Get(canonical).Exists() {
				return true
			}
			name = canonical
		}
		ext.Fields[name] = value.Value()
		return true
	})
	return ext
}

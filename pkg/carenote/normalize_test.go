package carenote

import "testing"

func TestNormalizeExtractionPrefersCanonicalKey(t *testing.T) {
	raw := []byte(`{
		"vital_signs": {"blood_pressure": "120/80"},
		"vitals": {"blood_pressure": "999/999"},
		"consciousness": "alert"
	}`)

	ext := NormalizeExtraction(raw)

	vs, ok := ext.Fields["vital_signs"].(map[string]interface{})
	if !ok {
		t.Fatalf("vital_signs missing or wrong type: %#v", ext.Fields["vital_signs"])
	}
	if vs["blood_pressure"] != "120/80" {
		t.Errorf("canonical key should win, got %v", vs["blood_pressure"])
	}
	if _, both := ext.Fields["vitals"]; both {
		t.Error("output must never contain both spellings")
	}
	if ext.Fields["consciousness_level"] != "alert" {
		t.Errorf("alias should map to canonical key when canonical absent, got %v", ext.Fields["consciousness_level"])
	}
	if _, both := ext.Fields["consciousness"]; both {
		t.Error("alias spelling must not survive normalization")
	}
}

func TestNormalizeExtractionFallsBackToAlias(t *testing.T) {
	cases := map[string]string{
		"vitals": "vital_signs",
		"pain":   "pain_assessment",
		"meds":   "medications",
	}
	for alias, canonical := range cases {
		raw := []byte(`{"` + alias + `": "value"}`)
		ext := NormalizeExtraction(raw)
		if ext.Fields[canonical] != "value" {
			t.Errorf("alias %s: expected %s=value, got %#v", alias, canonical, ext.Fields)
		}
		if _, present := ext.Fields[alias]; present {
			t.Errorf("alias %s must not appear in output", alias)
		}
	}
}

func TestNormalizeExtractionPreservesUnknownKeys(t *testing.T) {
	raw := []byte(`{"symptoms": ["fever"], "custom_score": 7}`)
	ext := NormalizeExtraction(raw)

	if ext.Fields["custom_score"] != float64(7) {
		t.Errorf("unknown keys must pass through, got %#v", ext.Fields["custom_score"])
	}
	symptoms, ok := ext.Fields["symptoms"].([]interface{})
	if !ok || len(symptoms) != 1 || symptoms[0] != "fever" {
		t.Errorf("unexpected symptoms: %#v", ext.Fields["symptoms"])
	}
}

func TestNormalizeExtractionUnwrapsEnvelopes(t *testing.T) {
	for _, wrapper := range []string{"data", "structured_data"} {
		raw := []byte(`{"` + wrapper + `": {"vitals": {"hr": 76}, "document_id": "doc-1"}}`)
		ext := NormalizeExtraction(raw)
		if ext.DocumentID != "doc-1" {
			t.Errorf("wrapper %s: document_id not extracted, got %q", wrapper, ext.DocumentID)
		}
		if _, ok := ext.Fields["vital_signs"]; !ok {
			t.Errorf("wrapper %s: expected vital_signs, got %#v", wrapper, ext.Fields)
		}
		if _, leak := ext.Fields["document_id"]; leak {
			t.Errorf("wrapper %s: document_id must not appear among fields", wrapper)
		}
	}
}

func TestNormalizeExtractionHandlesNonObjectPayload(t *testing.T) {
	ext := NormalizeExtraction([]byte(`"oops"`))
	if len(ext.Fields) != 0 {
		t.Errorf("non-object payload should yield empty fields, got %#v", ext.Fields)
	}
}

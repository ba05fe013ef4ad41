package carenote

import "testing"

func TestExtractionCloneIsDeep(t *testing.T) {
	original := &Extraction{
		DocumentID: "doc-1",
		Fields: map[string]interface{}{
			"vital_signs": map[string]interface{}{"hr": "76"},
			"symptoms":    []interface{}{"fever"},
		},
	}

	clone := original.Clone()
	clone.Fields["vital_signs"].(map[string]interface{})["hr"] = "999"
	clone.Fields["symptoms"].([]interface{})[0] = "cough"

	if original.Fields["vital_signs"].(map[string]interface{})["hr"] != "76" {
		t.Error("mutating the clone leaked into the original map")
	}
	if original.Fields["symptoms"].([]interface{})[0] != "fever" {
		t.Error("mutating the clone leaked into the original slice")
	}
}

func TestReprocessable(t *testing.T) {
	cases := map[DocumentStatus]bool{
		StatusPending:    false,
		StatusProcessing: false,
		StatusCompleted:  true,
		StatusFailed:     true,
	}
	for status, want := range cases {
		if got := status.Reprocessable(); got != want {
			t.Errorf("%s: got %v, want %v", status, got, want)
		}
	}
}

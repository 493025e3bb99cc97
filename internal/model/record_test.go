package model

import (
	"encoding/json"
	"testing"
)

// TestRecord tests the ordered field container.
func TestRecord(t *testing.T) {
	t.Parallel()

	t.Run("preserves insertion order", func(t *testing.T) {
		t.Parallel()

		r := NewRecord()
		r.Set("Firm Name", "ACME")
		r.Set("Country", "US")
		r.Set("Product", "Shrimp")

		want := []string{"Firm Name", "Country", "Product"}
		got := r.Keys()
		if len(got) != len(want) {
			t.Fatalf("expected %d keys, got %d", len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("key %d: expected %q, got %q", i, want[i], got[i])
			}
		}
	})

	t.Run("last value wins without changing position", func(t *testing.T) {
		t.Parallel()

		r := NewRecord()
		r.Set("Country", "US")
		r.Set("Firm Name", "ACME")
		r.Set("Country", "MX")

		if v, _ := r.Get("Country"); v != "MX" {
			t.Errorf("expected overwritten value 'MX', got %q", v)
		}
		if keys := r.Keys(); keys[0] != "Country" {
			t.Errorf("expected 'Country' to keep first position, got %q", keys[0])
		}
		if r.Len() != 2 {
			t.Errorf("expected 2 keys, got %d", r.Len())
		}
	})

	t.Run("missing key reports absence", func(t *testing.T) {
		t.Parallel()

		r := NewRecord()
		r.Set("Code", "A1")

		if _, ok := r.Get("Description"); ok {
			t.Error("expected missing key to report !ok")
		}
		if r.Has("Description") {
			t.Error("expected Has to be false for missing key")
		}
	})

	t.Run("JSON keeps field order", func(t *testing.T) {
		t.Parallel()

		r := NewRecord()
		r.Set("Zebra", "1")
		r.Set("Apple", "2")

		data, err := json.Marshal(r)
		if err != nil {
			t.Fatalf("failed to marshal: %v", err)
		}

		want := `{"Zebra":"1","Apple":"2"}`
		if string(data) != want {
			t.Errorf("expected %s, got %s", want, data)
		}
	})

	t.Run("JSON round trip", func(t *testing.T) {
		t.Parallel()

		r := NewRecord()
		r.Set("Code", "A1")
		r.Set("Description", "Adulterated")

		data, err := json.Marshal(r)
		if err != nil {
			t.Fatalf("failed to marshal: %v", err)
		}

		restored := NewRecord()
		if err := json.Unmarshal(data, restored); err != nil {
			t.Fatalf("failed to unmarshal: %v", err)
		}

		if v, _ := restored.Get("Description"); v != "Adulterated" {
			t.Errorf("expected 'Adulterated', got %q", v)
		}
		if keys := restored.Keys(); keys[0] != "Code" || keys[1] != "Description" {
			t.Errorf("unexpected key order after round trip: %v", keys)
		}
	})
}

// TestRefusalRecordMarshalJSON verifies the reserved charges key.
func TestRefusalRecordMarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("fields then charges", func(t *testing.T) {
		t.Parallel()

		rec := NewRefusalRecord("http://host/ir_detail.cfm?id=5")
		rec.Fields.Set("Firm Name", "ACME")
		rec.Fields.Set("Country", "US")

		charge := NewRecord()
		charge.Set("Code", "A1")
		charge.Set("Description", "Adulterated")
		rec.Charges = append(rec.Charges, charge)

		data, err := json.Marshal(rec)
		if err != nil {
			t.Fatalf("failed to marshal: %v", err)
		}

		want := `{"Firm Name":"ACME","Country":"US","charges":[{"Code":"A1","Description":"Adulterated"}]}`
		if string(data) != want {
			t.Errorf("expected %s, got %s", want, data)
		}
	})

	t.Run("charges key exists even when empty", func(t *testing.T) {
		t.Parallel()

		rec := NewRefusalRecord("http://host/ir_detail.cfm?id=6")

		data, err := json.Marshal(rec)
		if err != nil {
			t.Fatalf("failed to marshal: %v", err)
		}

		want := `{"charges":[]}`
		if string(data) != want {
			t.Errorf("expected %s, got %s", want, data)
		}
	})
}

package dto

import "testing"

func TestSlotKeyRoundTrip(t *testing.T) {
	for day := 0; day < 5; day++ {
		for slot := 0; slot < 8; slot++ {
			d, s, err := ParseSlotKey(SlotKey(day, slot))
			if err != nil || d != day || s != slot {
				t.Errorf("round trip (%d,%d) → (%d,%d), %v", day, slot, d, s, err)
			}
		}
	}
}

func TestParseSlotKey_Invalid(t *testing.T) {
	for _, key := range []string{"", "0", "0,1,2", "a,1", "0,b"} {
		if _, _, err := ParseSlotKey(key); err == nil {
			t.Errorf("expected error for %q", key)
		}
	}
}

func TestParseSlotKey_ToleratesSpaces(t *testing.T) {
	d, s, err := ParseSlotKey("2, 3")
	if err != nil || d != 2 || s != 3 {
		t.Errorf("got (%d,%d), %v", d, s, err)
	}
}

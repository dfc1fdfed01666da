package targets

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFindByChip(t *testing.T) {
	got, err := All().FindByChip("esp32")
	if err != nil {
		t.Fatalf("FindByChip(esp32): %v", err)
	}
	want := TargetInfo{
		Series:    "lx6",
		Chips:     []string{"esp32", "esp32-d0wd", "esp32-d0wdq6", "esp32-u4wdh"},
		Cores:     2,
		CPUFreqHz: 240000000,
		Tags:      []string{"dualcore", "ocd"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FindByChip(esp32) mismatch (-want +got):\n%s", diff)
	}
}

func TestFindByChipCaseInsensitive(t *testing.T) {
	got, err := All().FindByChip("ESP32")
	if err != nil {
		t.Fatalf("FindByChip(ESP32): %v", err)
	}
	if got.Series != "lx6" {
		t.Errorf("series: got %q, wanted lx6", got.Series)
	}
}

func TestFindByChipUnknown(t *testing.T) {
	_, err := All().FindByChip("esp99")
	if !errors.Is(err, ErrUnknownChip) {
		t.Errorf("FindByChip(esp99): got %v, wanted ErrUnknownChip", err)
	}
}

func TestFindBySeries(t *testing.T) {
	got, err := All().FindBySeries("lx106")
	if err != nil {
		t.Fatalf("FindBySeries(lx106): %v", err)
	}
	if got.Cores != 1 {
		t.Errorf("lx106 cores: got %d, wanted 1", got.Cores)
	}

	if _, err := All().FindBySeries("lx9"); !errors.Is(err, ErrUnknownSeries) {
		t.Errorf("FindBySeries(lx9): got %v, wanted ErrUnknownSeries", err)
	}
}

func TestHasTag(t *testing.T) {
	target, err := All().FindByChip("esp32")
	if err != nil {
		t.Fatal(err)
	}
	if !target.HasTag("dualcore") {
		t.Error("esp32: HasTag(dualcore) = false")
	}
	if target.HasTag("fpu") {
		t.Error("esp32: HasTag(fpu) = true")
	}
}

func TestSingleCoreChipsHaveOneCore(t *testing.T) {
	for _, chip := range []string{"esp32-s0wd", "esp8266"} {
		target, err := All().FindByChip(chip)
		if err != nil {
			t.Fatalf("FindByChip(%s): %v", chip, err)
		}
		if target.Cores != 1 {
			t.Errorf("%s cores: got %d, wanted 1", chip, target.Cores)
		}
	}
}

package service

import (
	"strings"
	"testing"
	"time"
)

func TestGeneratePIN(t *testing.T) {
	for i := 0; i < 100; i++ {
		pin := GeneratePIN()
		if len(pin) != 12 {
			t.Fatalf("expected 12 digits, got %q", pin)
		}
		if pin[0] == '0' {
			t.Fatalf("PIN must not start with zero: %q", pin)
		}
		for _, r := range pin {
			if r < '0' || r > '9' {
				t.Fatalf("PIN contains non-digit: %q", pin)
			}
		}
	}
}

func TestGenerateSerialNumber(t *testing.T) {
	now := time.UnixMilli(1700000123456)
	serial := GenerateSerialNumber("mtn", now)

	if len(serial) != 13 {
		t.Fatalf("expected 13 characters, got %q", serial)
	}
	if !strings.HasPrefix(serial, "MTN") {
		t.Fatalf("expected MTN prefix, got %q", serial)
	}
	if serial[3:9] != "123456" {
		t.Fatalf("expected time digits 123456, got %q", serial)
	}
	suffix := serial[9:]
	if suffix < "1000" || suffix > "9999" {
		t.Fatalf("random suffix out of range: %q", serial)
	}
}

func TestGenerateSerialNumberShortNetwork(t *testing.T) {
	serial := GenerateSerialNumber("glo", time.Now())
	if !strings.HasPrefix(serial, "GLO") {
		t.Fatalf("expected GLO prefix, got %q", serial)
	}
}

func TestGenerateBatchNo(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	batchNo := generateBatchNo(now)
	if !strings.HasPrefix(batchNo, "BATCH-20260314092653-") {
		t.Fatalf("unexpected batch no: %q", batchNo)
	}
}

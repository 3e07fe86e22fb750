package ui

import "testing"

func TestColorDisabledByNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if ColorEnabled() {
		t.Error("NO_COLOR set, ColorEnabled should report false")
	}
}

func TestDebugToggle(t *testing.T) {
	SetDebug(true)
	defer SetDebug(false)
	if !IsDebug() {
		t.Error("IsDebug should report true after SetDebug(true)")
	}
	SetDebug(false)
	if IsDebug() {
		t.Error("IsDebug should report false after SetDebug(false)")
	}
}

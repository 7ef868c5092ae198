// File: error_test.go
// Title: Error Module Tests
// Description: Tests for error creation, wrapping, code lookup through
//              wrap chains, details and JSON output.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with comprehensive test coverage
// - 2026-10-19 v0.2.0: Chain-aware HasCode/GetCode tests
// - 2026-10-19 v0.3.0: Severity follows the code

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	msg := "test error message"
	err := New(msg)

	if err == nil {
		t.Fatal("New() returned nil")
	}

	if err.Error() != msg {
		t.Errorf("Error() = %q, want %q", err.Error(), msg)
	}

	if err.Code() != CodeUnknown {
		t.Errorf("Code() = %v, want %v", err.Code(), CodeUnknown)
	}

	if err.Severity() != SeverityMedium {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityMedium)
	}
}

func TestWithCodeSetsSeverity(t *testing.T) {
	tests := []struct {
		code Code
		want Severity
	}{
		{CodeTraceSyntax, SeverityLow},
		{CodeInvalidConfig, SeverityMedium},
		{CodeDatabaseError, SeverityHigh},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New("x").WithCode(CodeDatabaseError).WithCode(tt.code)
			if err.Severity() != tt.want {
				t.Errorf("Severity() = %v, want %v", err.Severity(), tt.want)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf("address %d stored %d twice", 3, 7)
	if err.Error() != "address 3 stored 7 twice" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
		wantNil bool
		wantMsg string
	}{
		{
			name:    "wrap nil error",
			err:     nil,
			message: "context",
			wantNil: true,
		},
		{
			name:    "wrap standard error",
			err:     errors.New("boom"),
			message: "reading trace",
			wantMsg: "reading trace: boom",
		},
		{
			name:    "wrap structured error",
			err:     New("bad token").WithCode(CodeTraceSyntax),
			message: "parse failed",
			wantMsg: "parse failed: bad token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.err, tt.message)
			if tt.wantNil {
				if got != nil {
					t.Errorf("Wrap() = %v, want nil", got)
				}
				return
			}
			if got.Error() != tt.wantMsg {
				t.Errorf("Wrap().Error() = %q, want %q", got.Error(), tt.wantMsg)
			}
			if !errors.Is(got, tt.err) {
				t.Error("Wrap() should keep the cause reachable through errors.Is")
			}
		})
	}
}

func TestWrapInheritsCodeAndDetails(t *testing.T) {
	inner := New("duplicate").
		WithCode(CodeDuplicateStoreValue).
		WithDetail("address", 2).
		WithOperation("checker.UniqueStoreValues")

	outer := Wrap(inner, "trace rejected")

	if outer.Code() != CodeDuplicateStoreValue {
		t.Errorf("Code() = %v, want %v", outer.Code(), CodeDuplicateStoreValue)
	}
	if outer.Severity() != SeverityLow {
		t.Errorf("Severity() = %v, want %v", outer.Severity(), SeverityLow)
	}
	if v, ok := outer.Details()["address"]; !ok || v != 2 {
		t.Errorf("Details()[address] = %v, %v; want 2, true", v, ok)
	}
	if outer.Operation() != "checker.UniqueStoreValues" {
		t.Errorf("Operation() = %q", outer.Operation())
	}
}

type positioned struct{ offset int }

func (p *positioned) Error() string { return fmt.Sprintf("at %d", p.offset) }

func TestHasCodeWalksChain(t *testing.T) {
	base := Wrap(&positioned{offset: 4}, "grammar").WithCode(CodeTraceSyntax)
	stdWrapped := fmt.Errorf("parsing file: %w", base)

	if !HasCode(stdWrapped, CodeTraceSyntax) {
		t.Error("HasCode() should find the code behind a fmt.Errorf wrap")
	}
	if HasCode(stdWrapped, CodeDuplicateStoreValue) {
		t.Error("HasCode() matched the wrong code")
	}
	if GetCode(stdWrapped) != CodeTraceSyntax {
		t.Errorf("GetCode() = %v, want %v", GetCode(stdWrapped), CodeTraceSyntax)
	}
	if GetCode(errors.New("plain")) != CodeUnknown {
		t.Error("GetCode() of a plain error should be CodeUnknown")
	}
	if HasCode(nil, CodeUnknown) {
		t.Error("HasCode(nil) should be false")
	}

	var p *positioned
	if !errors.As(stdWrapped, &p) || p.offset != 4 {
		t.Error("typed cause should stay reachable through errors.As")
	}
}

func TestRootCause(t *testing.T) {
	root := errors.New("disk full")
	err := Wrap(Wrap(root, "write instructions"), "save trace")
	if err.RootCause() != root {
		t.Errorf("RootCause() = %v, want %v", err.RootCause(), root)
	}
}

func TestDetailsIsCopy(t *testing.T) {
	err := New("x").WithDetails(map[string]interface{}{"a": 1})
	details := err.Details()
	details["a"] = 2
	if v := err.Details()["a"]; v != 1 {
		t.Error("Details() should return a copy")
	}
}

func TestMarshalJSON(t *testing.T) {
	err := Wrap(errors.New("cause"), "outer").WithCode(CodeDatabaseError)

	data, jerr := json.Marshal(err)
	if jerr != nil {
		t.Fatalf("json.Marshal() error = %v", jerr)
	}

	var decoded map[string]interface{}
	if jerr := json.Unmarshal(data, &decoded); jerr != nil {
		t.Fatalf("json.Unmarshal() error = %v", jerr)
	}

	if decoded["code"] != "DATABASE_ERROR" {
		t.Errorf("code = %v, want DATABASE_ERROR", decoded["code"])
	}
	if decoded["severity"] != "high" {
		t.Errorf("severity = %v, want high", decoded["severity"])
	}
	if decoded["cause"] != "cause" {
		t.Errorf("cause = %v, want cause", decoded["cause"])
	}
}

package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_New_DefaultExitCode(t *testing.T) {
	err := New(ErrCodeMissingStageOutput, "gone")
	if err.Code != ErrCodeMissingStageOutput {
		t.Errorf("expected code %s, got %s", ErrCodeMissingStageOutput, err.Code)
	}
	if err.ExitCode != ExitMissingStageOutput {
		t.Errorf("expected exit %d, got %d", ExitMissingStageOutput, err.ExitCode)
	}
}

func TestAppError_MissingInput(t *testing.T) {
	t.Run("not provided", func(t *testing.T) {
		err := MissingInput("forward_reads", "")
		if err.Code != ErrCodeMissingInput {
			t.Errorf("expected MISSING_INPUT, got %s", err.Code)
		}
		if _, ok := err.Details["path"]; ok {
			t.Error("expected no 'path' key in details when path is empty")
		}
		if !strings.Contains(err.Message, "required") {
			t.Errorf("expected message to mention required, got %q", err.Message)
		}
	})

	t.Run("nonexistent path", func(t *testing.T) {
		err := MissingInput("reverse_reads", "/no/such/file")
		if err.Details["path"] != "/no/such/file" {
			t.Errorf("expected path detail, got %v", err.Details["path"])
		}
		if err.ExitCode != ExitUsage {
			t.Errorf("expected exit %d, got %d", ExitUsage, err.ExitCode)
		}
	})
}

func TestAppError_InvalidParameter(t *testing.T) {
	err := Validation("invalid algorithm: must be one of: ropebwt, sais").WithDetail("field", "algorithm")
	if err.Code != ErrCodeInvalidParameter {
		t.Errorf("expected INVALID_PARAMETER, got %s", err.Code)
	}
	if err.ExitCode != ExitUsage {
		t.Errorf("expected exit %d, got %d", ExitUsage, err.ExitCode)
	}
	if err.Details["field"] != "algorithm" {
		t.Errorf("expected field=algorithm, got %v", err.Details["field"])
	}
}

func TestAppError_ToolFailure_ExitCode(t *testing.T) {
	tests := []struct {
		name     string
		toolExit int
		want     int
	}{
		{"mirrors tool status", 3, 3},
		{"upper bound", 255, 255},
		{"out of range falls back", 300, ExitInternal},
		{"signal exit falls back", -1, ExitInternal},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ToolFailure("Index", tc.toolExit, "boom\n")
			if err.ExitCode != tc.want {
				t.Errorf("expected exit %d, got %d", tc.want, err.ExitCode)
			}
			if err.Stage != "Index" {
				t.Errorf("expected stage Index, got %q", err.Stage)
			}
		})
	}
}

func TestAppError_ToolFailure_IncludesTail(t *testing.T) {
	err := ToolFailure("Correct", 1, "  out of memory\n")
	if !strings.HasSuffix(err.Message, ": out of memory") {
		t.Errorf("expected trimmed stderr tail in message, got %q", err.Message)
	}
	if err.Details["stderr_tail"] != "  out of memory\n" {
		t.Errorf("expected raw tail in details, got %v", err.Details["stderr_tail"])
	}
}

func TestAppError_LaunchFailure(t *testing.T) {
	cause := fmt.Errorf("exec: not found")
	err := LaunchFailure("Preprocess", "/opt/sga", cause)
	if err.ExitCode != ExitLaunchFailure {
		t.Errorf("expected exit %d, got %d", ExitLaunchFailure, err.ExitCode)
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be reachable via errors.Is")
	}
}

func TestAppError_Error_Format(t *testing.T) {
	err := MissingStageOutput("Index", "/w/a.pp.bwt")
	s := err.Error()
	if !strings.HasPrefix(s, "MISSING_STAGE_OUTPUT [Index]: ") {
		t.Errorf("unexpected error string %q", s)
	}

	plain := Validation("bad").Error()
	if plain != "INVALID_PARAMETER: bad" {
		t.Errorf("unexpected error string %q", plain)
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := Validation("threads must be at least 1").WithDetail("field", "threads").WithDetails(map[string]any{
		"value": "0",
	})
	if err.Details["value"] != "0" {
		t.Errorf("expected value=0 in details")
	}
	if err.Details["field"] != "threads" {
		t.Error("expected original details to be preserved")
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := &AppError{}
	err.WithDetail("key", "value").WithStage("Correct")
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details["key"])
	}
	if err.Stage != "Correct" {
		t.Errorf("expected stage Correct, got %q", err.Stage)
	}
}

func TestExitCode(t *testing.T) {
	if got := ExitCode(nil); got != ExitOK {
		t.Errorf("expected %d for nil, got %d", ExitOK, got)
	}
	if got := ExitCode(fmt.Errorf("plain")); got != ExitInternal {
		t.Errorf("expected %d for plain error, got %d", ExitInternal, got)
	}
	wrapped := fmt.Errorf("wrap: %w", Canceled("Index", nil))
	if got := ExitCode(wrapped); got != ExitCanceled {
		t.Errorf("expected %d for wrapped cancel, got %d", ExitCanceled, got)
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("ctx: %w", MissingInput("forward_reads", ""))
	if !HasCode(err, ErrCodeMissingInput) {
		t.Error("expected HasCode to find MISSING_INPUT through wrapping")
	}
	if HasCode(err, ErrCodeToolFailure) {
		t.Error("did not expect TOOL_FAILURE")
	}
	if !IsConfigurationCode(ErrCodeInvalidParameter) || IsConfigurationCode(ErrCodeToolFailure) {
		t.Error("unexpected configuration code classification")
	}
}

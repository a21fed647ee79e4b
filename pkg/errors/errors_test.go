package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
	"time"
)

func TestScaffoldErrorString(t *testing.T) {
	err := &ScaffoldError{
		Op:   "ngapp init",
		Kind: KindConfiguration,
		Err:  &ConfigurationError{Field: "appName", Reason: "must not be empty"},
	}
	got := err.Error()
	want := `ngapp init [configuration]: invalid configuration: appName: must not be empty`
	if got != want {
		t.Errorf("ScaffoldError.Error() = %q, want %q", got, want)
	}
}

func TestConfigurationErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *ConfigurationError
		want string
	}{
		{
			name: "with value",
			err:  Configf("assetFolders.scripts", "../x", "must stay inside %s", "src"),
			want: `invalid configuration: assetFolders.scripts="../x": must stay inside src`,
		},
		{
			name: "without value",
			err:  &ConfigurationError{Field: "projectFolders.dev", Reason: "missing"},
			want: "invalid configuration: projectFolders.dev: missing",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindConfiguration, "configuration"},
		{KindMaterialization, "materialization"},
		{KindInstall, "install"},
		{KindPrompt, "prompt"},
		{KindUsage, "usage"},
		{KindPanic, "panic"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindUnknown},
		{"plain", stderrors.New("boom"), KindUnknown},
		{"configuration", &ConfigurationError{Field: "f"}, KindConfiguration},
		{"wrapped configuration", fmt.Errorf("build plan: %w", &ConfigurationError{Field: "f"}), KindConfiguration},
		{"materialization", &MaterializationError{Index: 3, Op: "copy", Path: "a", Err: fs.ErrPermission}, KindMaterialization},
		{"install", &InstallError{Tool: "npm", Err: stderrors.New("exit 1")}, KindInstall},
		{"usage", &UsageError{Msg: "bad"}, KindUsage},
		{"envelope wins", &ScaffoldError{Kind: KindPrompt, Err: &UsageError{}}, KindPrompt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMaterializationErrorUnwrap(t *testing.T) {
	err := &MaterializationError{Index: 2, Op: "render", Path: "app/index.jade", Err: fs.ErrExist}
	if !stderrors.Is(err, fs.ErrExist) {
		t.Error("expected MaterializationError to unwrap to fs.ErrExist")
	}
	if !strings.Contains(err.Error(), "step 2 (render app/index.jade)") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestExitCode(t *testing.T) {
	if got := ExitCode(nil); got != 0 {
		t.Errorf("ExitCode(nil) = %d, want 0", got)
	}
	if got := ExitCode(&UsageError{Msg: "x"}); got != 2 {
		t.Errorf("ExitCode(usage) = %d, want 2", got)
	}
	if got := ExitCode(&ConfigurationError{Field: "x"}); got != 1 {
		t.Errorf("ExitCode(configuration) = %d, want 1", got)
	}
}

func TestReport(t *testing.T) {
	var captured *ScaffoldError
	handler := &testHandler{
		onError: func(err *ScaffoldError) {
			captured = err
		},
	}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	Report(&ScaffoldError{
		Op:   "ngapp plan",
		Kind: KindConfiguration,
		Err:  &ConfigurationError{Field: "modules.restangularAdapter", Reason: "requires modules.resource"},
	})

	if captured == nil {
		t.Fatal("expected error to be captured")
	}
	if captured.Op != "ngapp plan" {
		t.Errorf("Op = %q, want %q", captured.Op, "ngapp plan")
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestRecover(t *testing.T) {
	var capturedPanic *PanicError
	var callbackValue any
	handler := &testHandler{
		onPanic: func(err *PanicError) {
			capturedPanic = err
		},
	}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	func() {
		defer Recover("test.recover", func(r any) { callbackValue = r })
		panic("intentional test panic")
	}()

	if capturedPanic == nil {
		t.Fatal("expected panic to be recovered and captured")
	}
	if capturedPanic.Op != "test.recover" {
		t.Errorf("Op = %q, want %q", capturedPanic.Op, "test.recover")
	}
	if callbackValue != "intentional test panic" {
		t.Errorf("callback value = %v, want %q", callbackValue, "intentional test panic")
	}
}

func TestSetHandlerNil(t *testing.T) {
	SetHandler(nil)
	if _, ok := DefaultHandler.(*LogHandler); !ok {
		t.Errorf("SetHandler(nil) should set LogHandler, got %T", DefaultHandler)
	}
}

func TestLogHandler(t *testing.T) {
	var buf bytes.Buffer
	h := &LogHandler{Out: &buf}
	h.HandleError(&ScaffoldError{
		Op:        "ngapp init",
		Kind:      KindMaterialization,
		Err:       &MaterializationError{Index: 0, Op: "mkdir", Path: ".dev", Err: fs.ErrPermission},
		Timestamp: time.Now(),
	})
	if got := buf.String(); !strings.HasPrefix(got, "[ngapp error] ngapp init: step 0 (mkdir .dev)") {
		t.Errorf("unexpected output %q", got)
	}

	buf.Reset()
	h.Verbose = true
	h.HandleError(&ScaffoldError{
		Op:   "ngapp init",
		Kind: KindMaterialization,
		Err:  &MaterializationError{Index: 0, Op: "mkdir", Path: ".dev", Err: fs.ErrPermission},
	})
	if got := buf.String(); !strings.Contains(got, "[materialization]") || !strings.Contains(got, "caused by: permission denied") {
		t.Errorf("verbose output missing kind or cause: %q", got)
	}

	buf.Reset()
	h.HandlePanic(&PanicError{Op: "main", Value: "boom", StackTrace: "frame"})
	if got := buf.String(); !strings.Contains(got, "[ngapp panic] main: boom") || !strings.Contains(got, "Stack trace:") {
		t.Errorf("unexpected panic output %q", got)
	}
}

type testHandler struct {
	onError func(*ScaffoldError)
	onPanic func(*PanicError)
}

func (h *testHandler) HandleError(err *ScaffoldError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}

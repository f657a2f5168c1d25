package contexts

import (
	"context"
	"testing"
)

func TestTraceID(t *testing.T) {
	ctx := context.Background()

	if _, ok := GetTraceID(ctx); ok {
		t.Error("empty context should not have a trace id")
	}

	ctx = WithTraceID(ctx, "hd-test-trace")

	traceID, ok := GetTraceID(ctx)
	if !ok {
		t.Fatal("trace id should be present")
	}

	if traceID != "hd-test-trace" {
		t.Errorf("traceID = %v, want %v", traceID, "hd-test-trace")
	}
}

func TestContainerSharing(t *testing.T) {
	ctx := WithTraceID(context.Background(), "hd-trace")
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithOperationName(ctx, "authorize")
	ctx = WithPrincipalID(ctx, "user/alice")

	if v, _ := GetTraceID(ctx); v != "hd-trace" {
		t.Errorf("trace id = %v", v)
	}

	if v, _ := GetRequestID(ctx); v != "req-1" {
		t.Errorf("request id = %v", v)
	}

	if v, _ := GetOperationName(ctx); v != "authorize" {
		t.Errorf("operation name = %v", v)
	}

	if v, _ := GetPrincipalID(ctx); v != "user/alice" {
		t.Errorf("principal id = %v", v)
	}
}

func TestPrincipalID_Absent(t *testing.T) {
	if _, ok := GetPrincipalID(context.Background()); ok {
		t.Error("empty context should not have a principal id")
	}
}

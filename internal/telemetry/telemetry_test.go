package telemetry

import (
	"context"
	"testing"
)

func TestDisabledProviderIsUsable(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	if p.Enabled {
		t.Fatal("provider should report disabled")
	}

	ctx := context.Background()
	p.RecordAnalysis(ctx, "HIGH", 82, 3.5)
	p.RecordDetectorHit(ctx, "Urgency pressure")
	p.RecordNER(ctx, 12.0, true)

	spanCtx, span := p.StartSpan(ctx, "analyze")
	if spanCtx == nil {
		t.Fatal("expected a context from StartSpan")
	}
	span.End()

	p.Shutdown(ctx)
}

func TestUnknownProtocolFallsBackToDisabled(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{
		Enabled:  true,
		Protocol: "carrier-pigeon",
		Service:  "test",
	})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	if p.Enabled {
		t.Fatal("unknown protocol should disable telemetry")
	}
}

package health

import (
	"context"
	"errors"
	"testing"
)

func passing(context.Context) error { return nil }

func failing(context.Context) error { return errors.New("down") }

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(map[string]Checker{
		"clustering": CheckerFunc(passing),
		"pipeline":   CheckerFunc(passing),
	})

	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("status = %q, want %q", r.Status, Healthy)
	}
	if r.Checks["clustering"] != CheckOK || r.Checks["pipeline"] != CheckOK {
		t.Errorf("checks = %v, want all ok", r.Checks)
	}
}

func TestCheck_OneFailureDegrades(t *testing.T) {
	svc := New(map[string]Checker{
		"clustering": CheckerFunc(failing),
		"pipeline":   CheckerFunc(passing),
	})

	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("status = %q, want %q", r.Status, Degraded)
	}
	if r.Checks["clustering"] != CheckError {
		t.Errorf("clustering = %q, want %q", r.Checks["clustering"], CheckError)
	}
	if r.Checks["pipeline"] != CheckOK {
		t.Errorf("pipeline = %q, want %q", r.Checks["pipeline"], CheckOK)
	}
}

func TestCheck_NilCheckersSkipped(t *testing.T) {
	svc := New(map[string]Checker{
		"clustering": CheckerFunc(passing),
		"optional":   nil,
	})

	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("status = %q, want %q", r.Status, Healthy)
	}
	if _, ok := r.Checks["optional"]; ok {
		t.Error("nil checker should be absent from the report")
	}
}

func TestCheck_NoCheckers(t *testing.T) {
	svc := New(nil)

	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("status = %q, want %q", r.Status, Healthy)
	}
	if len(r.Checks) != 0 {
		t.Errorf("checks = %v, want empty", r.Checks)
	}
}

//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "repairshop-api"
	ConsumerName = "front-desk"

	StateCustomersBaseline = "customers baseline"
	StateCustomerExists    = "customer with id 1 exists"
	StateCustomerMissing   = "no customer with id 404"
	StateNotificationsBase = "notifications baseline"
	StateUnreadExists      = "an unread notification exists"
)

const (
	ExistingCustomerID int64 = 1
	MissingCustomerID  int64 = 404

	ExampleNotificationTitle   = "Parts arrived"
	ExampleNotificationMessage = "The display for order 12 is on the bench"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the front desk consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleCustomerPayload provides stable test data for customer interactions.
func ExampleCustomerPayload() map[string]any {
	return map[string]any{
		"name":         "Maria Souza",
		"street":       "Rua das Flores",
		"neighborhood": "Centro",
		"city":         "Campinas",
		"number":       "120",
		"zipCode":      "13010-000",
		"state":        "SP",
		"phone":        "19 99999-0000",
		"email":        "maria@example.com",
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}

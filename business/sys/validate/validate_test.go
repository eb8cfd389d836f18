package validate_test

import (
	"testing"

	"github.com/ardanlabs/powledger/business/sys/validate"
)

func Test_Check(t *testing.T) {
	type newTx struct {
		Sender    string `json:"sender" validate:"required"`
		Recipient string `json:"recipient" validate:"required"`
		Amount    uint64 `json:"amount" validate:"required,gt=0"`
	}

	if err := validate.Check(newTx{Sender: "A", Recipient: "B", Amount: 5}); err != nil {
		t.Fatalf("expected a valid model: %v", err)
	}

	err := validate.Check(newTx{Sender: "A"})
	if !validate.IsFieldErrors(err) {
		t.Fatalf("expected field errors, got %v", err)
	}

	fields := validate.GetFieldErrors(err).Fields()
	if _, exists := fields["recipient"]; !exists {
		t.Fatalf("expected the json name to be used, got %v", fields)
	}
	if _, exists := fields["amount"]; !exists {
		t.Fatalf("expected amount to fail, got %v", fields)
	}
}

func Test_Var(t *testing.T) {
	if err := validate.Var("host", "localhost:9080", "hostname_port"); err != nil {
		t.Fatalf("expected a valid host: %v", err)
	}

	if err := validate.Var("host", "not a host", "hostname_port"); !validate.IsFieldErrors(err) {
		t.Fatalf("expected field errors, got %v", err)
	}
}

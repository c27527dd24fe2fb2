package models_test

import (
	"encoding/json"
	"testing"

	"bitbucket.org/sitestack/sitebooks_backend/models"
)

func TestEnumUnmarshal_RejectsUnknownValues(t *testing.T) {
	var role models.Role
	if err := json.Unmarshal([]byte(`"manager"`), &role); err == nil {
		t.Fatal("expected unknown role to be rejected")
	}
	if err := json.Unmarshal([]byte(`"supervisor"`), &role); err != nil {
		t.Fatalf("supervisor: %v", err)
	}

	var status models.MaterialStatus
	if err := json.Unmarshal([]byte(`"ordered"`), &status); err == nil {
		t.Fatal("expected unknown material status to be rejected")
	}

	var txType models.TransactionType
	if err := json.Unmarshal([]byte(`"transfer"`), &txType); err == nil {
		t.Fatal("expected unknown transaction type to be rejected")
	}

	var payment models.PaymentType
	if err := json.Unmarshal([]byte(`"bonus"`), &payment); err == nil {
		t.Fatal("expected unknown payment type to be rejected")
	}
}

func TestPaymentTypeCategory(t *testing.T) {
	if models.PaymentTypeSalary.Category() != models.CategoryWorkerSalary {
		t.Fatal("salary payment must map to the worker-salary category")
	}
	if models.PaymentTypeAdvance.Category() != models.CategoryWorkerAdvance {
		t.Fatal("advance payment must map to the worker-advance category")
	}
}

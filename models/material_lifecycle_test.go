package models_test

import (
	"testing"

	"bitbucket.org/sitestack/sitebooks_backend/models"
	"bitbucket.org/sitestack/sitebooks_backend/utils"
	"github.com/shopspring/decimal"
)

// NOTE: These tests are intentionally DB-free. They validate the material
// lifecycle guards and the consumption pool arithmetic; the SQL path applies
// the same predicates as conditional updates.

func nd(v int64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromInt(v), Valid: true}
}

func requestedMaterial(qty int64) *models.Material {
	return &models.Material{
		ID:        1,
		ProjectId: 1,
		Name:      "Cement",
		Unit:      "bag",
		Quantity:  decimal.NewFromInt(qty),
		Status:    models.MaterialStatusRequested,
	}
}

func TestMaterialApprove_DefaultsToRequestedQuantity(t *testing.T) {
	m := requestedMaterial(100)
	if err := m.Approve(decimal.NullDecimal{}, 7); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if m.Status != models.MaterialStatusApproved {
		t.Fatalf("expected approved, got %s", m.Status)
	}
	if !m.ApprovedQuantity.Decimal.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected approvedQuantity=100, got %s", m.ApprovedQuantity.Decimal)
	}
	if m.ApprovedBy == nil || *m.ApprovedBy != 7 {
		t.Fatalf("expected approvedBy=7, got %v", m.ApprovedBy)
	}
}

func TestMaterialApprove_PartialQuantity(t *testing.T) {
	m := requestedMaterial(100)
	if err := m.Approve(nd(60), 7); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if !m.Available().Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected available=60, got %s", m.Available())
	}
}

func TestMaterialApprove_RejectsNegativeQuantity(t *testing.T) {
	m := requestedMaterial(100)
	err := m.Approve(nd(-5), 7)
	if err == nil {
		t.Fatal("expected error for negative approved quantity")
	}
	if utils.KindOf(err) != utils.ErrorKindInvalidInput {
		t.Fatalf("expected InvalidInput, got %s", utils.KindOf(err))
	}
}

func TestMaterialApprove_OnlyFromRequested(t *testing.T) {
	for _, status := range []models.MaterialStatus{
		models.MaterialStatusApproved,
		models.MaterialStatusRejected,
		models.MaterialStatusReceived,
		models.MaterialStatusUsed,
	} {
		m := requestedMaterial(10)
		m.Status = status
		if err := m.Approve(decimal.NullDecimal{}, 7); err == nil {
			t.Fatalf("status=%s: expected approve to fail", status)
		} else if utils.KindOf(err) != utils.ErrorKindConflict {
			t.Fatalf("status=%s: expected Conflict, got %s", status, utils.KindOf(err))
		}
	}
}

func TestMaterialReject_IsTerminal(t *testing.T) {
	m := requestedMaterial(10)
	if err := m.Reject(7); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if !m.Status.Terminal() {
		t.Fatalf("expected rejected to be terminal")
	}
	if err := m.Approve(decimal.NullDecimal{}, 7); err == nil {
		t.Fatal("expected approve after reject to fail")
	}
}

func TestMaterialReceive_DefaultsToApprovedQuantity(t *testing.T) {
	m := requestedMaterial(100)
	if err := m.Approve(nd(80), 7); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if err := m.Receive(decimal.NullDecimal{}, nil); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if !m.ReceivedQuantity.Decimal.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("expected receivedQuantity=80, got %s", m.ReceivedQuantity.Decimal)
	}
	if m.Status != models.MaterialStatusReceived {
		t.Fatalf("expected received, got %s", m.Status)
	}
}

func TestMaterialReceive_OnlyFromApproved(t *testing.T) {
	m := requestedMaterial(10)
	err := m.Receive(nd(10), nil)
	if err == nil {
		t.Fatal("expected receive from requested to fail")
	}
	if utils.KindOf(err) != utils.ErrorKindConflict {
		t.Fatalf("expected Conflict, got %s", utils.KindOf(err))
	}
}

func TestMaterialReceive_ExpenseAmount(t *testing.T) {
	// 8 units at cost 50 posts a 400 expense.
	m := requestedMaterial(10)
	if err := m.Approve(nd(10), 7); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	cost := decimal.NewFromInt(50)
	if err := m.Receive(nd(8), &cost); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if !m.ReceiveExpenseAmount().Equal(decimal.NewFromInt(400)) {
		t.Fatalf("expected expense amount 400, got %s", m.ReceiveExpenseAmount())
	}
}

func TestMaterialReceive_ZeroApprovalIsReceivableWithZeroExpense(t *testing.T) {
	// A zero approval is a valid outcome and must not dead-end the
	// lifecycle: receive succeeds and the computed expense is zero, which
	// the posting path treats as nothing-to-post.
	m := requestedMaterial(10)
	if err := m.Approve(nd(0), 7); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	cost := decimal.NewFromInt(50)
	if err := m.Receive(decimal.NullDecimal{}, &cost); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if m.Status != models.MaterialStatusReceived {
		t.Fatalf("expected received, got %s", m.Status)
	}
	if !m.ReceiveExpenseAmount().IsZero() {
		t.Fatalf("expected zero expense amount, got %s", m.ReceiveExpenseAmount())
	}
}

func TestMaterialAvailable_PoolPriority(t *testing.T) {
	m := requestedMaterial(100)
	if !m.Available().Equal(decimal.NewFromInt(100)) {
		t.Fatalf("requested: expected quantity as pool, got %s", m.Available())
	}
	m.ApprovedQuantity = nd(80)
	if !m.Available().Equal(decimal.NewFromInt(80)) {
		t.Fatalf("approved: expected approvedQuantity as pool, got %s", m.Available())
	}
	m.ReceivedQuantity = nd(70)
	if !m.Available().Equal(decimal.NewFromInt(70)) {
		t.Fatalf("received: expected receivedQuantity as pool, got %s", m.Available())
	}
}

func TestMaterialConsume_SequenceExhaustsPool(t *testing.T) {
	m := requestedMaterial(100)
	if err := m.Approve(decimal.NullDecimal{}, 7); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if err := m.Receive(decimal.NullDecimal{}, nil); err != nil {
		t.Fatalf("Receive: %v", err)
	}

	if err := m.ApplyConsume(decimal.NewFromInt(30)); err != nil {
		t.Fatalf("consume 30: %v", err)
	}
	if err := m.ApplyConsume(decimal.NewFromInt(50)); err != nil {
		t.Fatalf("consume 50: %v", err)
	}

	err := m.ApplyConsume(decimal.NewFromInt(40))
	if err == nil {
		t.Fatal("expected over-consume to fail")
	}
	if utils.KindOf(err) != utils.ErrorKindConflict {
		t.Fatalf("expected Conflict, got %s", utils.KindOf(err))
	}
	meta := utils.MetaOf(err)
	if meta == nil || meta["available"] != "20" {
		t.Fatalf("expected available=20 in error meta, got %v", meta)
	}

	// The failed consume must not mutate state.
	if !m.UsedQuantity.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("expected usedQuantity=80, got %s", m.UsedQuantity)
	}
	if m.Status != models.MaterialStatusReceived {
		t.Fatalf("expected status received, got %s", m.Status)
	}

	if err := m.ApplyConsume(decimal.NewFromInt(20)); err != nil {
		t.Fatalf("consume 20: %v", err)
	}
	if m.Status != models.MaterialStatusUsed {
		t.Fatalf("expected status used after exhausting pool, got %s", m.Status)
	}
}

func TestMaterialConsume_RequiresPositiveDelta(t *testing.T) {
	m := requestedMaterial(10)
	m.Status = models.MaterialStatusReceived
	m.ReceivedQuantity = nd(10)
	for _, delta := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-1)} {
		if err := m.ApplyConsume(delta); err == nil {
			t.Fatalf("delta=%s: expected error", delta)
		}
	}
}

func TestMaterialConsume_OnlyReceivedOrUsed(t *testing.T) {
	for _, status := range []models.MaterialStatus{
		models.MaterialStatusRequested,
		models.MaterialStatusApproved,
		models.MaterialStatusRejected,
	} {
		m := requestedMaterial(10)
		m.Status = status
		if err := m.ApplyConsume(decimal.NewFromInt(1)); err == nil {
			t.Fatalf("status=%s: expected consume to fail", status)
		}
	}
}

func TestMaterialSetStatus_RejectsUnknownStatus(t *testing.T) {
	m := requestedMaterial(10)
	if err := m.SetStatus("ordered"); err == nil {
		t.Fatal("expected error for unknown status")
	}
	if err := m.SetStatus(models.MaterialStatusReceived); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if m.Status != models.MaterialStatusReceived {
		t.Fatalf("expected received, got %s", m.Status)
	}
}

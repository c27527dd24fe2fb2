package models_test

import (
	"testing"

	"bitbucket.org/sitestack/sitebooks_backend/models"
	"github.com/shopspring/decimal"
)

func txn(projectId int, txType models.TransactionType, amount int64) *models.Transaction {
	return &models.Transaction{
		ProjectId: projectId,
		Type:      txType,
		Category:  "general",
		Amount:    decimal.NewFromInt(amount),
	}
}

func workerTxn(workerId int, category string, amount int64) *models.Transaction {
	return &models.Transaction{
		ProjectId: 1,
		Type:      models.TransactionTypeExpense,
		Category:  category,
		Amount:    decimal.NewFromInt(amount),
		WorkerId:  &workerId,
	}
}

func TestAggregateProjectSummaries_BalanceAndZeroRows(t *testing.T) {
	txns := []*models.Transaction{
		txn(1, models.TransactionTypeIncome, 1000),
		txn(1, models.TransactionTypeExpense, 300),
		txn(1, models.TransactionTypeExpense, 200),
		txn(2, models.TransactionTypeIncome, 50),
	}
	out := models.AggregateProjectSummaries([]int{1, 2, 3}, txns)
	if len(out) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(out))
	}
	byProject := map[int]*models.ProjectTransactionSummary{}
	for _, s := range out {
		byProject[s.ProjectId] = s
	}

	p1 := byProject[1]
	if !p1.Income.Equal(decimal.NewFromInt(1000)) || !p1.Expense.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("project 1 totals wrong: income=%s expense=%s", p1.Income, p1.Expense)
	}
	if !p1.Balance.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("project 1 balance: expected 500, got %s", p1.Balance)
	}

	// A project with no transactions yields a zero row, not absence.
	p3 := byProject[3]
	if p3 == nil {
		t.Fatal("expected zero row for project 3")
	}
	if !p3.Income.IsZero() || !p3.Expense.IsZero() || !p3.Balance.IsZero() {
		t.Fatalf("project 3 should be all zero, got %+v", p3)
	}
}

func TestAggregateProjectSummaries_OrderIndependent(t *testing.T) {
	txns := []*models.Transaction{
		txn(1, models.TransactionTypeIncome, 10),
		txn(1, models.TransactionTypeExpense, 3),
		txn(1, models.TransactionTypeIncome, 7),
		txn(1, models.TransactionTypeExpense, 4),
	}
	reversed := make([]*models.Transaction, len(txns))
	for i, tx := range txns {
		reversed[len(txns)-1-i] = tx
	}

	a := models.AggregateProjectSummaries([]int{1}, txns)[0]
	b := models.AggregateProjectSummaries([]int{1}, reversed)[0]
	if !a.Income.Equal(b.Income) || !a.Expense.Equal(b.Expense) || !a.Balance.Equal(b.Balance) {
		t.Fatalf("aggregation depends on order: %+v vs %+v", a, b)
	}
}

func TestAggregateWorkerPayments_SumsReservedCategories(t *testing.T) {
	txns := []*models.Transaction{
		workerTxn(5, models.CategoryWorkerAdvance, 200),
		workerTxn(5, models.CategoryWorkerAdvance, 300),
		workerTxn(5, models.CategoryWorkerSalary, 1500),
		workerTxn(6, models.CategoryWorkerAdvance, 999), // other worker
		workerTxn(5, models.CategoryMaterials, 50),      // not a payment category
	}
	summary := models.AggregateWorkerPayments(5, txns)
	if !summary.TotalAdvance.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected totalAdvance=500, got %s", summary.TotalAdvance)
	}
	if !summary.TotalSalary.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("expected totalSalary=1500, got %s", summary.TotalSalary)
	}
}

func TestAggregateWorkerPayments_NoPaymentsIsZero(t *testing.T) {
	summary := models.AggregateWorkerPayments(5, nil)
	if !summary.TotalSalary.IsZero() || !summary.TotalAdvance.IsZero() {
		t.Fatalf("expected zero totals, got %+v", summary)
	}
}

func TestUpdateTransactionInput_ChangesOnlyDescriptiveColumns(t *testing.T) {
	desc := "revised note"
	ref := "INV-42"
	attach := "https://example.com/receipt.pdf"
	status := models.TransactionStatusCancelled
	input := models.UpdateTransactionInput{
		Description:   &desc,
		Reference:     &ref,
		AttachmentUrl: &attach,
		Status:        &status,
	}
	changes := input.Changes()
	allowed := map[string]bool{
		"description":    true,
		"reference":      true,
		"attachment_url": true,
		"status":         true,
	}
	for column := range changes {
		if !allowed[column] {
			t.Fatalf("update must never touch column %q", column)
		}
	}
	if len(changes) != 4 {
		t.Fatalf("expected 4 changed columns, got %d", len(changes))
	}
	var empty models.UpdateTransactionInput
	if len(empty.Changes()) != 0 {
		t.Fatal("empty input must produce no changes")
	}
}

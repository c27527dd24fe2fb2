package reports

import (
	"context"
	"fmt"

	"bitbucket.org/sitestack/sitebooks_backend/models"
	"bitbucket.org/sitestack/sitebooks_backend/workflow"
	"github.com/xuri/excelize/v2"
)

// BuildTransactionWorkbook renders the principal's visible transactions into
// an xlsx workbook. Scoping is applied by the workflow layer; this only
// formats what the caller is allowed to see.
func BuildTransactionWorkbook(ctx context.Context, p models.Principal, filter workflow.TransactionFilter) (*excelize.File, error) {
	txns, err := workflow.ListTransactions(ctx, p, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Transactions"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []string{"Id", "Project", "Date", "Type", "Category", "Amount", "Worker", "Material", "Status", "Description", "Reference"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, t := range txns {
		values := []interface{}{
			t.ID,
			t.ProjectId,
			t.TransactionDate.Format("2006-01-02"),
			string(t.Type),
			t.Category,
			t.Amount.String(),
			derefInt(t.WorkerId),
			derefInt(t.MaterialId),
			string(t.Status),
			t.Description,
			t.Reference,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}
	return f, nil
}

func derefInt(p *int) string {
	if p == nil {
		return ""
	}
	return fmt.Sprint(*p)
}

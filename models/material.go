package models

import (
	"context"
	"time"

	"bitbucket.org/sitestack/sitebooks_backend/utils"
	"github.com/shopspring/decimal"
)

type Material struct {
	ID               int                 `gorm:"primary_key" json:"id"`
	ProjectId        int                 `gorm:"index;not null" json:"project_id" binding:"required"`
	Name             string              `gorm:"size:255;not null" json:"name" binding:"required"`
	Unit             string              `gorm:"size:64" json:"unit"`
	Supplier         string              `gorm:"size:255" json:"supplier"`
	Notes            string              `gorm:"type:text" json:"notes"`
	Quantity         decimal.Decimal     `gorm:"type:decimal(20,4);not null" json:"quantity"`
	ApprovedQuantity decimal.NullDecimal `gorm:"type:decimal(20,4)" json:"approved_quantity"`
	ReceivedQuantity decimal.NullDecimal `gorm:"type:decimal(20,4)" json:"received_quantity"`
	UsedQuantity     decimal.Decimal     `gorm:"type:decimal(20,4);not null;default:0" json:"used_quantity"`
	Cost             decimal.Decimal     `gorm:"type:decimal(20,4);not null;default:0" json:"cost"`
	Status           MaterialStatus      `gorm:"type:enum('requested','approved','rejected','received','used');not null;default:'requested'" json:"status"`
	RequestedBy      int                 `gorm:"not null" json:"requested_by"`
	ApprovedBy       *int                `json:"approved_by"`
	CreatedAt        time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewMaterial struct {
	ProjectId int             `json:"project_id" binding:"required"`
	Name      string          `json:"name" binding:"required,notblank"`
	Unit      string          `json:"unit"`
	Supplier  string          `json:"supplier"`
	Notes     string          `json:"notes"`
	Quantity  decimal.Decimal `json:"quantity"`
	Cost      decimal.Decimal `json:"cost"`
}

// UpdateMaterialInput covers descriptive fields only. Quantities and status
// move through the guarded transitions.
type UpdateMaterialInput struct {
	Name     *string `json:"name"`
	Unit     *string `json:"unit"`
	Supplier *string `json:"supplier"`
	Notes    *string `json:"notes"`
}

func (input *NewMaterial) Validate(ctx context.Context) error {
	if !input.Quantity.IsPositive() {
		return utils.NewInvalidInput("quantity must be greater than zero")
	}
	if input.Cost.IsNegative() {
		return utils.NewInvalidInput("cost must not be negative")
	}
	if err := utils.ValidateResourceId[Project](ctx, input.ProjectId); err != nil {
		return utils.NewNotFound("project %d not found", input.ProjectId)
	}
	return nil
}

func (input *UpdateMaterialInput) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if input.Name != nil {
		changes["name"] = *input.Name
	}
	if input.Unit != nil {
		changes["unit"] = *input.Unit
	}
	if input.Supplier != nil {
		changes["supplier"] = *input.Supplier
	}
	if input.Notes != nil {
		changes["notes"] = *input.Notes
	}
	return changes
}

// Available is the quantity pool eligible for consumption:
// receivedQuantity ?? approvedQuantity ?? quantity, in that priority order.
func (m *Material) Available() decimal.Decimal {
	if m.ReceivedQuantity.Valid {
		return m.ReceivedQuantity.Decimal
	}
	if m.ApprovedQuantity.Valid {
		return m.ApprovedQuantity.Decimal
	}
	return m.Quantity
}

// Remaining is what consume events may still draw from the pool.
func (m *Material) Remaining() decimal.Decimal {
	return m.Available().Sub(m.UsedQuantity)
}

// Approve transitions requested -> approved. approvedQuantity defaults to the
// requested quantity and must be >= 0.
func (m *Material) Approve(approvedQuantity decimal.NullDecimal, approverId int) error {
	if m.Status != MaterialStatusRequested {
		return utils.NewConflict("material %d cannot be approved from status %s", m.ID, m.Status)
	}
	qty := m.Quantity
	if approvedQuantity.Valid {
		qty = approvedQuantity.Decimal
	}
	if qty.IsNegative() {
		return utils.NewInvalidInput("approved quantity must not be negative")
	}
	m.ApprovedQuantity = decimal.NullDecimal{Decimal: qty, Valid: true}
	m.Status = MaterialStatusApproved
	m.ApprovedBy = &approverId
	return nil
}

// Reject transitions requested -> rejected. Terminal.
func (m *Material) Reject(approverId int) error {
	if m.Status != MaterialStatusRequested {
		return utils.NewConflict("material %d cannot be rejected from status %s", m.ID, m.Status)
	}
	m.Status = MaterialStatusRejected
	m.ApprovedBy = &approverId
	return nil
}

// Receive transitions approved -> received. receivedQuantity defaults to the
// approved quantity; cost overrides the stored unit cost when provided.
// The caller records the matching expense in the same transaction.
func (m *Material) Receive(receivedQuantity decimal.NullDecimal, cost *decimal.Decimal) error {
	if m.Status != MaterialStatusApproved {
		return utils.NewConflict("material %d cannot be received from status %s", m.ID, m.Status)
	}
	qty := m.ApprovedQuantity.Decimal
	if receivedQuantity.Valid {
		qty = receivedQuantity.Decimal
	}
	if qty.IsNegative() {
		return utils.NewInvalidInput("received quantity must not be negative")
	}
	if cost != nil {
		if cost.IsNegative() {
			return utils.NewInvalidInput("cost must not be negative")
		}
		m.Cost = *cost
	}
	m.ReceivedQuantity = decimal.NullDecimal{Decimal: qty, Valid: true}
	m.Status = MaterialStatusReceived
	return nil
}

// ApplyConsume increments usedQuantity by delta, bounded by the available
// pool. The DB path must apply the same predicate as a conditional atomic
// update; this in-memory form is the reference semantics for both.
func (m *Material) ApplyConsume(delta decimal.Decimal) error {
	if !delta.IsPositive() {
		return utils.NewInvalidInput("consumed quantity must be greater than zero")
	}
	if m.Status != MaterialStatusReceived && m.Status != MaterialStatusUsed {
		return utils.NewConflict("material %d cannot be consumed from status %s", m.ID, m.Status)
	}
	remaining := m.Remaining()
	if delta.GreaterThan(remaining) {
		return utils.NewConflict("insufficient quantity for material %d", m.ID).
			WithMeta("available", remaining.String())
	}
	m.UsedQuantity = m.UsedQuantity.Add(delta)
	if m.UsedQuantity.Equal(m.Available()) {
		m.Status = MaterialStatusUsed
	}
	return nil
}

// SetStatus is the admin-only escape hatch that bypasses the guarded
// transitions. Not a normal-path transition.
func (m *Material) SetStatus(status MaterialStatus) error {
	if !status.Valid() {
		return utils.NewInvalidInput("invalid material status %q", status)
	}
	m.Status = status
	return nil
}

// ReceiveExpenseAmount is receivedQuantity * cost, the amount of the expense
// transaction emitted by a successful receive.
func (m *Material) ReceiveExpenseAmount() decimal.Decimal {
	return m.ReceivedQuantity.Decimal.Mul(m.Cost)
}

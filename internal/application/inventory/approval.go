package inventory

import (
	"strings"

	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

// ApprovalPolicy decide cómo se aprueban los ajustes de inventario.
type ApprovalPolicy interface {
	// ApproveOnCreate: true si el creador queda como aprobador al registrar el ajuste.
	ApproveOnCreate(adj *entity.StockAdjustment) bool
	// CanApprove valida que approver pueda aprobar un ajuste pendiente.
	CanApprove(adj *entity.StockAdjustment, approver string) error
}

// AutoApprovePolicy: creador == aprobador (comportamiento por defecto).
type AutoApprovePolicy struct{}

func (AutoApprovePolicy) ApproveOnCreate(*entity.StockAdjustment) bool { return true }

func (AutoApprovePolicy) CanApprove(*entity.StockAdjustment, string) error { return nil }

// SeparateApproverPolicy deja el ajuste PENDING hasta que otro usuario lo apruebe.
type SeparateApproverPolicy struct{}

func (SeparateApproverPolicy) ApproveOnCreate(*entity.StockAdjustment) bool { return false }

func (SeparateApproverPolicy) CanApprove(adj *entity.StockAdjustment, approver string) error {
	if approver == adj.CreatedBy {
		return domain.Conflict("el ajuste %s debe aprobarlo un usuario distinto de su creador", adj.AdjustmentNumber)
	}
	return nil
}

// ApprovalPolicyFromString: "manual" → SeparateApproverPolicy; cualquier otro valor → AutoApprovePolicy.
func ApprovalPolicyFromString(s string) ApprovalPolicy {
	if strings.EqualFold(strings.TrimSpace(s), "manual") {
		return SeparateApproverPolicy{}
	}
	return AutoApprovePolicy{}
}

package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/feefines/internal/adapter/http/dto"
	"github.com/iho/feefines/internal/domain"
	"github.com/iho/feefines/internal/usecase"
)

// ActionService defines the behavior needed by ActionHandler.
type ActionService interface {
	Apply(ctx context.Context, t domain.ActionType, input usecase.ActionInput) (*usecase.ActionResult, error)
	ApplyBulk(ctx context.Context, t domain.ActionType, input usecase.BulkActionInput) (*usecase.ActionResult, error)
	Check(ctx context.Context, t domain.ActionType, input usecase.ActionInput) (*usecase.CheckResult, error)
	CheckBulk(ctx context.Context, t domain.ActionType, input usecase.BulkActionInput) (*usecase.CheckResult, error)
	RefundTargets(ctx context.Context, accountID string) ([]domain.RefundTarget, error)
}

// ActionHandler serves pay, waive, transfer, cancel and refund along with
// their bulk and check variants.
type ActionHandler struct {
	actionUC ActionService
}

// NewActionHandler creates a new ActionHandler.
func NewActionHandler(actionUC ActionService) *ActionHandler {
	return &ActionHandler{actionUC: actionUC}
}

// Apply returns the handler for one action type on the fee/fine in the path.
func (h *ActionHandler) Apply(t domain.ActionType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.ActionRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		input := req.ToUseCaseInput(chi.URLParam(r, "id"))
		input.Metadata = withStaff(r, input.Metadata)

		result, err := h.actionUC.Apply(r.Context(), t, input)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, dto.ActionResultFromUseCase(result))
	}
}

// ApplyBulk returns the handler for one action type across several fees/fines.
func (h *ActionHandler) ApplyBulk(t domain.ActionType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.BulkActionRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		input := req.ToUseCaseInput()
		input.Metadata = withStaff(r, input.Metadata)

		result, err := h.actionUC.ApplyBulk(r.Context(), t, input)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, dto.ActionResultFromUseCase(result))
	}
}

// Check returns the dry-run handler for one action type on one fee/fine.
func (h *ActionHandler) Check(t domain.ActionType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.ActionRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		result, err := h.actionUC.Check(r.Context(), t, req.ToUseCaseInput(chi.URLParam(r, "id")))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, dto.CheckFromUseCase(result))
	}
}

// CheckBulk returns the dry-run handler for one action type across fees/fines.
func (h *ActionHandler) CheckBulk(t domain.ActionType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.BulkActionRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		result, err := h.actionUC.CheckBulk(r.Context(), t, req.ToUseCaseInput())
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, dto.CheckFromUseCase(result))
	}
}

// RefundTargets lists the prior debits a refund of the fee/fine would return money to.
func (h *ActionHandler) RefundTargets(w http.ResponseWriter, r *http.Request) {
	targets, err := h.actionUC.RefundTargets(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"refundTargets": dto.RefundTargetsFromDomain(targets),
	})
}

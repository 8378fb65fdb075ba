package budget

import (
	"github.com/ivolkov/founderdesk/internal/domain"
)

// Plan is the outcome of diffing an incoming item collection against the
// persisted one. Applying all three sets makes the store match the incoming
// collection exactly.
type Plan struct {
	ToInsert    []*domain.BudgetItem
	ToUpdate    []*domain.BudgetItem
	ToDeleteIDs []string
}

// Empty reports whether the plan mutates nothing.
func (p *Plan) Empty() bool {
	return len(p.ToInsert) == 0 && len(p.ToUpdate) == 0 && len(p.ToDeleteIDs) == 0
}

// PlanDiff computes the insert/update/delete sets that reconcile the
// persisted collection to the incoming one.
//
// An incoming item whose id matches a persisted item becomes an update that
// carries forward the persisted identity and creation timestamp; an incoming
// item with no id, or an id the store does not know, becomes an insert; any
// persisted item never referenced by the incoming collection is deleted.
//
// Duplicate ids in the incoming collection are processed in submission
// order and the last occurrence wins.
func PlanDiff(persisted, incoming []*domain.BudgetItem) *Plan {
	byID := make(map[string]*domain.BudgetItem, len(persisted))
	for _, it := range persisted {
		byID[it.ID] = it
	}

	plan := &Plan{}
	updateIdx := make(map[string]int)
	matched := make(map[string]bool, len(persisted))

	for _, in := range incoming {
		existing, known := byID[in.ID]
		if in.ID == "" || !known {
			ins := *in
			ins.ID = ""
			plan.ToInsert = append(plan.ToInsert, &ins)
			continue
		}

		upd := *in
		upd.BudgetID = existing.BudgetID
		upd.CreatedAt = existing.CreatedAt
		matched[in.ID] = true

		if idx, dup := updateIdx[in.ID]; dup {
			plan.ToUpdate[idx] = &upd
			continue
		}
		updateIdx[in.ID] = len(plan.ToUpdate)
		plan.ToUpdate = append(plan.ToUpdate, &upd)
	}

	for _, it := range persisted {
		if !matched[it.ID] {
			plan.ToDeleteIDs = append(plan.ToDeleteIDs, it.ID)
		}
	}

	return plan
}
